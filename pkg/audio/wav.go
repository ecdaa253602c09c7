package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NewWavBuffer wraps raw 16-bit mono PCM in a minimal WAV container.
func NewWavBuffer(pcm []byte, sampleRate int) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// ParseWav extracts the PCM payload and sample rate from a WAV buffer.
// Only uncompressed 16-bit PCM is supported. Payloads without a RIFF
// header are assumed to be raw PCM and returned as-is with rate 0.
func ParseWav(data []byte) (pcm []byte, sampleRate int, err error) {
	if len(data) < 12 || !bytes.HasPrefix(data, []byte("RIFF")) || string(data[8:12]) != "WAVE" {
		return data, 0, nil
	}

	var format, bitsPerSample uint16
	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkLen := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+chunkLen > len(data) {
			return nil, 0, fmt.Errorf("truncated wav chunk %q", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkLen < 16 {
				return nil, 0, fmt.Errorf("wav fmt chunk too short: %d bytes", chunkLen)
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			if format != 1 {
				return nil, 0, fmt.Errorf("unsupported wav format %d (want PCM)", format)
			}
			if bitsPerSample != 16 {
				return nil, 0, fmt.Errorf("unsupported wav bit depth %d (want 16)", bitsPerSample)
			}
			return data[body : body+chunkLen], sampleRate, nil
		}

		// Chunks are word-aligned.
		pos = body + chunkLen + (chunkLen & 1)
	}

	return nil, 0, fmt.Errorf("wav has no data chunk")
}
