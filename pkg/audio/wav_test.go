package audio

import (
	"bytes"
	"testing"
)

func TestNewWavBuffer(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	sampleRate := 44100
	wav := NewWavBuffer(pcm, sampleRate)

	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Errorf("Expected RIFF prefix")
	}

	if !bytes.Contains(wav, []byte("WAVE")) {
		t.Errorf("Expected WAVE format identifier")
	}

	expectedLen := 44 + len(pcm)
	if len(wav) != expectedLen {
		t.Errorf("Expected length %d, got %d", expectedLen, len(wav))
	}
}

func TestParseWav(t *testing.T) {
	pcm := []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}
	wav := NewWavBuffer(pcm, 22050)

	got, rate, err := ParseWav(wav)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 22050 {
		t.Errorf("expected sample rate 22050, got %d", rate)
	}
	if !bytes.Equal(got, pcm) {
		t.Errorf("expected pcm %v, got %v", pcm, got)
	}
}

func TestParseWavRawPCM(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	got, rate, err := ParseWav(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0 {
		t.Errorf("expected rate 0 for raw pcm, got %d", rate)
	}
	if !bytes.Equal(got, raw) {
		t.Errorf("expected payload returned unchanged")
	}
}

func TestParseWavTruncated(t *testing.T) {
	wav := NewWavBuffer([]byte{1, 2, 3, 4}, 44100)
	_, _, err := ParseWav(wav[:len(wav)-2])
	if err == nil {
		t.Error("expected error for truncated wav")
	}
}
