package main

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/parlons-ai/parlons-player/pkg/audio"
	"github.com/parlons-ai/parlons-player/pkg/player"
)

const (
	SampleRate = 44100
	Channels   = 1
)

// deviceSource plays clips through one malgo playback device. The device
// runs continuously and renders whichever clip is current, so clip
// switches never re-open the output.
type deviceSource struct {
	mu      sync.Mutex
	mctx    *malgo.AllocatedContext
	device  *malgo.Device
	current *deviceClip
}

func newDeviceSource() (*deviceSource, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}

	ds := &deviceSource{mctx: mctx}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = Channels
	deviceConfig.SampleRate = SampleRate
	deviceConfig.Alsa.NoMMap = 1 // Better compatibility on some systems

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: ds.onSamples,
	})
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("failed to init playback device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		mctx.Uninit()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	ds.device = device
	return ds, nil
}

func (ds *deviceSource) onSamples(pOutput, pInput []byte, frameCount uint32) {
	ds.mu.Lock()
	clip := ds.current
	if clip == nil || clip.paused {
		ds.mu.Unlock()
		for i := range pOutput {
			pOutput[i] = 0
		}
		return
	}

	n := copy(pOutput, clip.pcm[clip.pos:])
	clip.pos += n
	for i := n; i < len(pOutput); i++ {
		pOutput[i] = 0
	}

	var done func(error)
	if clip.pos >= len(clip.pcm) {
		done = clip.onDone
		clip.onDone = nil
		ds.current = nil
	}
	ds.mu.Unlock()

	// Completion re-enters the session; keep it off the audio thread.
	if done != nil {
		go done(nil)
	}
}

func (ds *deviceSource) NewClip(data []byte) (player.Clip, error) {
	pcm, rate, err := audio.ParseWav(data)
	if err != nil {
		return nil, err
	}
	if rate != 0 && rate != SampleRate {
		pcm = resamplePCM(pcm, rate, SampleRate)
	}
	return &deviceClip{src: ds, pcm: pcm}, nil
}

func (ds *deviceSource) Close() {
	ds.mu.Lock()
	ds.current = nil
	ds.mu.Unlock()
	if ds.device != nil {
		ds.device.Uninit()
	}
	if ds.mctx != nil {
		ds.mctx.Uninit()
	}
}

// resamplePCM converts 16-bit mono PCM between rates by nearest-sample
// lookup. Good enough for speech clips.
func resamplePCM(pcm []byte, from, to int) []byte {
	if from == to || from <= 0 {
		return pcm
	}
	samples := len(pcm) / 2
	outSamples := int(int64(samples) * int64(to) / int64(from))
	out := make([]byte, outSamples*2)
	for i := 0; i < outSamples; i++ {
		j := int(int64(i) * int64(from) / int64(to))
		out[2*i] = pcm[2*j]
		out[2*i+1] = pcm[2*j+1]
	}
	return out
}

// deviceClip is one queued payload on the shared device.
type deviceClip struct {
	src    *deviceSource
	pcm    []byte
	pos    int
	paused bool
	onDone func(error)
}

func (c *deviceClip) Play(onDone func(err error)) {
	ds := c.src
	ds.mu.Lock()
	c.onDone = onDone
	c.paused = false
	ds.current = c
	ds.mu.Unlock()
}

func (c *deviceClip) Pause() {
	ds := c.src
	ds.mu.Lock()
	c.paused = true
	ds.mu.Unlock()
}

func (c *deviceClip) Resume() {
	ds := c.src
	ds.mu.Lock()
	if c.onDone != nil {
		c.paused = false
		ds.current = c
	}
	ds.mu.Unlock()
}

func (c *deviceClip) Stop() {
	ds := c.src
	ds.mu.Lock()
	c.onDone = nil
	if ds.current == c {
		ds.current = nil
	}
	ds.mu.Unlock()
}
