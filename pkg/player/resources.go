package player

import "fmt"

// Audio output slots. At most one clip is live per slot, and the playback
// and drill slots are never live at the same time.
const (
	slotPlayback = "playback"
	slotDrill    = "drill"
)

// resourceSet is the single owner of clip lifetimes. Every clip it creates
// is stopped exactly once: either when its slot is superseded or released,
// or on releaseAll at teardown. Callers must hold the session lock.
type resourceSet struct {
	source ClipSource
	slots  map[string]Clip
}

func newResourceSet(source ClipSource) *resourceSet {
	return &resourceSet{
		source: source,
		slots:  make(map[string]Clip),
	}
}

// acquire creates a clip for the payload and installs it in the slot,
// stopping and releasing any previous occupant first. A nil or empty
// payload is the valid "no audio" case and yields a nil clip without error.
func (r *resourceSet) acquire(slot string, audio []byte) (Clip, error) {
	r.release(slot)

	if len(audio) == 0 {
		return nil, nil
	}

	clip, err := r.source.NewClip(audio)
	if err != nil {
		return nil, fmt.Errorf("failed to create clip: %w", err)
	}
	r.slots[slot] = clip
	return clip, nil
}

// release stops and forgets the slot's clip. Safe to call on an empty slot
// or repeatedly.
func (r *resourceSet) release(slot string) {
	if clip, ok := r.slots[slot]; ok {
		clip.Stop()
		delete(r.slots, slot)
	}
}

// current returns the live clip in the slot, if any.
func (r *resourceSet) current(slot string) Clip {
	return r.slots[slot]
}

// releaseAll stops every live clip. Used on lesson replacement and Close.
func (r *resourceSet) releaseAll() {
	for slot, clip := range r.slots {
		clip.Stop()
		delete(r.slots, slot)
	}
}
