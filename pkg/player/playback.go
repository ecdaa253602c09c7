package player

// playbackEngine drives normal continuous playback: one French clip per
// segment, auto-advance on completion, stop after the last segment.
// English audio is never reachable from here; it belongs to the drills.
// All methods assume the session lock is held.
type playbackEngine struct {
	s       *Session
	index   int
	playing bool
	paused  bool // a paused clip is retained in the playback slot
}

func (p *playbackEngine) reset() {
	p.index = 0
	p.playing = false
	p.paused = false
}

// play resumes a retained paused clip when one exists, otherwise starts
// the current segment from the beginning.
func (p *playbackEngine) play() {
	if p.paused {
		if clip := p.s.res.current(slotPlayback); clip != nil {
			clip.Resume()
			p.paused = false
			p.playing = true
			return
		}
		p.paused = false
	}
	p.startSegment(p.index)
}

// pause halts the sounding clip without releasing it, so play can resume
// from the same position without re-acquiring.
func (p *playbackEngine) pause() {
	if !p.playing {
		return
	}
	if clip := p.s.res.current(slotPlayback); clip != nil {
		clip.Pause()
		p.paused = true
	}
	p.playing = false
}

// stop releases the current clip and halts playback without moving the
// position. Used when a drill takes over the output.
func (p *playbackEngine) stop() {
	p.s.invalidate()
	p.s.res.release(slotPlayback)
	p.playing = false
	p.paused = false
}

func (p *playbackEngine) skip(delta int) {
	p.startSegment(clamp(p.index+delta, 0, p.s.lesson.Len()-1))
}

// selectSegment jumps to an arbitrary segment; selecting the segment that
// is already sounding toggles into pause instead.
func (p *playbackEngine) selectSegment(index int) {
	index = clamp(index, 0, p.s.lesson.Len()-1)
	if index == p.index && p.playing {
		p.pause()
		return
	}
	p.startSegment(index)
}

// startSegment starts the indexed segment's French clip from the
// beginning. A segment whose clip is absent or fails to start is treated
// as already finished, so one bad resource never stalls the lesson.
func (p *playbackEngine) startSegment(index int) {
	s := p.s
	s.invalidate()
	p.paused = false
	p.playing = true

	for {
		p.index = index
		seg := s.lesson.Segment(index)
		clip, err := s.res.acquire(slotPlayback, seg.FrenchAudio)
		if err != nil {
			s.logger.Warn("segment clip failed to start", "segment", seg.ID, "error", err)
			s.emitError(err)
		} else if clip != nil {
			epoch := s.epoch
			clip.Play(func(err error) { s.clipDone(slotPlayback, epoch, err) })
			return
		}

		if index+1 >= s.lesson.Len() {
			s.res.release(slotPlayback)
			p.playing = false
			s.emit(PlaybackEnded)
			return
		}
		index++
	}
}

// onClipDone handles completion of the current segment's clip. Failures
// arrive here too and advance exactly like completions.
func (p *playbackEngine) onClipDone(err error) {
	s := p.s
	if err != nil {
		s.logger.Warn("segment clip failed mid-play", "index", p.index, "error", err)
		s.emitError(err)
	}
	s.res.release(slotPlayback)

	if p.index+1 >= s.lesson.Len() {
		p.playing = false
		s.emit(PlaybackEnded)
		return
	}
	p.startSegment(p.index + 1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
