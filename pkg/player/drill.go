package player

import "time"

// drillSequencer runs the focused repetition programs. Both drill kinds
// share the same three-step French, English, French pattern with a fixed
// gap between steps; the vocabulary drill additionally iterates items and
// continues across segment boundaries until the lesson runs out.
// All methods assume the session lock is held.
type drillSequencer struct {
	s     *Session
	state DrillState
}

func (d *drillSequencer) reset() {
	d.state = DrillState{Kind: DrillNone}
}

func (d *drillSequencer) active() bool {
	return d.state.Kind != DrillNone
}

func (d *drillSequencer) startSentence(segIndex int) {
	d.state = DrillState{Kind: DrillSentence, SegmentIndex: segIndex}
	d.runStep()
}

// startVocabulary begins at the indexed segment's first item. The session
// rejects starting on a segment without vocabulary, so VocabIndex 0 is
// always valid here.
func (d *drillSequencer) startVocabulary(segIndex int) {
	d.state = DrillState{Kind: DrillVocabulary, SegmentIndex: segIndex}
	d.runStep()
}

// stop cancels the drill mid-flight. The gap timer and any live clip are
// torn down and any in-flight completion is invalidated.
func (d *drillSequencer) stop() {
	d.s.invalidate()
	d.s.res.release(slotDrill)
	d.reset()
}

// runStep plays the current step's clip. Steps whose audio is absent are
// skipped immediately, without a second gap, until an audible step or the
// end of the program is reached.
func (d *drillSequencer) runStep() {
	s := d.s
	for {
		audio := d.stepAudio()
		if len(audio) > 0 {
			clip, err := s.res.acquire(slotDrill, audio)
			if err != nil {
				s.logger.Warn("drill clip failed to start", "state", d.state, "error", err)
				s.emitError(err)
				d.afterStepComplete()
				return
			}
			epoch := s.epoch
			clip.Play(func(err error) { s.clipDone(slotDrill, epoch, err) })
			return
		}
		if d.advance() {
			s.finishDrill()
			return
		}
	}
}

// onClipDone handles completion of the current step's clip. A failure is
// treated as a completed step.
func (d *drillSequencer) onClipDone(err error) {
	s := d.s
	if err != nil {
		s.logger.Warn("drill clip failed mid-play", "state", d.state, "error", err)
		s.emitError(err)
	}
	s.res.release(slotDrill)
	d.afterStepComplete()
}

// afterStepComplete advances past a finished step. The inter-step gap is
// only observed between steps, never after the final one.
func (d *drillSequencer) afterStepComplete() {
	s := d.s
	if d.advance() {
		s.finishDrill()
		return
	}
	if s.cfg.StepGap > 0 {
		epoch := s.epoch
		s.gapTimer = time.AfterFunc(s.cfg.StepGap, func() { s.gapElapsed(epoch) })
		return
	}
	d.runStep()
}

// gapElapsed runs on the timer goroutine; it re-enters through the
// session lock and is discarded when stale.
func (d *drillSequencer) gapElapsed(epoch uint64) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch || !d.active() {
		return
	}
	s.gapTimer = nil
	d.runStep()
	s.emit(StateChanged)
}

// stepAudio returns the payload the current step needs, or nil when that
// side has no spoken form. VocabIndex -1 is the single French label pass
// a vocabulary-less segment gets before the drill moves on.
func (d *drillSequencer) stepAudio() []byte {
	seg := d.s.lesson.Segment(d.state.SegmentIndex)
	if seg == nil {
		return nil
	}

	switch d.state.Kind {
	case DrillSentence:
		if d.state.Step == 1 {
			return seg.EnglishAudio
		}
		return seg.FrenchAudio
	case DrillVocabulary:
		if d.state.VocabIndex < 0 {
			return seg.FrenchAudio
		}
		item := &seg.Vocab[d.state.VocabIndex]
		if d.state.Step == 1 {
			return item.EnglishAudio
		}
		return item.FrenchAudio
	}
	return nil
}

// advance moves the sequencer to its next position and reports whether
// the program is finished.
func (d *drillSequencer) advance() bool {
	switch d.state.Kind {
	case DrillSentence:
		d.state.Step++
		return d.state.Step >= 3
	case DrillVocabulary:
		if d.state.VocabIndex < 0 {
			return d.nextSegment()
		}
		d.state.Step++
		if d.state.Step < 3 {
			return false
		}
		d.state.Step = 0
		d.state.VocabIndex++
		seg := d.s.lesson.Segment(d.state.SegmentIndex)
		if d.state.VocabIndex < len(seg.Vocab) {
			return false
		}
		return d.nextSegment()
	}
	return true
}

// nextSegment carries the vocabulary drill across a segment boundary and
// keeps the externally visible current segment in step with it.
func (d *drillSequencer) nextSegment() bool {
	s := d.s
	next := d.state.SegmentIndex + 1
	if next >= s.lesson.Len() {
		return true
	}
	d.state.SegmentIndex = next
	d.state.Step = 0
	if len(s.lesson.Segment(next).Vocab) > 0 {
		d.state.VocabIndex = 0
	} else {
		d.state.VocabIndex = -1
	}
	s.pb.index = next
	return false
}
