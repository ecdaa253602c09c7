package player

import (
	"sync"
	"time"

	"github.com/parlons-ai/parlons-player/pkg/lesson"
)

// Session is the facade a view talks to. It owns the single audio output
// and arbitrates between continuous playback and the drill sequencer: at
// most one of the two is active at any moment, and while a drill owns the
// output (or a finished drill awaits Resume) every playback command is
// rejected rather than queued.
//
// All commands return immediately; progress is observed through the
// Events channel, which carries a fresh state snapshot on every
// transition.
type Session struct {
	mu     sync.Mutex
	cfg    Config
	logger Logger
	res    *resourceSet
	lesson *lesson.Lesson

	pb    playbackEngine
	drill drillSequencer

	// resumePending is set when a drill ends, manually or naturally, and
	// cleared only by Resume. wasPlaying is captured at drill start and
	// consumed by Resume.
	resumePending bool
	wasPlaying    bool

	// epoch tags every scheduled completion and gap timer. It is bumped on
	// every cancellation, so a stale event arriving afterwards identifies
	// itself by its mismatched tag and is discarded without touching state.
	epoch    uint64
	gapTimer *time.Timer

	events chan Event
	closed bool
}

// NewSession creates a session playing through the given clip source.
func NewSession(source ClipSource, cfg Config) *Session {
	return NewSessionWithLogger(source, cfg, &NoOpLogger{})
}

// NewSessionWithLogger creates a session with a custom logger.
// If logger is nil, a no-op logger is used.
func NewSessionWithLogger(source ClipSource, cfg Config, logger Logger) *Session {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	s := &Session{
		cfg:    cfg,
		logger: logger,
		res:    newResourceSet(source),
		events: make(chan Event, cfg.EventBuffer),
	}
	s.pb.s = s
	s.drill.s = s
	s.drill.reset()
	return s
}

// Events returns the channel of state transitions for the view to render.
func (s *Session) Events() <-chan Event {
	return s.events
}

// LoadLesson replaces the current lesson wholesale. Every live clip is
// released and all state resets to its initial values.
func (s *Session) LoadLesson(l *lesson.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}

	s.invalidate()
	s.res.releaseAll()
	s.lesson = l
	s.pb.reset()
	s.drill.reset()
	s.resumePending = false
	s.wasPlaying = false

	s.logger.Info("lesson loaded", "id", l.ID, "segments", l.Len())
	s.emit(LessonLoaded)
	return nil
}

// Play starts or resumes continuous playback at the current segment.
func (s *Session) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardPlayback(); err != nil {
		return err
	}
	s.pb.play()
	s.emit(StateChanged)
	return nil
}

// Pause halts the sounding clip without losing the lesson position.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardPlayback(); err != nil {
		return err
	}
	s.pb.pause()
	s.emit(StateChanged)
	return nil
}

// SkipForward moves one segment ahead, clamped to the last segment, and
// starts its French clip immediately.
func (s *Session) SkipForward() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardPlayback(); err != nil {
		return err
	}
	s.pb.skip(1)
	s.emit(StateChanged)
	return nil
}

// Rewind moves one segment back, clamped to the first segment, and starts
// its French clip immediately.
func (s *Session) Rewind() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardPlayback(); err != nil {
		return err
	}
	s.pb.skip(-1)
	s.emit(StateChanged)
	return nil
}

// SelectSegment jumps to an arbitrary segment. Selecting the segment that
// is currently sounding pauses instead.
func (s *Session) SelectSegment(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardPlayback(); err != nil {
		return err
	}
	s.pb.selectSegment(index)
	s.emit(StateChanged)
	return nil
}

// ToggleSentenceDrill starts a sentence drill at the current segment, or
// stops the running one. Rejected while a vocabulary drill is active.
func (s *Session) ToggleSentenceDrill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.lesson == nil {
		return ErrNoLesson
	}

	switch s.drill.state.Kind {
	case DrillSentence:
		s.drill.stop()
		s.resumePending = true
		s.logger.Info("sentence drill stopped")
		s.emit(StateChanged)
		return nil
	case DrillVocabulary:
		return ErrDrillConflict
	}

	s.takeOutputForDrill()
	s.logger.Info("sentence drill started", "segment", s.pb.index)
	s.drill.startSentence(s.pb.index)
	s.emit(StateChanged)
	return nil
}

// ToggleVocabularyDrill starts a vocabulary drill at the current segment,
// or stops the running one. Rejected while a sentence drill is active and
// when the current segment has no vocabulary items.
func (s *Session) ToggleVocabularyDrill() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.lesson == nil {
		return ErrNoLesson
	}

	switch s.drill.state.Kind {
	case DrillVocabulary:
		s.drill.stop()
		s.resumePending = true
		s.logger.Info("vocabulary drill stopped")
		s.emit(StateChanged)
		return nil
	case DrillSentence:
		return ErrDrillConflict
	}

	if len(s.lesson.Segment(s.pb.index).Vocab) == 0 {
		return ErrNoVocabulary
	}

	s.takeOutputForDrill()
	s.logger.Info("vocabulary drill started", "segment", s.pb.index)
	s.drill.startVocabulary(s.pb.index)
	s.emit(StateChanged)
	return nil
}

// Resume returns output ownership to continuous playback after a drill.
// Playback restarts only if it was active when the drill took over, at
// whichever segment the drill left off on.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.resumePending {
		return ErrNotResumable
	}

	s.resumePending = false
	wasPlaying := s.wasPlaying
	s.wasPlaying = false
	if wasPlaying {
		s.pb.startSegment(s.pb.index)
	}
	s.logger.Info("lesson resumed", "segment", s.pb.index, "playing", wasPlaying)
	s.emit(StateChanged)
	return nil
}

// Snapshot returns the current view state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Close tears the session down, releasing every live clip and closing the
// events channel. The session cannot be reused afterwards.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.invalidate()
	s.res.releaseAll()
	s.drill.reset()
	s.pb.playing = false
	s.closed = true
	close(s.events)
}

// guardPlayback enforces the arbitration rules for playback commands.
func (s *Session) guardPlayback() error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.lesson == nil {
		return ErrNoLesson
	}
	if s.drill.active() {
		return ErrDrillActive
	}
	if s.resumePending {
		return ErrResumePending
	}
	return nil
}

// takeOutputForDrill remembers the playback intent and silences the
// playback engine before a drill takes the output. Starting a new drill
// while a previous one awaits Resume keeps the earlier intent.
func (s *Session) takeOutputForDrill() {
	if s.resumePending {
		s.resumePending = false
	} else {
		s.wasPlaying = s.pb.playing
	}
	s.pb.stop()
}

// finishDrill handles the sequencer reaching its natural end.
func (s *Session) finishDrill() {
	s.invalidate()
	s.res.release(slotDrill)
	s.drill.reset()
	s.resumePending = true
	s.logger.Info("drill finished", "segment", s.pb.index)
	s.emit(DrillFinished)
}

// invalidate cancels every outstanding scheduled event: the pending gap
// timer is stopped and the epoch is bumped so in-flight completions from
// superseded clips identify themselves as stale.
func (s *Session) invalidate() {
	s.epoch++
	if s.gapTimer != nil {
		s.gapTimer.Stop()
		s.gapTimer = nil
	}
}

// clipDone is the single re-entry point for clip completion and failure
// callbacks, which may arrive on any goroutine.
func (s *Session) clipDone(slot string, epoch uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch {
		s.logger.Debug("stale clip completion discarded", "slot", slot)
		return
	}

	switch slot {
	case slotDrill:
		if !s.drill.active() {
			return
		}
		s.drill.onClipDone(err)
	case slotPlayback:
		if s.drill.active() {
			return
		}
		s.pb.onClipDone(err)
	}
	s.emit(StateChanged)
}

// gapElapsed forwards the drill gap timer through the session lock.
func (s *Session) gapElapsed(epoch uint64) {
	s.drill.gapElapsed(epoch)
}

func (s *Session) snapshotLocked() Snapshot {
	var id string
	if s.lesson != nil {
		id = s.lesson.ID
	}
	return Snapshot{
		LessonID:            id,
		CurrentSegmentIndex: s.pb.index,
		IsPlaying:           s.pb.playing,
		Drill:               s.drill.state,
		ResumePending:       s.resumePending,
	}
}

func (s *Session) emit(t EventType) {
	s.emitEvent(Event{Type: t, Snapshot: s.snapshotLocked()})
}

func (s *Session) emitError(err error) {
	s.emitEvent(Event{Type: ClipError, Snapshot: s.snapshotLocked(), Data: err.Error()})
}

// emitEvent must never block: transitions are dropped with a warning when
// the view cannot keep up.
func (s *Session) emitEvent(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event dropped, buffer full", "type", string(ev.Type))
	}
}
