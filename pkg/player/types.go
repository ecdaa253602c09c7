package player

import "time"

type Logger interface {
	Debug(msg string, args ...interface{})

	Info(msg string, args ...interface{})

	Warn(msg string, args ...interface{})

	Error(msg string, args ...interface{})
}

type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, args ...interface{}) {}
func (n *NoOpLogger) Info(msg string, args ...interface{})  {}
func (n *NoOpLogger) Warn(msg string, args ...interface{})  {}
func (n *NoOpLogger) Error(msg string, args ...interface{}) {}

// Clip is one startable, stoppable spoken-audio resource. Play begins
// output from the current position and arranges for onDone to be invoked
// exactly once when the clip finishes or fails; onDone must not be invoked
// after Stop. Stop disposes the underlying resources and is idempotent.
type Clip interface {
	Play(onDone func(err error))
	Pause()
	Resume()
	Stop()
}

// ClipSource turns an encoded audio payload into a playable Clip. The
// session never hands the same payload to two live clips at once.
type ClipSource interface {
	NewClip(audio []byte) (Clip, error)
}

type DrillKind string

const (
	DrillNone       DrillKind = "idle"
	DrillSentence   DrillKind = "sentence"
	DrillVocabulary DrillKind = "vocabulary"
)

// DrillState describes the sequencer position. For a vocabulary drill,
// VocabIndex is -1 while the segment's single French label pass is playing
// (a segment without vocabulary gets exactly one such pass). Step runs
// 0..2 over the French, English, French repetitions.
type DrillState struct {
	Kind         DrillKind `json:"kind"`
	SegmentIndex int       `json:"segment_index"`
	VocabIndex   int       `json:"vocab_index"`
	Step         int       `json:"step"`
}

// Snapshot is the read-only view state emitted on every transition.
type Snapshot struct {
	LessonID            string     `json:"lesson_id"`
	CurrentSegmentIndex int        `json:"current_segment_index"`
	IsPlaying           bool       `json:"is_playing"`
	Drill               DrillState `json:"drill"`
	ResumePending       bool       `json:"resume_pending"`
}

type EventType string

const (
	// StateChanged carries a fresh Snapshot after any transition.
	StateChanged EventType = "STATE_CHANGED"
	// LessonLoaded fires once per LoadLesson.
	LessonLoaded EventType = "LESSON_LOADED"
	// PlaybackEnded fires when continuous playback runs off the last segment.
	PlaybackEnded EventType = "PLAYBACK_ENDED"
	// DrillFinished fires when a drill reaches its natural end.
	DrillFinished EventType = "DRILL_FINISHED"
	// ClipError reports a clip that failed to start or finish cleanly.
	ClipError EventType = "CLIP_ERROR"
)

type Event struct {
	Type     EventType `json:"type"`
	Snapshot Snapshot  `json:"snapshot"`
	Data     string    `json:"data,omitempty"`
}

type Config struct {
	// StepGap is the pause between drill steps. Zero or negative disables
	// the pause and steps chain immediately.
	StepGap time.Duration
	// EventBuffer sizes the events channel; transitions emitted while the
	// buffer is full are dropped with a warning rather than blocking.
	EventBuffer int
}

func DefaultConfig() Config {
	return Config{
		StepGap:     800 * time.Millisecond,
		EventBuffer: 64,
	}
}
