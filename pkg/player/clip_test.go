package player

import (
	"errors"
	"sync"

	"github.com/parlons-ai/parlons-player/pkg/lesson"
)

// fakeClip records lifecycle calls. Stop intentionally does not clear the
// completion callback so tests can imitate a late event from a superseded
// handle and assert it is discarded.
type fakeClip struct {
	payload string
	onDone  func(error)
	plays   int
	stops   int
	paused  bool
	resumed bool
}

func (c *fakeClip) Play(onDone func(err error)) {
	c.plays++
	c.onDone = onDone
}

func (c *fakeClip) Pause()  { c.paused = true }
func (c *fakeClip) Resume() { c.paused = false; c.resumed = true }
func (c *fakeClip) Stop()   { c.stops++ }

// finish fires the completion callback as the audio backend would.
func (c *fakeClip) finish(err error) {
	if c.onDone != nil {
		c.onDone(err)
	}
}

type fakeSource struct {
	mu      sync.Mutex
	clips   []*fakeClip
	failing map[string]bool
	created chan *fakeClip
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		failing: make(map[string]bool),
		created: make(chan *fakeClip, 64),
	}
}

func (s *fakeSource) NewClip(audio []byte) (Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[string(audio)] {
		return nil, errors.New("decode failed")
	}
	c := &fakeClip{payload: string(audio)}
	s.clips = append(s.clips, c)
	select {
	case s.created <- c:
	default:
	}
	return c, nil
}

func (s *fakeSource) last() *fakeClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clips) == 0 {
		return nil
	}
	return s.clips[len(s.clips)-1]
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clips)
}

// played returns the payloads of every clip that was actually started, in
// creation order.
func (s *fakeSource) played() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.clips {
		if c.plays > 0 {
			out = append(out, c.payload)
		}
	}
	return out
}

func (s *fakeSource) all() []*fakeClip {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*fakeClip, len(s.clips))
	copy(out, s.clips)
	return out
}

// threeSegmentLesson builds a lesson with French audio on every segment
// and English audio on the first.
func threeSegmentLesson() *lesson.Lesson {
	return &lesson.Lesson{
		ID: "lesson-1",
		Segments: []lesson.Segment{
			{ID: "a", FrenchText: "Bonjour.", EnglishText: "Hello.",
				FrenchAudio: []byte("s0-fr"), EnglishAudio: []byte("s0-en")},
			{ID: "b", FrenchText: "Merci.", EnglishText: "Thanks.",
				FrenchAudio: []byte("s1-fr")},
			{ID: "c", FrenchText: "Au revoir.", EnglishText: "Goodbye.",
				FrenchAudio: []byte("s2-fr")},
		},
	}
}

// vocabLesson matches the two-segment study scenario: the first segment
// carries one vocabulary item, the second none.
func vocabLesson() *lesson.Lesson {
	return &lesson.Lesson{
		ID: "lesson-2",
		Segments: []lesson.Segment{
			{ID: "a", FrenchText: "Le chat dort.", EnglishText: "The cat sleeps.",
				FrenchAudio: []byte("s0-fr"), EnglishAudio: []byte("s0-en"),
				Vocab: []lesson.VocabItem{
					{ID: "v0", FrenchText: "le chat", EnglishText: "the cat",
						FrenchAudio: []byte("v0-fr"), EnglishAudio: []byte("v0-en")},
				}},
			{ID: "b", FrenchText: "Il pleut.", EnglishText: "It rains.",
				FrenchAudio: []byte("s1-fr")},
		},
	}
}

func newTestSession(src *fakeSource) *Session {
	cfg := DefaultConfig()
	cfg.StepGap = 0 // chain drill steps immediately for deterministic tests
	return NewSession(src, cfg)
}

func drainEvents(s *Session) []Event {
	var out []Event
	for {
		select {
		case ev := <-s.Events():
			out = append(out, ev)
		default:
			return out
		}
	}
}
