package lesson

import (
	"context"
	"errors"
	"testing"
)

func TestNewGeneratesIdentifiers(t *testing.T) {
	l := New("Greetings", []SegmentInput{
		{French: "Bonjour.", English: "Hello.", KeyVocab: []VocabInput{{French: "bonjour", English: "hello"}}},
		{ID: "fixed", French: "Merci.", English: "Thanks."},
	})

	if l.ID == "" {
		t.Error("expected a lesson id")
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 segments, got %d", l.Len())
	}
	if l.Segments[0].ID == "" {
		t.Error("expected a generated segment id")
	}
	if l.Segments[1].ID != "fixed" {
		t.Errorf("expected provided id kept, got %s", l.Segments[1].ID)
	}
	if len(l.Segments[0].Vocab) != 1 || l.Segments[0].Vocab[0].ID == "" {
		t.Error("expected vocabulary item with a generated id")
	}
	if l.Segments[0].FrenchAudio != nil {
		t.Error("expected audio absent until a builder fills it")
	}
}

func TestSegmentOutOfRange(t *testing.T) {
	l := New("x", []SegmentInput{{French: "Un."}})
	if l.Segment(-1) != nil || l.Segment(1) != nil {
		t.Error("expected nil for out-of-range indexes")
	}
	if l.Segment(0) == nil {
		t.Error("expected segment 0")
	}

	var nilLesson *Lesson
	if nilLesson.Len() != 0 || nilLesson.Segment(0) != nil {
		t.Error("expected nil lesson to behave as empty")
	}
}

type stubTranslator struct {
	prefix string
	err    error
}

func (s *stubTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	return s.prefix + text, s.err
}

func (s *stubTranslator) Name() string { return "stub-translate" }

type stubSynth struct {
	calls []string
	err   error
}

func (s *stubSynth) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	s.calls = append(s.calls, lang+":"+text)
	if s.err != nil {
		return nil, s.err
	}
	return []byte("audio(" + text + ")"), nil
}

func (s *stubSynth) Name() string { return "stub-synth" }

func TestBuilderCompletesSegments(t *testing.T) {
	synth := &stubSynth{}
	b := NewBuilder(&stubTranslator{prefix: "en:"}, synth)

	l, err := b.Build(context.Background(), "t", []SegmentInput{
		{French: "Bonjour.", KeyVocab: []VocabInput{{French: "bonjour"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seg := l.Segments[0]
	if seg.EnglishText != "en:Bonjour." {
		t.Errorf("expected translated english, got %q", seg.EnglishText)
	}
	if len(seg.FrenchAudio) == 0 || len(seg.EnglishAudio) == 0 {
		t.Error("expected both segment audio payloads synthesized")
	}
	if seg.Vocab[0].EnglishText != "en:bonjour" {
		t.Errorf("expected translated vocab, got %q", seg.Vocab[0].EnglishText)
	}
	if len(seg.Vocab[0].FrenchAudio) == 0 || len(seg.Vocab[0].EnglishAudio) == 0 {
		t.Error("expected vocab audio synthesized")
	}
}

func TestBuilderWithoutProvidersLeavesGaps(t *testing.T) {
	b := NewBuilder(nil, nil)
	l, err := b.Build(context.Background(), "t", []SegmentInput{{French: "Bonjour."}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seg := l.Segments[0]
	if seg.EnglishText != "" || seg.FrenchAudio != nil {
		t.Error("expected absent providers to leave text and audio absent")
	}
}

func TestBuilderPropagatesSynthesisErrors(t *testing.T) {
	wantErr := errors.New("voice service down")
	b := NewBuilder(nil, &stubSynth{err: wantErr})
	_, err := b.Build(context.Background(), "t", []SegmentInput{{French: "Bonjour."}})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected synthesis error surfaced, got %v", err)
	}
}

func TestBuilderDoesNotOverwriteExistingAudio(t *testing.T) {
	synth := &stubSynth{}
	b := NewBuilder(nil, synth)

	l := New("t", []SegmentInput{{French: "Bonjour.", English: "Hello."}})
	l.Segments[0].FrenchAudio = []byte("already-there")

	if err := b.Complete(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	if string(l.Segments[0].FrenchAudio) != "already-there" {
		t.Error("expected existing audio kept")
	}
	for _, call := range synth.calls {
		if call == "fr:Bonjour." {
			t.Error("expected no synthesis for audio that already exists")
		}
	}
}
