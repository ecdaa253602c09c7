package lesson

import (
	"context"
	"fmt"
	"strings"
)

// Translator produces the English rendering of a French text.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
	Name() string
}

// Synthesizer produces an encoded spoken-audio payload for a text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) ([]byte, error)
	Name() string
}

// Builder completes provider input pairs into playable segments: missing
// English text is translated and missing audio is synthesized. Either
// provider may be nil, in which case its output stays absent and the
// player degrades around it.
type Builder struct {
	translator Translator
	synth      Synthesizer
}

// NewBuilder creates a builder; nil providers are allowed.
func NewBuilder(translator Translator, synth Synthesizer) *Builder {
	return &Builder{translator: translator, synth: synth}
}

// Build constructs a complete lesson from input pairs.
func (b *Builder) Build(ctx context.Context, title string, inputs []SegmentInput) (*Lesson, error) {
	l := New(title, inputs)
	for i := range l.Segments {
		if err := b.completeSegment(ctx, &l.Segments[i]); err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return l, nil
}

// Complete fills the missing text and audio of an already-built lesson in
// place, segment by segment.
func (b *Builder) Complete(ctx context.Context, l *Lesson) error {
	for i := range l.Segments {
		if err := b.completeSegment(ctx, &l.Segments[i]); err != nil {
			return fmt.Errorf("segment %d: %w", i, err)
		}
	}
	return nil
}

func (b *Builder) completeSegment(ctx context.Context, seg *Segment) error {
	if seg.EnglishText == "" && b.translator != nil && seg.FrenchText != "" {
		english, err := b.translator.Translate(ctx, seg.FrenchText, LangFrench, LangEnglish)
		if err != nil {
			return fmt.Errorf("translate: %w", err)
		}
		seg.EnglishText = strings.TrimSpace(english)
	}

	var err error
	if seg.FrenchAudio, err = b.synthIfMissing(ctx, seg.FrenchAudio, seg.FrenchText, LangFrench); err != nil {
		return err
	}
	if seg.EnglishAudio, err = b.synthIfMissing(ctx, seg.EnglishAudio, seg.EnglishText, LangEnglish); err != nil {
		return err
	}

	for j := range seg.Vocab {
		item := &seg.Vocab[j]
		if item.EnglishText == "" && b.translator != nil && item.FrenchText != "" {
			english, terr := b.translator.Translate(ctx, item.FrenchText, LangFrench, LangEnglish)
			if terr != nil {
				return fmt.Errorf("translate vocab: %w", terr)
			}
			item.EnglishText = strings.TrimSpace(english)
		}
		if item.FrenchAudio, err = b.synthIfMissing(ctx, item.FrenchAudio, item.FrenchText, LangFrench); err != nil {
			return err
		}
		if item.EnglishAudio, err = b.synthIfMissing(ctx, item.EnglishAudio, item.EnglishText, LangEnglish); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) synthIfMissing(ctx context.Context, existing []byte, text, lang string) ([]byte, error) {
	if len(existing) > 0 || b.synth == nil || text == "" {
		return existing, nil
	}
	audio, err := b.synth.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", lang, err)
	}
	return audio, nil
}
