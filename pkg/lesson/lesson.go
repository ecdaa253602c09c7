package lesson

import "github.com/google/uuid"

// Language codes used across the lesson pipeline.
const (
	LangFrench  = "fr"
	LangEnglish = "en"
)

// VocabItem is one key-vocabulary term of a segment. Audio fields are nil
// when no spoken form is available for that side; the player skips them.
type VocabItem struct {
	ID           string
	FrenchText   string
	EnglishText  string
	FrenchAudio  []byte
	EnglishAudio []byte
}

// HasAudio reports whether the item carries at least one spoken form.
func (v *VocabItem) HasAudio() bool {
	return len(v.FrenchAudio) > 0 || len(v.EnglishAudio) > 0
}

// Segment is one sentence-level unit of a lesson. Position in the lesson's
// slice is the ordering key; IDs are opaque and need not be sequential.
type Segment struct {
	ID           string
	FrenchText   string
	EnglishText  string
	FrenchAudio  []byte
	EnglishAudio []byte
	Vocab        []VocabItem
}

// Lesson is an ordered, immutable-per-session sequence of segments.
// A lesson is replaced wholesale on reload, never mutated in place.
type Lesson struct {
	ID       string
	Title    string
	Segments []Segment
}

// Len returns the number of segments.
func (l *Lesson) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Segments)
}

// Segment returns the segment at index i, or nil when out of range.
func (l *Lesson) Segment(i int) *Segment {
	if l == nil || i < 0 || i >= len(l.Segments) {
		return nil
	}
	return &l.Segments[i]
}

// VocabInput is one key-vocabulary pair as delivered by the text provider.
type VocabInput struct {
	French  string
	English string
}

// SegmentInput is one sentence pair as delivered by the text provider.
// ID may be empty, in which case one is generated.
type SegmentInput struct {
	ID       string
	French   string
	English  string
	KeyVocab []VocabInput
}

// New builds a Lesson from provider input pairs. Audio payloads start out
// absent; a Builder or a loader fills them in afterwards.
func New(title string, inputs []SegmentInput) *Lesson {
	l := &Lesson{
		ID:       uuid.NewString(),
		Title:    title,
		Segments: make([]Segment, 0, len(inputs)),
	}
	for _, in := range inputs {
		id := in.ID
		if id == "" {
			id = uuid.NewString()
		}
		seg := Segment{
			ID:          id,
			FrenchText:  in.French,
			EnglishText: in.English,
		}
		for _, vi := range in.KeyVocab {
			seg.Vocab = append(seg.Vocab, VocabItem{
				ID:          uuid.NewString(),
				FrenchText:  vi.French,
				EnglishText: vi.English,
			})
		}
		l.Segments = append(l.Segments, seg)
	}
	return l
}
