package lesson

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type vocabFile struct {
	French       string `yaml:"french"`
	English      string `yaml:"english"`
	FrenchAudio  string `yaml:"french_audio"`
	EnglishAudio string `yaml:"english_audio"`
}

type segmentFile struct {
	ID           string      `yaml:"id"`
	French       string      `yaml:"french"`
	English      string      `yaml:"english"`
	FrenchAudio  string      `yaml:"french_audio"`
	EnglishAudio string      `yaml:"english_audio"`
	Vocab        []vocabFile `yaml:"vocab"`
}

type lessonFile struct {
	Title    string        `yaml:"title"`
	Segments []segmentFile `yaml:"segments"`
}

// Load reads a lesson authored as a YAML file. Audio entries are file paths
// resolved relative to the lesson file's directory; missing entries leave
// the payload absent, which the player degrades around.
func Load(path string) (*Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lesson file: %w", err)
	}

	var lf lessonFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("failed to parse lesson file: %w", err)
	}
	if len(lf.Segments) == 0 {
		return nil, fmt.Errorf("lesson file %s contains no segments", path)
	}

	dir := filepath.Dir(path)

	inputs := make([]SegmentInput, 0, len(lf.Segments))
	for _, sf := range lf.Segments {
		in := SegmentInput{ID: sf.ID, French: sf.French, English: sf.English}
		for _, vf := range sf.Vocab {
			in.KeyVocab = append(in.KeyVocab, VocabInput{French: vf.French, English: vf.English})
		}
		inputs = append(inputs, in)
	}

	l := New(lf.Title, inputs)

	for i, sf := range lf.Segments {
		seg := &l.Segments[i]
		if seg.FrenchAudio, err = readClip(dir, sf.FrenchAudio); err != nil {
			return nil, err
		}
		if seg.EnglishAudio, err = readClip(dir, sf.EnglishAudio); err != nil {
			return nil, err
		}
		for j, vf := range sf.Vocab {
			item := &seg.Vocab[j]
			if item.FrenchAudio, err = readClip(dir, vf.FrenchAudio); err != nil {
				return nil, err
			}
			if item.EnglishAudio, err = readClip(dir, vf.EnglishAudio); err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

func readClip(dir, name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(dir, name)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio clip %s: %w", name, err)
	}
	return data, nil
}
