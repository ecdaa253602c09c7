package lesson

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLessonFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bonjour.wav"), []byte("fake-wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	yaml := `
title: Greetings
segments:
  - id: s1
    french: "Bonjour."
    english: "Hello."
    french_audio: bonjour.wav
    vocab:
      - french: "bonjour"
        english: "hello"
  - french: "Merci."
    english: "Thanks."
`
	path := filepath.Join(dir, "lesson.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if l.Title != "Greetings" {
		t.Errorf("expected title Greetings, got %s", l.Title)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 segments, got %d", l.Len())
	}
	if l.Segments[0].ID != "s1" {
		t.Errorf("expected authored id kept, got %s", l.Segments[0].ID)
	}
	if string(l.Segments[0].FrenchAudio) != "fake-wav" {
		t.Error("expected referenced audio file loaded")
	}
	if l.Segments[0].EnglishAudio != nil {
		t.Error("expected unreferenced audio absent")
	}
	if len(l.Segments[0].Vocab) != 1 || l.Segments[0].Vocab[0].FrenchText != "bonjour" {
		t.Error("expected vocabulary parsed")
	}
	if l.Segments[1].ID == "" {
		t.Error("expected generated id for segment without one")
	}
}

func TestLoadRejectsEmptyLesson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("title: nothing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for lesson without segments")
	}
}

func TestLoadReportsMissingAudioFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.yaml")
	yaml := "segments:\n  - french: Bonjour.\n    french_audio: missing.wav\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for missing audio file")
	}
}
