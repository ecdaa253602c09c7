package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/parlons-ai/parlons-player/pkg/lesson"
	"github.com/parlons-ai/parlons-player/pkg/player"
	"github.com/parlons-ai/parlons-player/pkg/providers/translate"
	"github.com/parlons-ai/parlons-player/pkg/providers/tts"
	"github.com/parlons-ai/parlons-player/pkg/server"
	"github.com/parlons-ai/parlons-player/pkg/store"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Note: No .env file found, using system environment variables")
	}

	lessonFile := os.Getenv("LESSON_FILE")
	lessonID := os.Getenv("LESSON_ID")
	dbPath := os.Getenv("PLAYER_DB")
	listen := os.Getenv("PLAYER_LISTEN")
	openaiKey := os.Getenv("OPENAI_API_KEY")
	lokutorKey := os.Getenv("LOKUTOR_API_KEY")
	lokutorVoice := os.Getenv("LOKUTOR_VOICE")

	cfg := player.DefaultConfig()
	if ms := os.Getenv("PLAYER_STEP_GAP_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			cfg.StepGap = time.Duration(v) * time.Millisecond
		}
	}

	var db *store.Store
	if dbPath != "" {
		var err error
		db, err = store.NewSQLite(dbPath)
		if err != nil {
			log.Fatalf("Error: failed to open lesson store: %v", err)
		}
		defer db.Close()
	}

	l, err := loadLesson(lessonFile, lessonID, db, openaiKey, lokutorKey, lokutorVoice)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	source, err := newDeviceSource()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer source.Close()

	session := player.NewSession(source, cfg)
	defer session.Close()

	if err := session.LoadLesson(l); err != nil {
		log.Fatalf("Error: %v", err)
	}

	fmt.Printf("Loaded lesson %q (%d segments)\n", l.Title, l.Len())

	if listen != "" {
		fmt.Printf("Serving view on ws://%s\n", listen)
		if err := http.ListenAndServe(listen, server.New(session, nil)); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	go renderEvents(session, l)

	fmt.Println("Commands: play | pause | next | back | <number> | sentence | vocab | resume | quit")
	runCommands(session, l)
}

// loadLesson resolves the lesson from the store or a YAML file, completing
// missing text/audio through the providers when keys are configured.
func loadLesson(file, id string, db *store.Store, openaiKey, lokutorKey, lokutorVoice string) (*lesson.Lesson, error) {
	if id != "" {
		if db == nil {
			return nil, fmt.Errorf("LESSON_ID requires PLAYER_DB")
		}
		return db.Get(id)
	}
	if file == "" {
		return nil, fmt.Errorf("set LESSON_FILE or LESSON_ID")
	}

	l, err := lesson.Load(file)
	if err != nil {
		return nil, err
	}

	var translator lesson.Translator
	if openaiKey != "" {
		translator = translate.NewOpenAITranslator(openaiKey, "")
	}
	var synth lesson.Synthesizer
	if lokutorKey != "" {
		client := tts.NewLokutorTTS(lokutorKey, lokutorVoice)
		defer client.Close()
		synth = client
	}

	if translator != nil || synth != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		builder := lesson.NewBuilder(translator, synth)
		if err := builder.Complete(ctx, l); err != nil {
			return nil, fmt.Errorf("failed to complete lesson: %w", err)
		}
	}

	if db != nil {
		if err := db.Save(l); err != nil {
			return nil, fmt.Errorf("failed to save lesson: %w", err)
		}
		fmt.Printf("Saved lesson as %s\n", l.ID)
	}
	return l, nil
}

func renderEvents(session *player.Session, l *lesson.Lesson) {
	for ev := range session.Events() {
		snap := ev.Snapshot
		seg := l.Segment(snap.CurrentSegmentIndex)
		switch ev.Type {
		case player.StateChanged:
			marker := "||"
			if snap.IsPlaying {
				marker = ">>"
			}
			if snap.Drill.Kind != player.DrillNone {
				marker = "@@"
			}
			if seg != nil {
				fmt.Printf("%s [%d] %s\n", marker, snap.CurrentSegmentIndex, seg.FrenchText)
			}
		case player.DrillFinished:
			fmt.Println("-- drill finished, type 'resume' to continue the lesson")
		case player.PlaybackEnded:
			fmt.Println("-- lesson finished")
		case player.ClipError:
			fmt.Printf("-- clip problem, moving on: %s\n", ev.Data)
		}
	}
}

func runCommands(session *player.Session, l *lesson.Lesson) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		var err error
		switch cmd := scanner.Text(); cmd {
		case "play":
			err = session.Play()
		case "pause":
			err = session.Pause()
		case "next":
			err = session.SkipForward()
		case "back":
			err = session.Rewind()
		case "sentence":
			err = session.ToggleSentenceDrill()
		case "vocab":
			err = session.ToggleVocabularyDrill()
		case "resume":
			err = session.Resume()
		case "quit", "q":
			return
		case "":
		default:
			if idx, convErr := strconv.Atoi(cmd); convErr == nil {
				err = session.SelectSegment(idx)
			} else {
				fmt.Printf("unknown command %q\n", cmd)
			}
		}
		if err != nil {
			fmt.Printf("rejected: %v\n", err)
		}
	}
}
