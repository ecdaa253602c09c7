package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/parlons-ai/parlons-player/pkg/player"
)

// CommandRejected is sent back when a command is refused by the session;
// the snapshot it carries shows the unchanged state.
const CommandRejected player.EventType = "COMMAND_REJECTED"

// Command is one view-layer instruction. Index is only read by "select".
type Command struct {
	Cmd   string `json:"cmd"`
	Index int    `json:"index,omitempty"`
}

// Server bridges one playback session to a browser view over a websocket:
// JSON commands in, state snapshots out on every transition. It consumes
// the session's events channel, so it expects to be its sole subscriber.
type Server struct {
	session *player.Session
	logger  player.Logger
}

func New(session *player.Session, logger player.Logger) *Server {
	if logger == nil {
		logger = &player.NoOpLogger{}
	}
	return &Server{session: session, logger: logger}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "session ended")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var wmu sync.Mutex
	write := func(ev player.Event) error {
		wmu.Lock()
		defer wmu.Unlock()
		return wsjson.Write(ctx, conn, ev)
	}

	// The view starts from the current state, then follows transitions.
	if err := write(player.Event{Type: player.StateChanged, Snapshot: s.session.Snapshot()}); err != nil {
		return
	}

	go func() {
		for {
			select {
			case ev, ok := <-s.session.Events():
				if !ok {
					cancel()
					return
				}
				if err := write(ev); err != nil {
					cancel()
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var cmd Command
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			return
		}
		if err := s.dispatch(cmd); err != nil {
			s.logger.Debug("command rejected", "cmd", cmd.Cmd, "error", err)
			rejection := player.Event{
				Type:     CommandRejected,
				Snapshot: s.session.Snapshot(),
				Data:     err.Error(),
			}
			if err := write(rejection); err != nil {
				return
			}
		}
	}
}

func (s *Server) dispatch(cmd Command) error {
	switch cmd.Cmd {
	case "play":
		return s.session.Play()
	case "pause":
		return s.session.Pause()
	case "skip_forward":
		return s.session.SkipForward()
	case "rewind":
		return s.session.Rewind()
	case "select":
		return s.session.SelectSegment(cmd.Index)
	case "sentence_drill":
		return s.session.ToggleSentenceDrill()
	case "vocab_drill":
		return s.session.ToggleVocabularyDrill()
	case "resume":
		return s.session.Resume()
	default:
		return fmt.Errorf("unknown command %q", cmd.Cmd)
	}
}
