package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/game"
	"github.com/iamasit07/connect4-ai/backend/pkg/uid"
)

// Publisher receives game events. It is called with the session lock held,
// so implementations should queue rather than write through.
type Publisher interface {
	Publish(ctx context.Context, event string, payload map[string]any)
}

// Disconnector closes any live connection a removed session still has.
type Disconnector interface {
	DisconnectSession(sessionID, reason string)
}

// Session is one client playing against the computer. All calls go through
// mu so the controller only ever sees one action at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	GameID        string
	GameStartedAt time.Time

	controller   *game.Controller
	lastActivity time.Time
	publisher    Publisher
	mu           sync.Mutex
}

// Snapshot is the view of a session handed to the presentation layer.
type Snapshot struct {
	SessionID  string          `json:"sessionId"`
	GameID     string          `json:"gameId,omitempty"`
	State      game.State      `json:"state"`
	Theme      *domain.Theme   `json:"theme,omitempty"`
	Difficulty string          `json:"difficulty,omitempty"`
	Opponent   string          `json:"opponent,omitempty"`
	Board      [][]int         `json:"board,omitempty"`
	Outcome    *domain.Outcome `json:"outcome,omitempty"`
	Message    string          `json:"message,omitempty"`
	MoveCount  int             `json:"moveCount"`
}

func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) SelectTheme(name string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.controller.SelectTheme(name); err != nil {
		return Snapshot{}, err
	}
	return s.snapshotLocked(), nil
}

func (s *Session) SelectDifficulty(value string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	difficulty, err := domain.ParseDifficulty(value)
	if err != nil {
		return Snapshot{}, err
	}
	if err := s.controller.SelectDifficulty(difficulty); err != nil {
		return Snapshot{}, err
	}

	s.GameID = uid.GenerateGameID()
	s.GameStartedAt = time.Now()
	log.Printf("[SESSION] Session %s started game %s against %s (%s)",
		s.ID, s.GameID, domain.GetBotName(difficulty), difficulty)

	s.emit("game_started", map[string]any{
		"sessionId":  s.ID,
		"gameId":     s.GameID,
		"theme":      s.controller.Theme().Name,
		"difficulty": string(difficulty),
	})
	return s.snapshotLocked(), nil
}

// Move applies the player's column and, if the game goes on, the computer's
// reply. The returned slice holds one result per applied move.
func (s *Session) Move(column int) ([]game.MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	playerResult, err := s.controller.PlayerMove(column)
	if err != nil {
		return nil, err
	}
	results := []game.MoveResult{playerResult}
	s.emitMove(playerResult)

	if s.controller.State() == game.StateAwaitingAIMove {
		started := time.Now()
		aiResult, err := s.controller.AIMove()
		if err != nil {
			return results, fmt.Errorf("ai move in session %s: %w", s.ID, err)
		}
		log.Printf("[BOT] Session %s: %s chose column %d in %v",
			s.ID, s.controller.Difficulty(), aiResult.Column, time.Since(started))
		results = append(results, aiResult)
		s.emitMove(aiResult)
	}

	if out := s.controller.Outcome(); out.IsTerminal() {
		log.Printf("[SESSION] Game %s finished: %s after %d moves", s.GameID, out.Kind, s.controller.MoveCount())
		s.emit("game_finished", map[string]any{
			"sessionId":       s.ID,
			"gameId":          s.GameID,
			"difficulty":      string(s.controller.Difficulty()),
			"result":          string(out.Kind),
			"winner":          out.Winner().String(),
			"moves":           s.controller.MoveCount(),
			"durationSeconds": time.Since(s.GameStartedAt).Seconds(),
		})
	}

	return results, nil
}

func (s *Session) Restart() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if err := s.controller.Restart(); err != nil {
		return Snapshot{}, err
	}
	s.GameID = ""
	s.GameStartedAt = time.Time{}
	return s.snapshotLocked(), nil
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

func (s *Session) snapshotLocked() Snapshot {
	c := s.controller
	snap := Snapshot{
		SessionID: s.ID,
		GameID:    s.GameID,
		State:     c.State(),
		MoveCount: c.MoveCount(),
	}

	if theme := c.Theme(); theme.Name != "" {
		snap.Theme = &theme
	}
	if d := c.Difficulty(); d != "" {
		snap.Difficulty = string(d)
		snap.Opponent = domain.GetBotName(d)
	}
	if board := c.Board(); board != nil {
		snap.Board = board.Grid()
		out := c.Outcome()
		snap.Outcome = &out
		snap.Message = out.Message()
	}
	return snap
}

func (s *Session) emitMove(result game.MoveResult) {
	s.emit("move_made", map[string]any{
		"sessionId": s.ID,
		"gameId":    s.GameID,
		"by":        result.Piece.String(),
		"column":    result.Column,
		"row":       result.Row,
	})
}

// emit hands the event over while the session lock is held, so events of
// one game reach the publisher in the order they happened. The publisher
// queues; the timeout only bounds a full queue.
func (s *Session) emit(event string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.publisher.Publish(ctx, event, payload)
}
