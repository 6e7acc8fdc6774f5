package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/bot"
	"github.com/iamasit07/connect4-ai/backend/internal/service/game"
)

type recordedEvent struct {
	name    string
	payload map[string]any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(_ context.Context, event string, payload map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{name: event, payload: payload})
}

// waitFor polls until at least one event of the given name has arrived.
func (p *fakePublisher) waitFor(t *testing.T, name string) recordedEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		for _, e := range p.events {
			if e.name == name {
				p.mu.Unlock()
				return e
			}
		}
		p.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %s event published", name)
	return recordedEvent{}
}

func newTestManager(pub Publisher) *Manager {
	return NewManager(domain.DefaultRules(), bot.DefaultSettings(), 7, pub)
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(nil)

	s, err := m.CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	if s.ID == "" || m.Count() != 1 {
		t.Fatalf("id %q, count %d", s.ID, m.Count())
	}

	got, ok := m.GetSession(s.ID)
	if !ok || got != s {
		t.Fatal("GetSession did not return the created session")
	}

	if err := m.RemoveSession(s.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveSession(s.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("second remove: %v", err)
	}
	if _, ok := m.GetSession(s.ID); ok {
		t.Fatal("session still present")
	}
}

func TestSnapshotFollowsMenus(t *testing.T) {
	s, err := newTestManager(nil).CreateSession()
	if err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.State != game.StateSelectingTheme || snap.Board != nil || snap.Theme != nil {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	if _, err := s.SelectTheme("neon"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDifficulty("Bogus"); !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("bad difficulty: %v", err)
	}

	snap, err = s.SelectDifficulty(" HARD ")
	if err != nil {
		t.Fatal(err)
	}
	if snap.State != game.StateAwaitingPlayerMove || snap.Opponent != "Charles" || snap.Theme.Name != "Neon" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(snap.Board) != 6 || len(snap.Board[0]) != 7 || snap.GameID == "" {
		t.Fatalf("board %v, game %q", snap.Board, snap.GameID)
	}
	if snap.Outcome == nil || snap.Outcome.Kind != domain.OutcomeInProgress {
		t.Fatalf("outcome = %+v", snap.Outcome)
	}
}

func TestMoveAppliesAIReply(t *testing.T) {
	pub := &fakePublisher{}
	s, err := newTestManager(pub).CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectTheme("Classic"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDifficulty("medium"); err != nil {
		t.Fatal(err)
	}
	started := pub.waitFor(t, "game_started")
	if started.payload["difficulty"] != "medium" {
		t.Fatalf("game_started payload = %v", started.payload)
	}

	results, err := s.Move(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Piece != domain.Player || results[1].Piece != domain.AI {
		t.Fatalf("results = %+v", results)
	}
	if snap := s.Snapshot(); snap.MoveCount != 2 || snap.State != game.StateAwaitingPlayerMove {
		t.Fatalf("snapshot = %+v", snap)
	}
	pub.waitFor(t, "move_made")

	if _, err := s.Move(42); !errors.Is(err, domain.ErrInvalidMove) {
		t.Fatalf("out of range move: %v", err)
	}
}

func TestPlayToTheEndAndRestart(t *testing.T) {
	pub := &fakePublisher{}
	s, err := newTestManager(pub).CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectTheme("Space"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SelectDifficulty("easy"); err != nil {
		t.Fatal(err)
	}

	rules := domain.DefaultRules()
	for s.Snapshot().State != game.StateGameOver {
		snap := s.Snapshot()
		col := 0
		// Grid is top row first, so row 0 here is the top of the board
		for snap.Board[0][col] != int(domain.Empty) {
			col++
		}
		if col >= rules.Columns {
			t.Fatal("no open column while the game is running")
		}
		if _, err := s.Move(col); err != nil {
			t.Fatal(err)
		}
	}

	finished := pub.waitFor(t, "game_finished")
	if finished.payload["gameId"] != s.GameID {
		t.Fatalf("game_finished payload = %v", finished.payload)
	}
	if s.Snapshot().Message == "" {
		t.Fatal("no banner text at game over")
	}

	snap, err := s.Restart()
	if err != nil {
		t.Fatal(err)
	}
	if snap.State != game.StateSelectingTheme || snap.GameID != "" || snap.Board != nil {
		t.Fatalf("after restart = %+v", snap)
	}
}

func TestCleanupIdleSessions(t *testing.T) {
	m := newTestManager(nil)
	stale, _ := m.CreateSession()
	fresh, _ := m.CreateSession()

	stale.mu.Lock()
	stale.lastActivity = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	if got := m.CleanupIdleSessions(time.Hour); len(got) != 1 || got[0] != stale.ID {
		t.Fatalf("removed %v, want [%s]", got, stale.ID)
	}
	if _, ok := m.GetSession(stale.ID); ok {
		t.Fatal("stale session kept")
	}
	if _, ok := m.GetSession(fresh.ID); !ok {
		t.Fatal("fresh session evicted")
	}
}

func TestConcurrentMovesAreSerialised(t *testing.T) {
	s, err := newTestManager(nil).CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	s.SelectTheme("Classic")
	s.SelectDifficulty("easy")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(col int) {
			defer wg.Done()
			s.Move(col % 7)
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	pieces := 0
	for _, row := range snap.Board {
		for _, cell := range row {
			if cell != int(domain.Empty) {
				pieces++
			}
		}
	}
	if pieces != snap.MoveCount {
		t.Fatalf("board holds %d pieces, move count %d", pieces, snap.MoveCount)
	}
}

func TestEventsArriveInGameOrder(t *testing.T) {
	pub := &fakePublisher{}
	s, err := newTestManager(pub).CreateSession()
	if err != nil {
		t.Fatal(err)
	}
	s.SelectTheme("Classic")
	s.SelectDifficulty("easy")
	for i := 0; i < 3; i++ {
		if _, err := s.Move(i); err != nil {
			t.Fatal(err)
		}
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.events) != 7 || pub.events[0].name != "game_started" {
		t.Fatalf("events = %+v", pub.events)
	}
	for i, e := range pub.events[1:] {
		wantBy := domain.Player.String()
		if i%2 == 1 {
			wantBy = domain.AI.String()
		}
		if e.name != "move_made" || e.payload["by"] != wantBy {
			t.Fatalf("event %d = %s by %v, want move_made by %s", i+1, e.name, e.payload["by"], wantBy)
		}
	}
}
