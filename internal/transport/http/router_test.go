package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect4-ai/backend/internal/domain"
	"github.com/iamasit07/connect4-ai/backend/internal/service/bot"
	"github.com/iamasit07/connect4-ai/backend/internal/service/session"
	"github.com/iamasit07/connect4-ai/backend/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingDisconnector struct {
	ids []string
}

func (r *recordingDisconnector) DisconnectSession(sessionID, reason string) {
	r.ids = append(r.ids, sessionID)
}

type testServer struct {
	router       *gin.Engine
	manager      *session.Manager
	issuer       *auth.TokenIssuer
	disconnector *recordingDisconnector
}

func newTestServer() *testServer {
	rules := domain.DefaultRules()
	sm := session.NewManager(rules, bot.DefaultSettings(), 3, nil)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	dc := &recordingDisconnector{}

	router := NewRouter(RouterDeps{
		SessionHandler: NewSessionHandler(sm, dc, issuer, rules, time.Hour, false),
		MetaHandler:    NewMetaHandler(sm, rules),
		SessionManager: sm,
		Issuer:         issuer,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{router: router, manager: sm, issuer: issuer, disconnector: dc}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/sessions", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", w.Code, w.Body)
	}
	var resp struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
		State     string `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" || resp.SessionID == "" || resp.State != "selecting_theme" {
		t.Fatalf("create response = %+v", resp)
	}
	if w.Result().Cookies()[0].Name != "session_token" {
		t.Fatal("session cookie not set")
	}
	return resp.Token
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) session.Snapshot {
	t.Helper()
	var snap session.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, w.Body)
	}
	return snap
}

func TestHealthAndThemes(t *testing.T) {
	ts := newTestServer()

	w := ts.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}

	w = ts.do(t, http.MethodGet, "/api/themes", "", nil)
	var resp struct {
		Themes    []domain.Theme `json:"themes"`
		Opponents []struct {
			Difficulty string `json:"difficulty"`
			Name       string `json:"name"`
		} `json:"opponents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Themes) != 3 || resp.Themes[0].Name != "Classic" {
		t.Fatalf("themes = %+v", resp.Themes)
	}
	if len(resp.Opponents) != 3 || resp.Opponents[2].Name != "Charles" {
		t.Fatalf("opponents = %+v", resp.Opponents)
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign origin: %d", w.Code)
	}
}

func TestSessionRequiresToken(t *testing.T) {
	ts := newTestServer()

	if w := ts.do(t, http.MethodGet, "/api/session", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/api/session", "garbage", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", w.Code)
	}

	// a validly signed token for a session that does not exist
	orphan, err := ts.issuer.GenerateSessionToken("gone")
	if err != nil {
		t.Fatal(err)
	}
	if w := ts.do(t, http.MethodGet, "/api/session", orphan, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("orphan token: %d", w.Code)
	}
}

func TestPlayThroughREST(t *testing.T) {
	ts := newTestServer()
	token := ts.createSession(t)

	w := ts.do(t, http.MethodPost, "/api/session/move", token, gin.H{"column": 3})
	if w.Code != http.StatusConflict {
		t.Fatalf("move before menus: %d %s", w.Code, w.Body)
	}

	w = ts.do(t, http.MethodPost, "/api/session/theme", token, gin.H{"theme": "Mauve"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown theme: %d", w.Code)
	}
	w = ts.do(t, http.MethodPost, "/api/session/theme", token, gin.H{"theme": "Space"})
	if snap := decodeSnapshot(t, w); w.Code != http.StatusOK || snap.State != "selecting_difficulty" {
		t.Fatalf("theme: %d %+v", w.Code, snap)
	}

	w = ts.do(t, http.MethodPost, "/api/session/difficulty", token, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing difficulty: %d", w.Code)
	}
	w = ts.do(t, http.MethodPost, "/api/session/difficulty", token, gin.H{"difficulty": "hard"})
	if snap := decodeSnapshot(t, w); w.Code != http.StatusOK || snap.Opponent != "Charles" {
		t.Fatalf("difficulty: %d %+v", w.Code, snap)
	}

	w = ts.do(t, http.MethodPost, "/api/session/move", token, gin.H{"column": 7})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out of range column: %d", w.Code)
	}

	// 250px into a board drawn with 100px cells is column 2
	w = ts.do(t, http.MethodPost, "/api/session/move", token, gin.H{"x": 250.0, "cellSize": 100.0})
	if w.Code != http.StatusOK {
		t.Fatalf("pixel move: %d %s", w.Code, w.Body)
	}
	var resp moveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Moves) != 2 || resp.Moves[0].Column != 2 || resp.Moves[1].Piece != domain.AI {
		t.Fatalf("moves = %+v", resp.Moves)
	}
	if resp.Session.MoveCount != 2 || resp.Session.State != "awaiting_player_move" {
		t.Fatalf("session = %+v", resp.Session)
	}
	// the player's piece sits on the bottom row, which Grid lists last
	if resp.Session.Board[5][2] != int(domain.Player) {
		t.Fatalf("board = %v", resp.Session.Board)
	}

	w = ts.do(t, http.MethodPost, "/api/session/restart", token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("restart mid-game: %d", w.Code)
	}

	w = ts.do(t, http.MethodDelete, "/api/session", token, nil)
	if w.Code != http.StatusOK || ts.manager.Count() != 0 {
		t.Fatalf("end session: %d, %d left", w.Code, ts.manager.Count())
	}
	if len(ts.disconnector.ids) != 1 {
		t.Fatalf("ended session's socket not closed: %v", ts.disconnector.ids)
	}
	if w := ts.do(t, http.MethodGet, "/api/session", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("ended session still reachable: %d", w.Code)
	}
}

func TestPlayToGameOverAndRestart(t *testing.T) {
	ts := newTestServer()
	token := ts.createSession(t)
	ts.do(t, http.MethodPost, "/api/session/theme", token, gin.H{"theme": "classic"})
	ts.do(t, http.MethodPost, "/api/session/difficulty", token, gin.H{"difficulty": "easy"})

	for i := 0; i < 50; i++ {
		snap := decodeSnapshot(t, ts.do(t, http.MethodGet, "/api/session", token, nil))
		if snap.State == "game_over" {
			break
		}
		col := 0
		for snap.Board[0][col] != int(domain.Empty) {
			col++
		}
		if w := ts.do(t, http.MethodPost, "/api/session/move", token, gin.H{"column": col}); w.Code != http.StatusOK {
			t.Fatalf("move %d: %d %s", col, w.Code, w.Body)
		}
	}

	snap := decodeSnapshot(t, ts.do(t, http.MethodGet, "/api/session", token, nil))
	if snap.State != "game_over" || snap.Outcome == nil || !snap.Outcome.IsTerminal() {
		t.Fatalf("not finished: %+v", snap)
	}

	w := ts.do(t, http.MethodPost, "/api/session/restart", token, nil)
	if snap := decodeSnapshot(t, w); w.Code != http.StatusOK || snap.State != "selecting_theme" {
		t.Fatalf("restart: %d %+v", w.Code, snap)
	}
}
