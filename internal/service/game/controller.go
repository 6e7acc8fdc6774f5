package game

import (
	"fmt"
	"log"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

// to represent where the controller is in the game cycle
type State string

const (
	StateSelectingTheme      State = "selecting_theme"
	StateSelectingDifficulty State = "selecting_difficulty"
	StateAwaitingPlayerMove  State = "awaiting_player_move"
	StateAwaitingAIMove      State = "awaiting_ai_move"
	StateGameOver            State = "game_over"
)

// MoveResult describes one applied move and the outcome it produced.
type MoveResult struct {
	Piece   domain.Piece   `json:"piece"`
	Row     int            `json:"row"`
	Column  int            `json:"column"`
	Outcome domain.Outcome `json:"outcome"`
}

// MoveSelector picks the computer's column; *bot.Engine is the production one.
type MoveSelector interface {
	SelectMove(board *domain.Board, difficulty domain.Difficulty) int
}

// Controller drives one human against the computer. It is not safe for
// concurrent use; whoever owns it serialises calls.
type Controller struct {
	rules      domain.Rules
	engine     MoveSelector
	state      State
	theme      domain.Theme
	difficulty domain.Difficulty
	board      *domain.Board
	outcome    domain.Outcome
	moveCount  int
}

func NewController(rules domain.Rules, engine MoveSelector) *Controller {
	return &Controller{
		rules:  rules,
		engine: engine,
		state:  StateSelectingTheme,
	}
}

func (c *Controller) State() State                  { return c.state }
func (c *Controller) Theme() domain.Theme           { return c.theme }
func (c *Controller) Difficulty() domain.Difficulty { return c.difficulty }
func (c *Controller) Outcome() domain.Outcome       { return c.outcome }
func (c *Controller) MoveCount() int                { return c.moveCount }

// Board returns a copy of the live board, nil before a game has started.
func (c *Controller) Board() *domain.Board {
	if c.board == nil {
		return nil
	}
	return c.board.Copy()
}

func (c *Controller) SelectTheme(name string) error {
	if c.state != StateSelectingTheme {
		return c.wrongState("select theme")
	}

	theme, err := domain.LookupTheme(name)
	if err != nil {
		return err
	}

	c.theme = theme
	c.state = StateSelectingDifficulty
	return nil
}

// SelectDifficulty fixes the opponent for this game and starts it on a fresh board.
func (c *Controller) SelectDifficulty(difficulty domain.Difficulty) error {
	if c.state != StateSelectingDifficulty {
		return c.wrongState("select difficulty")
	}

	if _, err := domain.ParseDifficulty(string(difficulty)); err != nil {
		return err
	}

	c.difficulty = difficulty
	c.board = c.rules.NewBoard()
	c.outcome = domain.Outcome{Kind: domain.OutcomeInProgress}
	c.moveCount = 0
	c.state = StateAwaitingPlayerMove
	return nil
}

// PlayerMove applies the human move. An illegal column leaves the board untouched.
func (c *Controller) PlayerMove(column int) (MoveResult, error) {
	if c.state != StateAwaitingPlayerMove {
		return MoveResult{}, c.wrongState("player move")
	}

	if !c.rules.IsValidMove(c.board, column) {
		return MoveResult{}, domain.ErrInvalidMove
	}

	result := c.apply(column, domain.Player)
	if !result.Outcome.IsTerminal() {
		c.state = StateAwaitingAIMove
	}
	return result, nil
}

// AIMove lets the selected strategy play. The board cannot be full here:
// a full board ends the game after the player's move.
func (c *Controller) AIMove() (MoveResult, error) {
	if c.state != StateAwaitingAIMove {
		return MoveResult{}, c.wrongState("ai move")
	}

	column := c.engine.SelectMove(c.board, c.difficulty)
	if !c.rules.IsValidMove(c.board, column) {
		// the game must not stall on the computer's turn, so play the first legal column
		fallback := c.rules.ValidMoves(c.board)[0]
		log.Printf("[BOT] %s strategy chose illegal column %d, playing %d", c.difficulty, column, fallback)
		column = fallback
	}

	result := c.apply(column, domain.AI)
	if !result.Outcome.IsTerminal() {
		c.state = StateAwaitingPlayerMove
	}
	return result, nil
}

// Restart discards the finished game and goes back to the theme menu.
func (c *Controller) Restart() error {
	if c.state != StateGameOver {
		return c.wrongState("restart")
	}

	c.board = nil
	c.outcome = domain.Outcome{}
	c.theme = domain.Theme{}
	c.difficulty = ""
	c.moveCount = 0
	c.state = StateSelectingTheme
	return nil
}

func (c *Controller) apply(column int, piece domain.Piece) MoveResult {
	row, _ := c.rules.NextOpenRow(c.board, column)
	c.rules.ApplyMove(c.board, row, column, piece)
	c.moveCount++

	c.outcome = c.rules.EvaluateOutcome(c.board)
	if c.outcome.IsTerminal() {
		c.state = StateGameOver
	}

	return MoveResult{Piece: piece, Row: row, Column: column, Outcome: c.outcome}
}

func (c *Controller) wrongState(action string) error {
	return fmt.Errorf("%s while %s: %w", action, c.state, domain.ErrWrongState)
}
