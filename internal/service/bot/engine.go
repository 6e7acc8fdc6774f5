package bot

import (
	"log"
	"math/rand"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

const (
	DEFAULT_SEARCH_DEPTH = 5
	DEFAULT_WIN_SCORE    = 1000000000
)

// Strategy picks a column for piece. The board must have at least one
// legal column; callers check for a full board before asking.
type Strategy interface {
	SelectMove(board *domain.Board, piece domain.Piece) int
}

// Settings tunes the hard search.
type Settings struct {
	Depth    int
	WinScore int
}

func DefaultSettings() Settings {
	return Settings{Depth: DEFAULT_SEARCH_DEPTH, WinScore: DEFAULT_WIN_SCORE}
}

// Engine owns one instance of every strategy. It is not safe for
// concurrent use; each game gets its own.
type Engine struct {
	rules  domain.Rules
	easy   *Easy
	medium *Medium
	hard   *Hard
}

func NewEngine(rules domain.Rules, settings Settings, rng *rand.Rand) *Engine {
	return &Engine{
		rules:  rules,
		easy:   NewEasy(rules, rng),
		medium: NewMedium(rules, rng),
		hard:   NewHard(rules, settings),
	}
}

// Strategy returns the policy for a difficulty. Unknown values fall back to medium.
func (e *Engine) Strategy(difficulty domain.Difficulty) Strategy {
	switch difficulty {
	case domain.DifficultyEasy:
		return e.easy
	case domain.DifficultyMedium:
		return e.medium
	case domain.DifficultyHard:
		return e.hard
	default:
		log.Printf("[BOT] Unknown difficulty %q, using medium", difficulty)
		return e.medium
	}
}

// SelectMove picks the AI column for the given difficulty.
func (e *Engine) SelectMove(board *domain.Board, difficulty domain.Difficulty) int {
	return e.Strategy(difficulty).SelectMove(board, domain.AI)
}
