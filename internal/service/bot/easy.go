package bot

import (
	"math/rand"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

// Easy plays a uniformly random legal column.
type Easy struct {
	rules domain.Rules
	rng   *rand.Rand
}

func NewEasy(rules domain.Rules, rng *rand.Rand) *Easy {
	return &Easy{rules: rules, rng: rng}
}

func (e *Easy) SelectMove(board *domain.Board, piece domain.Piece) int {
	validColumns := e.rules.ValidMoves(board)
	return validColumns[e.rng.Intn(len(validColumns))]
}
