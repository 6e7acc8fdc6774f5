package bot

import (
	"math/rand"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

// Medium looks one ply ahead: win if possible, otherwise block, otherwise
// play randomly. It does not notice that a block can hand over another line.
type Medium struct {
	rules domain.Rules
	rng   *rand.Rand
}

func NewMedium(rules domain.Rules, rng *rand.Rand) *Medium {
	return &Medium{rules: rules, rng: rng}
}

func (m *Medium) SelectMove(board *domain.Board, piece domain.Piece) int {
	validColumns := m.rules.ValidMoves(board)

	// === PHASE 1: immediate win ===
	for _, col := range validColumns {
		if m.winsWith(board, col, piece) {
			return col
		}
	}

	// === PHASE 2: block the opponent's immediate win ===
	opponent := piece.Opponent()
	for _, col := range validColumns {
		if m.winsWith(board, col, opponent) {
			return col
		}
	}

	return validColumns[m.rng.Intn(len(validColumns))]
}

// winsWith drops piece into col on a working copy and reports a win.
func (m *Medium) winsWith(board *domain.Board, col int, piece domain.Piece) bool {
	testBoard := board.Copy()
	row, ok := m.rules.NextOpenRow(testBoard, col)
	if !ok {
		return false
	}
	m.rules.ApplyMove(testBoard, row, col, piece)
	return m.rules.HasWin(testBoard, piece)
}
