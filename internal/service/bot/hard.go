package bot

import (
	"math"

	"github.com/iamasit07/connect4-ai/backend/internal/domain"
)

// Hard is a fixed-depth minimax with alpha-beta pruning. Only decided
// positions are scored; anything still open at the horizon is worth 0.
type Hard struct {
	rules    domain.Rules
	settings Settings
}

func NewHard(rules domain.Rules, settings Settings) *Hard {
	return &Hard{rules: rules, settings: settings}
}

func (h *Hard) SelectMove(board *domain.Board, piece domain.Piece) int {
	// the search mutates its board, so it gets a private working copy
	work := board.Copy()
	col, _ := h.Search(work, piece, h.settings.Depth, math.MinInt, math.MaxInt, true)
	if col < 0 {
		// depth 0 or an already decided position; any legal column will do
		return h.rules.ValidMoves(board)[0]
	}
	return col
}

// Search returns the best column and its score from the point of view of me.
// Columns are tried in ascending order and an equal score never replaces an
// earlier column. Every simulated move is undone before returning, so the
// board is left as it was found.
func (h *Hard) Search(board *domain.Board, me domain.Piece, depth int, alpha, beta int, isMaximizing bool) (int, int) {
	opponent := me.Opponent()

	// Terminal conditions
	if h.rules.HasWin(board, me) {
		return -1, h.settings.WinScore
	}
	if h.rules.HasWin(board, opponent) {
		return -1, -h.settings.WinScore
	}
	if depth == 0 || h.rules.IsBoardFull(board) {
		return -1, 0
	}

	if isMaximizing {
		value, column := math.MinInt, -1
		for col := 0; col < board.Columns(); col++ {
			row, ok := h.rules.NextOpenRow(board, col)
			if !ok {
				continue
			}

			h.rules.ApplyMove(board, row, col, me)
			_, score := h.Search(board, me, depth-1, alpha, beta, false)
			h.rules.UndoMove(board, row, col)

			if score > value {
				value, column = score, col
			}
			alpha = max(alpha, value)
			if alpha >= beta {
				break // Beta cutoff
			}
		}
		return column, value
	}

	value, column := math.MaxInt, -1
	for col := 0; col < board.Columns(); col++ {
		row, ok := h.rules.NextOpenRow(board, col)
		if !ok {
			continue
		}

		h.rules.ApplyMove(board, row, col, opponent)
		_, score := h.Search(board, me, depth-1, alpha, beta, true)
		h.rules.UndoMove(board, row, col)

		if score < value {
			value, column = score, col
		}
		beta = min(beta, value)
		if alpha >= beta {
			break // Alpha cutoff
		}
	}
	return column, value
}
