package domain

import "math"

// Rules carries the grid dimensions and the line length needed to win.
// Everything that reasons about a board takes it explicitly instead of
// reading package constants, so tests can play on other sizes.
type Rules struct {
	Rows      int
	Columns   int
	WinLength int
}

func DefaultRules() Rules {
	return Rules{Rows: 6, Columns: 7, WinLength: 4}
}

func (r Rules) NewBoard() *Board {
	return NewBoard(r.Rows, r.Columns)
}

func (r Rules) IsValidMove(b *Board, column int) bool {
	if column < 0 || column >= b.Columns() {
		return false
	}

	// row 0 is the bottom, so the top row decides whether the column has room
	return b.At(b.Rows()-1, column) == Empty
}

// NextOpenRow returns the lowest empty row of the column.
func (r Rules) NextOpenRow(b *Board, column int) (int, bool) {
	for row := 0; row < b.Rows(); row++ {
		if b.At(row, column) == Empty {
			return row, true
		}
	}
	return -1, false
}

// ApplyMove writes the piece without any legality check.
func (r Rules) ApplyMove(b *Board, row, column int, piece Piece) {
	b.Set(row, column, piece)
}

// UndoMove clears a cell written by ApplyMove.
func (r Rules) UndoMove(b *Board, row, column int) {
	b.Set(row, column, Empty)
}

// DropPiece is the checked form of NextOpenRow + ApplyMove.
func (r Rules) DropPiece(b *Board, column int, piece Piece) (int, error) {
	if column < 0 || column >= b.Columns() {
		return -1, ErrInvalidMove
	}

	row, ok := r.NextOpenRow(b, column)
	if !ok {
		return -1, ErrColumnFull
	}

	r.ApplyMove(b, row, column, piece)
	return row, nil
}

// this is a helper function that is used by the bot
func (r Rules) ValidMoves(b *Board) []int {
	validMoves := make([]int, 0, b.Columns())
	for col := 0; col < b.Columns(); col++ {
		if r.IsValidMove(b, col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

func (r Rules) IsBoardFull(b *Board) bool {
	for c := 0; c < b.Columns(); c++ {
		if r.IsValidMove(b, c) {
			return false
		}
	}
	return true
}

// DetectWin returns the first line of WinLength pieces found, or nil.
// Orientations are scanned horizontal, vertical, diagonal "/" then "\",
// each column by column and bottom to top, so when a move completes two
// lines at once the horizontal one is the one reported.
func (r Rules) DetectWin(b *Board, piece Piece) []Coord {
	n := r.WinLength
	rows, cols := b.Rows(), b.Columns()

	// horizontal
	for c := 0; c+n <= cols; c++ {
		for row := 0; row < rows; row++ {
			if line := r.line(b, piece, row, c, 0, 1); line != nil {
				return line
			}
		}
	}

	// vertical
	for c := 0; c < cols; c++ {
		for row := 0; row+n <= rows; row++ {
			if line := r.line(b, piece, row, c, 1, 0); line != nil {
				return line
			}
		}
	}

	// diagonal "/"
	for c := 0; c+n <= cols; c++ {
		for row := 0; row+n <= rows; row++ {
			if line := r.line(b, piece, row, c, 1, 1); line != nil {
				return line
			}
		}
	}

	// diagonal "\"
	for c := 0; c+n <= cols; c++ {
		for row := n - 1; row < rows; row++ {
			if line := r.line(b, piece, row, c, -1, 1); line != nil {
				return line
			}
		}
	}

	return nil
}

// line checks WinLength cells starting at (row, col) stepping by (dRow, dCol).
func (r Rules) line(b *Board, piece Piece, row, col, dRow, dCol int) []Coord {
	for i := 0; i < r.WinLength; i++ {
		if b.At(row+i*dRow, col+i*dCol) != piece {
			return nil
		}
	}

	cells := make([]Coord, r.WinLength)
	for i := range cells {
		cells[i] = Coord{Row: row + i*dRow, Col: col + i*dCol}
	}
	return cells
}

// HasWin is DetectWin without building the coordinate slice.
func (r Rules) HasWin(b *Board, piece Piece) bool {
	n := r.WinLength
	rows, cols := b.Rows(), b.Columns()
	directions := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

	for _, d := range directions {
		dRow, dCol := d[0], d[1]
		for row := 0; row < rows; row++ {
			endRow := row + (n-1)*dRow
			if endRow < 0 || endRow >= rows {
				continue
			}
			for c := 0; c+(n-1)*dCol < cols; c++ {
				count := 0
				for count < n && b.At(row+count*dRow, c+count*dCol) == piece {
					count++
				}
				if count == n {
					return true
				}
			}
		}
	}
	return false
}

// EvaluateOutcome checks wins before the full board, so a last move that
// both wins and fills the grid is reported as a win.
func (r Rules) EvaluateOutcome(b *Board) Outcome {
	if cells := r.DetectWin(b, Player); cells != nil {
		return Outcome{Kind: OutcomePlayerWin, WinningCells: cells}
	}
	if cells := r.DetectWin(b, AI); cells != nil {
		return Outcome{Kind: OutcomeAIWin, WinningCells: cells}
	}
	if r.IsBoardFull(b) {
		return Outcome{Kind: OutcomeDraw}
	}
	return Outcome{Kind: OutcomeInProgress}
}

// ColumnFromPixel maps a pointer x position to a column, floor(x / cellSize).
func (r Rules) ColumnFromPixel(x, cellSize float64) (int, bool) {
	if cellSize <= 0 || x < 0 {
		return -1, false
	}
	col := int(math.Floor(x / cellSize))
	if col >= r.Columns {
		return -1, false
	}
	return col, true
}
