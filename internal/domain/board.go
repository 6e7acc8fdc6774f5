package domain

import "strings"

// Board is a gravity grid stored row-major, row 0 at the bottom.
type Board struct {
	rows  int
	cols  int
	cells []Piece
}

func NewBoard(rows, cols int) *Board {
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Piece, rows*cols),
	}
}

func (b *Board) Rows() int    { return b.rows }
func (b *Board) Columns() int { return b.cols }

func (b *Board) At(row, col int) Piece {
	return b.cells[row*b.cols+col]
}

func (b *Board) Set(row, col int, p Piece) {
	b.cells[row*b.cols+col] = p
}

// this creates a deep copy of the board
func (b *Board) Copy() *Board {
	cells := make([]Piece, len(b.cells))
	copy(cells, b.cells)
	return &Board{rows: b.rows, cols: b.cols, cells: cells}
}

// Grid returns the board top row first, which is how the frontend draws it.
func (b *Board) Grid() [][]int {
	grid := make([][]int, b.rows)
	for i := range grid {
		row := b.rows - 1 - i
		grid[i] = make([]int, b.cols)
		for c := 0; c < b.cols; c++ {
			grid[i][c] = int(b.At(row, c))
		}
	}
	return grid
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := b.rows - 1; r >= 0; r-- {
		for c := 0; c < b.cols; c++ {
			switch b.At(r, c) {
			case Player:
				sb.WriteByte('X')
			case AI:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
