package domain

import "strings"

// Piece is the content of a board cell. Empty doubles as "no piece".
type Piece int

const (
	Empty  Piece = 0
	Player Piece = 1
	AI     Piece = 2
)

func (p Piece) Opponent() Piece {
	switch p {
	case Player:
		return AI
	case AI:
		return Player
	}
	return Empty
}

func (p Piece) String() string {
	switch p {
	case Player:
		return "player"
	case AI:
		return "ai"
	}
	return "empty"
}

// Coord addresses a cell; row 0 is the bottom row.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// to represent the bot strength, fixed for the lifetime of a game
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var BotNames = map[Difficulty]string{
	DifficultyEasy:   "Alice",
	DifficultyMedium: "Bob",
	DifficultyHard:   "Charles",
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", ErrUnknownDifficulty
}

func GetBotName(d Difficulty) string {
	if name, ok := BotNames[d]; ok {
		return name
	}
	return "BOT"
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove       Error = "invalid move"
	ErrColumnFull        Error = "column is full"
	ErrWrongState        Error = "action not allowed in current state"
	ErrUnknownTheme      Error = "unknown theme"
	ErrUnknownDifficulty Error = "unknown difficulty"
	ErrSessionNotFound   Error = "session not found"
)
