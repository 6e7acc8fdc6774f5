package domain

// to represent the game result after a move
type OutcomeKind string

const (
	OutcomeInProgress OutcomeKind = "in_progress"
	OutcomePlayerWin  OutcomeKind = "player_win"
	OutcomeAIWin      OutcomeKind = "ai_win"
	OutcomeDraw       OutcomeKind = "draw"
)

// Outcome is reported to the presentation layer after every applied move.
// WinningCells is only set for wins and is used for highlighting.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	WinningCells []Coord     `json:"winningCells,omitempty"`
}

func (o Outcome) IsTerminal() bool {
	return o.Kind != OutcomeInProgress && o.Kind != ""
}

// Winner returns the winning piece, Empty for draws and unfinished games.
func (o Outcome) Winner() Piece {
	switch o.Kind {
	case OutcomePlayerWin:
		return Player
	case OutcomeAIWin:
		return AI
	}
	return Empty
}

// Message is the banner shown when the game ends.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomePlayerWin:
		return "Player Wins!"
	case OutcomeAIWin:
		return "AI Wins!"
	case OutcomeDraw:
		return "It's a Draw!"
	}
	return ""
}
