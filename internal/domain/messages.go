package domain

// ClientMessage is what the presentation layer sends over the websocket.
type ClientMessage struct {
	Type       string  `json:"type"`
	Theme      string  `json:"theme,omitempty"`
	Difficulty string  `json:"difficulty,omitempty"`
	Column     *int    `json:"column,omitempty"`
	X          float64 `json:"x,omitempty"`
	CellSize   float64 `json:"cellSize,omitempty"`
}

// ServerMessage is pushed to the client; which fields are set depends on Type.
type ServerMessage struct {
	Type         string   `json:"type"`
	Message      string   `json:"message,omitempty"`
	SessionID    string   `json:"sessionId,omitempty"`
	State        string   `json:"state,omitempty"`
	Theme        *Theme   `json:"theme,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Opponent     string   `json:"opponent,omitempty"`
	Column       *int     `json:"column,omitempty"`
	Row          *int     `json:"row,omitempty"`
	Player       int      `json:"player,omitempty"`
	Board        [][]int  `json:"board,omitempty"`
	Outcome      *Outcome `json:"outcome,omitempty"`
	MoveCount    int      `json:"moveCount,omitempty"`
	AllowRematch *bool    `json:"allowRematch,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
