package domain

import "strings"

// Theme is a colour palette picked before each game. Colours are CSS hex strings.
type Theme struct {
	Name         string `json:"name"`
	BoardColor   string `json:"boardColor"`
	PlayerColor  string `json:"playerColor"`
	AIColor      string `json:"aiColor"`
	WinningColor string `json:"winningColor"`
}

// Themes lists the palettes in menu order.
var Themes = []Theme{
	{Name: "Classic", BoardColor: "#0000ff", PlayerColor: "#ff0000", AIColor: "#ffff00", WinningColor: "#00ff00"},
	{Name: "Space", BoardColor: "#1e1e1e", PlayerColor: "#87ceeb", AIColor: "#ffd700", WinningColor: "#00ff00"},
	{Name: "Neon", BoardColor: "#32cd32", PlayerColor: "#ff69b4", AIColor: "#00ffff", WinningColor: "#ffff00"},
}

func LookupTheme(name string) (Theme, error) {
	for _, t := range Themes {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Theme{}, ErrUnknownTheme
}
