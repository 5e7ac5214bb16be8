/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package jeopardy builds trivia boards: it samples categories and clues from
// a remote trivia service, lays them out as a grid, and reveals each clue's
// question and then its answer as it is clicked.
package jeopardy

// RevealState tracks how much of a clue is on display.
type RevealState int

const (
	Hidden RevealState = iota
	Question
	Answer
)

// Placeholder is the text shown for a clue that has not been revealed.
const Placeholder = "?"

func (s RevealState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Question:
		return "question"
	case Answer:
		return "answer"
	default:
		return "unknown"
	}
}

type Clue struct {
	Question string
	Answer   string
	Showing  RevealState
}

// Advance moves the clue one step along Hidden -> Question -> Answer and
// returns the text to display. Once the answer is showing, Advance reports
// false and leaves the clue alone.
func (c *Clue) Advance() (string, bool) {
	switch c.Showing {
	case Hidden:
		c.Showing = Question
		return c.Question, true
	case Question:
		c.Showing = Answer
		return c.Answer, true
	default:
		return "", false
	}
}

// Display returns the text currently shown for the clue.
func (c Clue) Display() string {
	switch c.Showing {
	case Question:
		return c.Question
	case Answer:
		return c.Answer
	default:
		return Placeholder
	}
}

type Category struct {
	Title string
	Clues []Clue
}

// Address locates a clue by category index and clue index.
type Address struct {
	Category int `json:"category"`
	Clue     int `json:"clue"`
}

// Game is the ordered set of categories on one board.
type Game struct {
	Categories []Category
}

// Clue resolves an address, reporting false if it is out of range.
func (g *Game) Clue(a Address) (*Clue, bool) {
	if g == nil || a.Category < 0 || a.Category >= len(g.Categories) {
		return nil, false
	}

	clues := g.Categories[a.Category].Clues
	if a.Clue < 0 || a.Clue >= len(clues) {
		return nil, false
	}

	return &clues[a.Clue], true
}
