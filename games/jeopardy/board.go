/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

// Cell is one clue slot on the board. Empty cells have no clue behind them
// and are not clickable.
type Cell struct {
	Category int    `json:"category"`
	Clue     int    `json:"clue"`
	Text     string `json:"text"`
	Empty    bool   `json:"empty,omitempty"`
}

// Board is the grid projection of a game: a header of category titles and
// rows of cells, one per category.
type Board struct {
	Header []string `json:"header"`
	Rows   [][]Cell `json:"rows"`
}

// RenderHeader returns category titles, left to right.
func RenderHeader(categories []Category) []string {
	header := make([]string, len(categories))
	for i, c := range categories {
		header[i] = c.Title
	}

	return header
}

// RenderBody lays out rows clue slots per category. Slots past the end of a
// category's clues render as empty cells.
func RenderBody(categories []Category, rows int) [][]Cell {
	body := make([][]Cell, 0, max(rows, 0))

	for row := 0; row < rows; row++ {
		cells := make([]Cell, len(categories))

		for col, c := range categories {
			cells[col] = Cell{
				Category: col,
				Clue:     row,
			}

			if row >= len(c.Clues) {
				cells[col].Empty = true
				continue
			}

			cells[col].Text = c.Clues[row].Display()
		}

		body = append(body, cells)
	}

	return body
}

// RenderBoard renders a whole game. A nil game renders as an empty board.
func RenderBoard(g *Game, rows int) Board {
	if g == nil {
		return Board{
			Header: []string{},
			Rows:   [][]Cell{},
		}
	}

	return Board{
		Header: RenderHeader(g.Categories),
		Rows:   RenderBody(g.Categories, rows),
	}
}
