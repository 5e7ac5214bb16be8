/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

// Click reveals the next step of the clue at a: the question on the first
// click, the answer on the second. Further clicks, and clicks on addresses
// that do not resolve, do nothing. It reports whether a cell changed.
func (c *Controller) Click(a Address) bool {
	clue, ok := c.game.Clue(a)
	if !ok {
		return false
	}

	text, ok := clue.Advance()
	if !ok {
		return false
	}

	c.view.UpdateCell(a, text)

	return true
}
