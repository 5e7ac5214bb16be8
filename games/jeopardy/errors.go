/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import "errors"

var (
	// ErrServiceUnavailable wraps any failure talking to the trivia service,
	// including a category listing too short to fill a board.
	ErrServiceUnavailable = errors.New("trivia service unavailable")

	// ErrInsufficientClues is returned when a category has fewer usable clues
	// than were requested.
	ErrInsufficientClues = errors.New("insufficient clues")

	// ErrStaleLoad is returned when a load finishes after a newer one was started.
	// It is never shown to players.
	ErrStaleLoad = errors.New("stale load")

	errSampleTooLarge = errors.New("sample size exceeds pool")
)
