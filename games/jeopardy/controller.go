/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"errors"
	"fmt"
)

// Phase is the controller's load state.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Options sizes a board. Rows and Clues are independent: a category sampled
// down to fewer clues than there are rows leaves the remaining cells empty.
type Options struct {
	Categories int
	Rows       int
	Clues      int
}

func DefaultOptions() Options {
	return Options{
		Categories: 6,
		Rows:       5,
		Clues:      1,
	}
}

// View is whatever displays the board. The controller calls it from the
// same goroutine that calls the controller.
type View interface {
	SetPhase(Phase)
	Redraw(Board)
	UpdateCell(Address, string)
	ShowError(string)
}

// Load identifies one call to Begin. Only the most recent Load may commit.
type Load struct {
	generation uint64
}

func (l Load) Generation() uint64 {
	return l.generation
}

// Controller owns one board's game state and walks it through
// Idle -> Loading -> Ready. It is not safe for concurrent use, with the
// exception of Fetch, which touches no controller state.
type Controller struct {
	opts    Options
	service Service
	sampler *Sampler
	view    View

	phase      Phase
	game       *Game
	generation uint64
}

func NewController(opts Options, service Service, sampler *Sampler, view View) *Controller {
	return &Controller{
		opts:    opts,
		service: service,
		sampler: sampler,
		view:    view,
	}
}

// Begin starts a new load, superseding any load still in flight. The
// current board is cleared until the new one commits.
func (c *Controller) Begin() Load {
	c.generation++
	c.game = nil
	c.phase = Loading

	c.view.SetPhase(Loading)
	c.view.Redraw(RenderBoard(nil, c.opts.Rows))

	return Load{generation: c.generation}
}

// Fetch picks categories and fetches each one in turn, sampling its clues.
// It may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context) (*Game, error) {
	ids, err := c.sampler.SelectCategoryIDs(ctx, c.opts.Categories)
	if err != nil {
		return nil, err
	}

	game := &Game{
		Categories: make([]Category, 0, len(ids)),
	}

	for _, id := range ids {
		detail, err := c.service.FetchCategoryDetail(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrServiceUnavailable) {
				err = fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
			}
			return nil, fmt.Errorf("category %d: %w", id, err)
		}

		clues, err := c.sampler.SelectClues(detail.Clues, c.opts.Clues)
		if err != nil {
			return nil, fmt.Errorf("category %d: %w", id, err)
		}

		game.Categories = append(game.Categories, Category{
			Title: detail.Title,
			Clues: clues,
		})
	}

	return game, nil
}

// Finish commits the outcome of l. A superseded load is dropped with
// ErrStaleLoad and changes nothing. A failed load returns the controller
// to Idle with no game; a successful one replaces the game wholesale.
func (c *Controller) Finish(l Load, g *Game, err error) error {
	if l.generation != c.generation || c.phase != Loading {
		return ErrStaleLoad
	}

	if err != nil {
		c.game = nil
		c.phase = Idle
		c.view.SetPhase(Idle)
		c.view.ShowError(ErrorMessage(err))

		return err
	}

	c.game = g
	c.phase = Ready
	c.view.Redraw(RenderBoard(g, c.opts.Rows))
	c.view.SetPhase(Ready)

	return nil
}

// Start loads a new game synchronously.
func (c *Controller) Start(ctx context.Context) error {
	l := c.Begin()
	g, err := c.Fetch(ctx)

	return c.Finish(l, g, err)
}

// Restart is Start; the previous game is discarded, never reused.
func (c *Controller) Restart(ctx context.Context) error {
	return c.Start(ctx)
}

// Loads reports how many loads have begun, including superseded ones.
func (c *Controller) Loads() uint64 {
	return c.generation
}

func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) Game() *Game {
	return c.game
}

func (c *Controller) Options() Options {
	return c.opts
}

// Board renders the current game, including any revealed text.
func (c *Controller) Board() Board {
	return RenderBoard(c.game, c.opts.Rows)
}

// ErrorMessage turns a load failure into text fit for players.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientClues):
		return "A category came back without enough clues. Please try again."
	case errors.Is(err, ErrServiceUnavailable):
		return "The trivia service could not be reached. Please try again."
	default:
		return "Unable to load a new board. Please try again."
	}
}
