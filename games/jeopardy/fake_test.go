/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

type fakeService struct {
	mu sync.Mutex

	pool      []CategorySummary
	details   map[CategoryID]CategoryDetail
	poolErr   error
	detailErr map[CategoryID]error

	poolCalls   int
	detailCalls int
	lastCount   int
	lastOffset  int
}

func (f *fakeService) FetchCategoryPool(_ context.Context, count, offset int) ([]CategorySummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.poolCalls++
	f.lastCount = count
	f.lastOffset = offset

	if f.poolErr != nil {
		return nil, f.poolErr
	}

	return append([]CategorySummary(nil), f.pool...), nil
}

func (f *fakeService) FetchCategoryDetail(_ context.Context, id CategoryID) (CategoryDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.detailCalls++

	if err := f.detailErr[id]; err != nil {
		return CategoryDetail{}, err
	}

	d, ok := f.details[id]
	if !ok {
		return CategoryDetail{}, fmt.Errorf("%w: no category %d", ErrServiceUnavailable, id)
	}

	return d, nil
}

// newFakeService returns n categories with ids 1..n, each holding clues
// numbered clue-<id>-<k>.
func newFakeService(n, cluesEach int) *fakeService {
	f := &fakeService{
		details:   make(map[CategoryID]CategoryDetail, n),
		detailErr: make(map[CategoryID]error),
	}

	for i := 1; i <= n; i++ {
		id := CategoryID(i)
		f.pool = append(f.pool, CategorySummary{ID: id, Title: fmt.Sprintf("Category %d", i)})

		detail := CategoryDetail{Title: fmt.Sprintf("Category %d", i)}
		for k := 0; k < cluesEach; k++ {
			detail.Clues = append(detail.Clues, RawClue{
				Question: fmt.Sprintf("question-%d-%d", i, k),
				Answer:   fmt.Sprintf("answer-%d-%d", i, k),
			})
		}
		f.details[id] = detail
	}

	return f
}

type cellUpdate struct {
	addr Address
	text string
}

type recordingView struct {
	phases []Phase
	boards []Board
	cells  []cellUpdate
	errors []string
}

func (v *recordingView) SetPhase(p Phase) {
	v.phases = append(v.phases, p)
}

func (v *recordingView) Redraw(b Board) {
	v.boards = append(v.boards, b)
}

func (v *recordingView) UpdateCell(a Address, text string) {
	v.cells = append(v.cells, cellUpdate{addr: a, text: text})
}

func (v *recordingView) ShowError(msg string) {
	v.errors = append(v.errors, msg)
}

func (v *recordingView) lastBoard() Board {
	if len(v.boards) == 0 {
		return Board{}
	}
	return v.boards[len(v.boards)-1]
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}
