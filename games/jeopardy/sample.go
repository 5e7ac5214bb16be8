/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
)

// sampleWithoutReplacement returns k elements of pool drawn uniformly at
// random without replacement, leaving pool untouched. It fails with
// errSampleTooLarge when k exceeds len(pool).
func sampleWithoutReplacement[T any](rng *rand.Rand, pool []T, k int) ([]T, error) {
	if k < 0 || k > len(pool) {
		return nil, fmt.Errorf("%w: want %d of %d", errSampleTooLarge, k, len(pool))
	}

	out := slices.Clone(pool)

	// Partial Fisher-Yates: the first k slots end up a uniform sample.
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}

	return out[:k:k], nil
}

// Sampler picks the categories and clues that make up a board.
// It is safe for concurrent use.
type Sampler struct {
	service   Service
	poolSize  int
	maxOffset int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler that lists poolSize categories per draw, at a
// random offset in [0, maxOffset]. A nil rng is replaced by a randomly
// seeded one.
func NewSampler(service Service, poolSize, maxOffset int, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Sampler{
		service:   service,
		poolSize:  poolSize,
		maxOffset: max(maxOffset, 0),
		rng:       rng,
	}
}

// SelectCategoryIDs returns count distinct category ids drawn from a fresh
// listing.
func (s *Sampler) SelectCategoryIDs(ctx context.Context, count int) ([]CategoryID, error) {
	offset := 0
	if s.maxOffset > 0 {
		s.mu.Lock()
		offset = s.rng.IntN(s.maxOffset + 1)
		s.mu.Unlock()
	}

	pool, err := s.service.FetchCategoryPool(ctx, max(s.poolSize, count), offset)
	if err != nil {
		if !errors.Is(err, ErrServiceUnavailable) {
			err = fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return nil, err
	}

	seen := make(map[CategoryID]bool, len(pool))
	ids := make([]CategoryID, 0, len(pool))
	for _, c := range pool {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		ids = append(ids, c.ID)
	}

	if len(ids) < count {
		return nil, fmt.Errorf("%w: listing returned %d categories, need %d", ErrServiceUnavailable, len(ids), count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return sampleWithoutReplacement(s.rng, ids, count)
}

// SelectClues draws count clues from all, each starting Hidden. Clues with a
// blank question or answer are never drawn.
func (s *Sampler) SelectClues(all []RawClue, count int) ([]Clue, error) {
	usable := make([]RawClue, 0, len(all))
	for _, c := range all {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			continue
		}
		usable = append(usable, c)
	}

	s.mu.Lock()
	picked, err := sampleWithoutReplacement(s.rng, usable, count)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientClues, len(usable), count)
	}

	clues := make([]Clue, len(picked))
	for i, c := range picked {
		clues[i] = Clue{
			Question: c.Question,
			Answer:   c.Answer,
			Showing:  Hidden,
		}
	}

	return clues, nil
}
