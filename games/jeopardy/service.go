/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package jeopardy

import "context"

type CategoryID int

// CategorySummary is one entry of the category listing.
type CategorySummary struct {
	ID    CategoryID `json:"id"`
	Title string     `json:"title"`
}

// RawClue is a clue as served by the trivia service, before sampling.
type RawClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CategoryDetail is a category together with every clue the service holds for it.
type CategoryDetail struct {
	Title string    `json:"title"`
	Clues []RawClue `json:"clues"`
}

// Service is the remote trivia API. Implementations make exactly one read
// per call and do not retry; failures wrap ErrServiceUnavailable.
type Service interface {
	FetchCategoryPool(ctx context.Context, count, offset int) ([]CategorySummary, error)
	FetchCategoryDetail(ctx context.Context, id CategoryID) (CategoryDetail, error)
}
