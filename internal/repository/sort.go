package repository

import (
	"fmt"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

var movieSortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"director":    "director",
	"studio":      "studio",
	"cast":        "movie_cast",
	"releaseYear": "release_year",
	"poster":      "poster",
}

// orderBy builds the ORDER BY clause for a page request. The id is always the tie
// breaker so that pages never overlap.
func orderBy(page domain.PageRequest) (string, error) {
	if !page.Sorted() {
		return "ORDER BY id ASC", nil
	}

	column, ok := movieSortColumns[page.SortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSortField, page.SortBy)
	}

	direction := page.Direction
	if direction != domain.SortDescending {
		direction = domain.SortAscending
	}

	if column == "id" {
		return fmt.Sprintf("ORDER BY id %s", direction), nil
	}

	return fmt.Sprintf("ORDER BY %s %s, id ASC", column, direction), nil
}
