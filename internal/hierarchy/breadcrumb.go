package hierarchy

import (
	"errors"
	"fmt"

	"insales/catsync/internal/domain"
)

var ErrCategoryNotFound = errors.New("category not found")

// CycleError is returned when a parent chain never reaches a root.
type CycleError struct {
	ID    int64   // category the walk started from
	Chain []int64 // ids visited before the repeat
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("parent chain of category %d loops: %v", e.ID, e.Chain)
}

// Breadcrumb returns the titles from the root down to the category with the given id.
// Missing parents end the walk the same way Build treats orphans.
func Breadcrumb(records []domain.Category, id int64) ([]string, error) {
	byID := make(map[int64]domain.Category, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	cur, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrCategoryNotFound, id)
	}

	visited := make(map[int64]bool, len(records))
	var chain []int64
	var titles []string
	for {
		if visited[cur.ID] {
			return nil, &CycleError{ID: id, Chain: chain}
		}
		visited[cur.ID] = true
		chain = append(chain, cur.ID)
		titles = append(titles, cur.Title)

		if cur.ParentID == nil || *cur.ParentID == cur.ID {
			break
		}
		parent, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		cur = parent
	}

	for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
		titles[i], titles[j] = titles[j], titles[i]
	}
	return titles, nil
}
