package hierarchy

import "insales/catsync/internal/domain"

// Counts is the number of items in a category and how many of them are in stock.
type Counts struct {
	Total   int
	InStock int
}

// Count tallies items per category in one pass. An item listed twice under the same
// category is counted once.
func Count(items []domain.CatalogItem) map[int64]Counts {
	counts := make(map[int64]Counts)
	for _, item := range items {
		if len(item.CategoryIDs) == 0 {
			continue
		}

		inStock := item.InStock()
		seen := make(map[int64]struct{}, len(item.CategoryIDs))
		for _, id := range item.CategoryIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			c := counts[id]
			c.Total++
			if inStock {
				c.InStock++
			}
			counts[id] = c
		}
	}
	return counts
}

// Aggregate returns a copy of rows with ProductsCount and InStockCount filled in.
// Categories without items get 0/0.
func Aggregate(rows []domain.FlatCategoryRow, items []domain.CatalogItem) []domain.FlatCategoryRow {
	counts := Count(items)

	out := make([]domain.FlatCategoryRow, len(rows))
	for i, row := range rows {
		c := counts[row.ID]
		row.ProductsCount = c.Total
		row.InStockCount = c.InStock
		out[i] = row
	}
	return out
}
