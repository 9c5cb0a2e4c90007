package hierarchy

import (
	"iter"
	"strings"

	"insales/catsync/internal/domain"
)

const PathSeparator = " > "

// Flatten yields one row per node in pre-order: a node, then its subtree, then its next sibling.
// The sequence walks the tree on every iteration and can be stopped early.
func Flatten(roots []*domain.CategoryNode) iter.Seq[domain.FlatCategoryRow] {
	return func(yield func(domain.FlatCategoryRow) bool) {
		var walk func(node *domain.CategoryNode) bool
		walk = func(node *domain.CategoryNode) bool {
			if !yield(newRow(node)) {
				return false
			}
			for _, child := range node.Children {
				if !walk(child) {
					return false
				}
			}
			return true
		}

		for _, root := range roots {
			if !walk(root) {
				return
			}
		}
	}
}

// Collect materialises Flatten into a slice.
func Collect(roots []*domain.CategoryNode) []domain.FlatCategoryRow {
	var rows []domain.FlatCategoryRow
	for row := range Flatten(roots) {
		rows = append(rows, row)
	}
	return rows
}

func newRow(node *domain.CategoryNode) domain.FlatCategoryRow {
	path := strings.Join(node.Path, PathSeparator)
	display := node.Title
	if path != "" {
		display = path + PathSeparator + node.Title
	}

	return domain.FlatCategoryRow{
		ID:              node.ID,
		ParentID:        node.ParentID,
		Level:           node.Level,
		Path:            path,
		DisplayPath:     display,
		Title:           node.Title,
		URL:             node.URL,
		Position:        node.Position,
		IsHidden:        node.IsHidden,
		HTMLTitle:       node.HTMLTitle,
		MetaDescription: node.MetaDescription,
		Description:     node.Description,
	}
}
