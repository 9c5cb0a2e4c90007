// Package hierarchy turns the flat category list of the catalog into a forest,
// flattens it back into ordered rows and joins item counts onto those rows.
package hierarchy

import (
	"cmp"
	"fmt"
	"slices"

	"insales/catsync/internal/domain"
)

// Forest is the result of Build.
type Forest struct {
	Roots     []*domain.CategoryNode
	Anomalies []domain.Anomaly
}

// Size returns the number of nodes reachable from the roots.
func (f *Forest) Size() int {
	n := 0
	var walk func(nodes []*domain.CategoryNode)
	walk = func(nodes []*domain.CategoryNode) {
		for _, node := range nodes {
			n++
			walk(node.Children)
		}
	}
	walk(f.Roots)
	return n
}

// Build links categories by their parent ids.
//
// A record whose parent is missing, or which names itself as its parent, becomes a root.
// For duplicate ids the last record wins. Records caught in a parent cycle are unreachable
// from any root after linking, so one node of every cycle is promoted to a root.
// Every fallback is reported as an anomaly. Siblings are ordered by position, ties keep
// input order.
func Build(records []domain.Category) *Forest {
	forest := &Forest{}

	nodes := make(map[int64]*domain.CategoryNode, len(records))
	created := make([]*domain.CategoryNode, len(records))
	for i, rec := range records {
		if _, ok := nodes[rec.ID]; ok {
			forest.Anomalies = append(forest.Anomalies, domain.Anomaly{
				Kind:    domain.AnomalyDuplicateID,
				ID:      rec.ID,
				Message: fmt.Sprintf("record #%d replaces an earlier record with the same id", i),
			})
		}
		node := &domain.CategoryNode{Category: rec}
		nodes[rec.ID] = node
		created[i] = node
	}

	parents := make(map[int64]*domain.CategoryNode, len(records))
	linked := make([]*domain.CategoryNode, 0, len(nodes))
	for i, node := range created {
		if nodes[node.ID] != node {
			continue
		}
		linked = append(linked, node)

		pid := records[i].ParentID
		switch {
		case pid == nil:
			forest.Roots = append(forest.Roots, node)
		case *pid == node.ID:
			forest.Roots = append(forest.Roots, node)
			forest.Anomalies = append(forest.Anomalies, domain.Anomaly{
				Kind:    domain.AnomalySelfParent,
				ID:      node.ID,
				Message: "category is its own parent, treated as root",
			})
		default:
			parent, ok := nodes[*pid]
			if !ok {
				forest.Roots = append(forest.Roots, node)
				forest.Anomalies = append(forest.Anomalies, domain.Anomaly{
					Kind:    domain.AnomalyOrphan,
					ID:      node.ID,
					Message: fmt.Sprintf("parent %d not found, treated as root", *pid),
				})
				continue
			}
			parent.Children = append(parent.Children, node)
			parents[node.ID] = parent
		}
	}

	forest.Anomalies = append(forest.Anomalies, breakCycles(forest, linked, parents)...)

	sortNodes(forest.Roots)
	for _, root := range forest.Roots {
		annotate(root, 0, nil)
	}

	return forest
}

// breakCycles promotes one node of every parent cycle to a root.
func breakCycles(forest *Forest, linked []*domain.CategoryNode, parents map[int64]*domain.CategoryNode) []domain.Anomaly {
	reached := make(map[*domain.CategoryNode]bool, len(linked))
	var mark func(node *domain.CategoryNode)
	mark = func(node *domain.CategoryNode) {
		reached[node] = true
		for _, child := range node.Children {
			mark(child)
		}
	}
	for _, root := range forest.Roots {
		mark(root)
	}

	var anomalies []domain.Anomaly
	for _, node := range linked {
		if reached[node] {
			continue
		}

		// Walk up until a node repeats; that node lies on the cycle.
		seen := make(map[*domain.CategoryNode]bool)
		cur := node
		for !seen[cur] {
			seen[cur] = true
			cur = parents[cur.ID]
		}

		parent := parents[cur.ID]
		parent.Children = slices.DeleteFunc(parent.Children, func(c *domain.CategoryNode) bool {
			return c == cur
		})
		delete(parents, cur.ID)
		forest.Roots = append(forest.Roots, cur)
		mark(cur)

		anomalies = append(anomalies, domain.Anomaly{
			Kind:    domain.AnomalyCycle,
			ID:      cur.ID,
			Message: fmt.Sprintf("parent chain loops back through %d, treated as root", parent.ID),
		})
	}

	return anomalies
}

func sortNodes(nodes []*domain.CategoryNode) {
	slices.SortStableFunc(nodes, func(a, b *domain.CategoryNode) int {
		return cmp.Compare(a.Position, b.Position)
	})
	for _, node := range nodes {
		sortNodes(node.Children)
	}
}

func annotate(node *domain.CategoryNode, level int, path []string) {
	node.Level = level
	node.Path = path

	childPath := make([]string, len(path)+1)
	copy(childPath, path)
	childPath[len(path)] = node.Title

	for _, child := range node.Children {
		annotate(child, level+1, childPath)
	}
}
