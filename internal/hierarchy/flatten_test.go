package hierarchy

import (
	"testing"

	"insales/catsync/internal/domain"

	"pgregory.net/rapid"
)

func TestFlatten_StopsEarly(t *testing.T) {
	forest := Build([]domain.Category{
		{ID: 1, Title: "A"},
		{ID: 2, ParentID: id(1), Title: "B"},
		{ID: 3, Title: "C", Position: 1},
	})

	var got []int64
	for row := range Flatten(forest.Roots) {
		got = append(got, row.ID)
		if len(got) == 2 {
			break
		}
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestFlatten_Empty(t *testing.T) {
	if rows := Collect(nil); len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestFlatten_PreOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		forest := Build(genRecords(t))
		rows := Collect(forest.Roots)

		if len(rows) != forest.Size() {
			t.Fatalf("%d rows for %d nodes", len(rows), forest.Size())
		}

		sizes := make(map[int64]int)
		var size func(node *domain.CategoryNode) int
		size = func(node *domain.CategoryNode) int {
			n := 1
			for _, c := range node.Children {
				n += size(c)
			}
			sizes[node.ID] = n
			return n
		}
		for _, r := range forest.Roots {
			size(r)
		}

		for i, row := range rows {
			block := sizes[row.ID] - 1
			for j := i + 1; j <= i+block; j++ {
				if rows[j].Level <= row.Level {
					t.Fatalf("row %d (%d) is not a descendant of row %d (%d)", j, rows[j].ID, i, row.ID)
				}
			}
			if next := i + block + 1; next < len(rows) && rows[next].Level > row.Level {
				t.Fatalf("row %d (%d) follows the subtree of %d but is deeper", next, rows[next].ID, row.ID)
			}
		}
	})
}
