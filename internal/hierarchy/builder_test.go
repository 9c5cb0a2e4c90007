package hierarchy

import (
	"errors"
	"testing"

	"insales/catsync/internal/domain"

	"pgregory.net/rapid"
)

func id(v int64) *int64 { return &v }

func TestBuild_ThreeLevels(t *testing.T) {
	forest := Build([]domain.Category{
		{ID: 1, Title: "A"},
		{ID: 2, ParentID: id(1), Title: "B"},
		{ID: 3, ParentID: id(2), Title: "C"},
	})

	rows := Collect(forest.Roots)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	want := []struct {
		title string
		level int
		path  string
	}{
		{"A", 0, ""},
		{"B", 1, "A"},
		{"C", 2, "A > B"},
	}
	for i, w := range want {
		if rows[i].Title != w.title || rows[i].Level != w.level || rows[i].Path != w.path {
			t.Errorf("row %d = {%s %d %q}, want {%s %d %q}",
				i, rows[i].Title, rows[i].Level, rows[i].Path, w.title, w.level, w.path)
		}
	}
	if rows[2].DisplayPath != "A > B > C" {
		t.Errorf("DisplayPath = %q", rows[2].DisplayPath)
	}
	if len(forest.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %v", forest.Anomalies)
	}
}

func TestBuild_ChildBeforeParent(t *testing.T) {
	forest := Build([]domain.Category{
		{ID: 3, ParentID: id(2), Title: "C"},
		{ID: 2, ParentID: id(1), Title: "B"},
		{ID: 1, Title: "A"},
	})

	rows := Collect(forest.Roots)
	if len(rows) != 3 || rows[2].Title != "C" || rows[2].Level != 2 || rows[2].Path != "A > B" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestBuild_Fallbacks(t *testing.T) {
	tests := []struct {
		name      string
		records   []domain.Category
		wantRoots []int64
		wantKinds []domain.AnomalyKind
	}{
		{
			name:      "orphan",
			records:   []domain.Category{{ID: 5, ParentID: id(999), Title: "Orphan"}},
			wantRoots: []int64{5},
			wantKinds: []domain.AnomalyKind{domain.AnomalyOrphan},
		},
		{
			name:      "self parent",
			records:   []domain.Category{{ID: 7, ParentID: id(7), Title: "Self"}},
			wantRoots: []int64{7},
			wantKinds: []domain.AnomalyKind{domain.AnomalySelfParent},
		},
		{
			name: "two node cycle",
			records: []domain.Category{
				{ID: 1, ParentID: id(2), Title: "A"},
				{ID: 2, ParentID: id(1), Title: "B"},
			},
			wantRoots: []int64{1},
			wantKinds: []domain.AnomalyKind{domain.AnomalyCycle},
		},
		{
			name: "duplicate id",
			records: []domain.Category{
				{ID: 1, Title: "old"},
				{ID: 1, Title: "new"},
			},
			wantRoots: []int64{1},
			wantKinds: []domain.AnomalyKind{domain.AnomalyDuplicateID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forest := Build(tt.records)

			var roots []int64
			for _, r := range forest.Roots {
				roots = append(roots, r.ID)
				if r.Level != 0 {
					t.Errorf("root %d has level %d", r.ID, r.Level)
				}
			}
			if len(roots) != len(tt.wantRoots) {
				t.Fatalf("roots = %v, want %v", roots, tt.wantRoots)
			}
			for i := range roots {
				if roots[i] != tt.wantRoots[i] {
					t.Errorf("roots = %v, want %v", roots, tt.wantRoots)
				}
			}

			if len(forest.Anomalies) != len(tt.wantKinds) {
				t.Fatalf("anomalies = %v, want kinds %v", forest.Anomalies, tt.wantKinds)
			}
			for i, kind := range tt.wantKinds {
				if forest.Anomalies[i].Kind != kind {
					t.Errorf("anomaly %d kind = %s, want %s", i, forest.Anomalies[i].Kind, kind)
				}
			}
		})
	}
}

func TestBuild_DuplicateLastWins(t *testing.T) {
	forest := Build([]domain.Category{
		{ID: 1, Title: "old"},
		{ID: 1, Title: "new"},
	})
	if forest.Size() != 1 || forest.Roots[0].Title != "new" {
		t.Fatalf("expected single root titled new, got %+v", forest.Roots)
	}
}

func TestBuild_SortsSiblingsByPosition(t *testing.T) {
	forest := Build([]domain.Category{
		{ID: 1, Title: "root", Position: 1},
		{ID: 2, ParentID: id(1), Title: "third", Position: 3},
		{ID: 3, ParentID: id(1), Title: "first", Position: 1},
		{ID: 4, ParentID: id(1), Title: "second-a", Position: 2},
		{ID: 5, ParentID: id(1), Title: "second-b", Position: 2},
		{ID: 6, Title: "root-zero"},
	})

	if forest.Roots[0].ID != 6 || forest.Roots[1].ID != 1 {
		t.Fatalf("roots not sorted by position: %d, %d", forest.Roots[0].ID, forest.Roots[1].ID)
	}

	var titles []string
	for _, c := range forest.Roots[1].Children {
		titles = append(titles, c.Title)
	}
	want := []string{"first", "second-a", "second-b", "third"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("children = %v, want %v", titles, want)
		}
	}
}

func TestBreadcrumb(t *testing.T) {
	records := []domain.Category{
		{ID: 1, Title: "A"},
		{ID: 2, ParentID: id(1), Title: "B"},
		{ID: 3, ParentID: id(2), Title: "C"},
		{ID: 4, ParentID: id(5), Title: "X"},
		{ID: 5, ParentID: id(4), Title: "Y"},
	}

	titles, err := Breadcrumb(records, 3)
	if err != nil {
		t.Fatalf("Breadcrumb failed: %v", err)
	}
	if len(titles) != 3 || titles[0] != "A" || titles[2] != "C" {
		t.Errorf("titles = %v", titles)
	}

	_, err = Breadcrumb(records, 4)
	var cycleErr *CycleError
	if !errors.As(err, &cycleErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}

	if _, err := Breadcrumb(records, 100); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

// genRecords produces category lists with orphans, self references, cycles and duplicates.
func genRecords(t *rapid.T) []domain.Category {
	n := rapid.IntRange(0, 40).Draw(t, "n")
	records := make([]domain.Category, n)
	for i := range records {
		rec := domain.Category{
			ID:       int64(rapid.IntRange(1, n+2).Draw(t, "id")),
			Title:    rapid.StringMatching(`[A-Z][a-z]{0,4}`).Draw(t, "title"),
			Position: rapid.IntRange(0, 3).Draw(t, "position"),
		}
		if rapid.Bool().Draw(t, "hasParent") {
			rec.ParentID = id(int64(rapid.IntRange(1, n+5).Draw(t, "parent")))
		}
		records[i] = rec
	}
	return records
}

func uniqueIDs(records []domain.Category) map[int64]bool {
	ids := make(map[int64]bool, len(records))
	for _, r := range records {
		ids[r.ID] = true
	}
	return ids
}

func TestBuild_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := genRecords(t)
		forest := Build(records)

		seen := make(map[int64]int)
		var walk func(nodes []*domain.CategoryNode, level int, parent *domain.CategoryNode)
		walk = func(nodes []*domain.CategoryNode, level int, parent *domain.CategoryNode) {
			for i, node := range nodes {
				seen[node.ID]++
				if node.Level != level {
					t.Fatalf("node %d: level %d, depth %d", node.ID, node.Level, level)
				}
				if len(node.Path) != level {
					t.Fatalf("node %d: path %v at level %d", node.ID, node.Path, level)
				}
				if parent != nil && (node.ParentID == nil || *node.ParentID != parent.ID) {
					t.Fatalf("node %d attached under %d", node.ID, parent.ID)
				}
				if i > 0 && nodes[i-1].Position > node.Position {
					t.Fatalf("siblings out of order at node %d", node.ID)
				}
				walk(node.Children, level+1, node)
			}
		}
		walk(forest.Roots, 0, nil)

		ids := uniqueIDs(records)
		if len(seen) != len(ids) {
			t.Fatalf("forest has %d ids, input has %d", len(seen), len(ids))
		}
		for nodeID, count := range seen {
			if count != 1 {
				t.Fatalf("node %d appears %d times", nodeID, count)
			}
		}
	})
}

func TestBuild_OrphanProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		records := genRecords(t)
		ids := uniqueIDs(records)
		forest := Build(records)

		roots := make(map[int64]bool)
		for _, r := range forest.Roots {
			roots[r.ID] = true
		}

		last := make(map[int64]int, len(records))
		for i, rec := range records {
			last[rec.ID] = i
		}
		for i, rec := range records {
			if last[rec.ID] != i || rec.ParentID == nil || ids[*rec.ParentID] {
				continue
			}
			if !roots[rec.ID] {
				t.Fatalf("orphan %d is not a root", rec.ID)
			}
		}
	})
}

func TestBuild_StableSiblingOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		records := make([]domain.Category, n)
		for i := range records {
			records[i] = domain.Category{
				ID:       int64(i + 1),
				Title:    "c",
				Position: rapid.IntRange(0, 2).Draw(t, "position"),
			}
		}

		forest := Build(records)
		for i := 1; i < len(forest.Roots); i++ {
			prev, cur := forest.Roots[i-1], forest.Roots[i]
			if prev.Position == cur.Position && prev.ID > cur.ID {
				t.Fatalf("equal positions reordered: %d before %d", prev.ID, cur.ID)
			}
		}
	})
}
