package cli

import (
	"bytes"
	"strings"
	"testing"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
	"insales/catsync/internal/service"
	"insales/catsync/internal/tiles"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int64
		wantErr bool
	}{
		{"separate", []string{"1", "2"}, []int64{1, 2}, false},
		{"comma separated", []string{"1,2", " 3 ,"}, []int64{1, 2, 3}, false},
		{"not a number", []string{"1", "x"}, nil, true},
		{"negative", []string{"-4"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeUpdates(t *testing.T) {
	updates, err := decodeUpdates(strings.NewReader(`[
		{"category_id": 42, "html_title": "Сапоги"},
		{"category_id": 43, "field_values": [{"collection_field_id": 7, "value": "<ul></ul>"}]}
	]`))
	if err != nil {
		t.Fatalf("decodeUpdates failed: %v", err)
	}
	if len(updates) != 2 || updates[0].HTMLTitle != "Сапоги" || updates[1].FieldValues[0].CollectionFieldID != 7 {
		t.Errorf("updates = %+v", updates)
	}

	if _, err := decodeUpdates(strings.NewReader(`[{"html_title": "x"}]`)); err == nil {
		t.Error("expected error for update without category id")
	}
}

func TestSheetFor(t *testing.T) {
	sheetName = ""
	if got := sheetFor("/tmp/exports/Сапоги.csv"); got != "Сапоги" {
		t.Errorf("sheetFor = %q", got)
	}
	sheetName = "Детали"
	defer func() { sheetName = "" }()
	if got := sheetFor("/tmp/a.csv"); got != "Детали" {
		t.Errorf("sheetFor = %q", got)
	}
}

func TestPrintSections(t *testing.T) {
	g := layout.NewMemoryGrid(nil)
	g.Set(30, 1, "ВЕРХНЯЯ ПЛИТКА ТЕГОВ")
	m := layout.Compute(g, layout.DefaultOptions())

	var buf bytes.Buffer
	printSections(&buf, m, 10)
	out := buf.String()

	for _, want := range []string{"scanned", "derived", "absent", "extra fields start at row"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if m.Resolution(domain.SectionStats) != domain.ResolutionAbsent {
		t.Errorf("stats resolution = %s", m.Resolution(domain.SectionStats))
	}
}

func TestSheetAt(t *testing.T) {
	sheetName = ""
	if got := sheetAt("/tmp/exports/Кеды.csv", "/tmp/out.csv").Name(); got != "Кеды" {
		t.Errorf("sheet name = %q", got)
	}
}

func TestPrintKeywords(t *testing.T) {
	jsonOutput = false
	report := &service.KeywordReport{
		Checked: 2, Existing: 1, ToCreate: 1,
		Rows: []tiles.KeywordRow{
			{Row: 22, Keyword: "сапоги зимние", TileType: "Верхняя", Category: "2", Status: tiles.StatusExists},
			{Row: 23, Keyword: "кеды", TileType: "Нижняя", Status: tiles.StatusCreate},
		},
	}

	var buf bytes.Buffer
	if err := printKeywords(&buf, report); err != nil {
		t.Fatalf("printKeywords failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Keywords: 2, existing: 1, to create: 1", "сапоги зимние", tiles.StatusCreate} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}
