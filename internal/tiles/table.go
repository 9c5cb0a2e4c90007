package tiles

import (
	"fmt"
	"strconv"
	"strings"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"
)

// Table is the content of a tile table in the grid.
type Table struct {
	Region  layout.TileRegion
	Before  []domain.AnchorTag
	After   []domain.AnchorTag
	HTMLRow int // row holding the previously written block, 0 if none
	HTMLCol int // column of that block; sheets written by older tooling keep it in B

	beforeRows int
}

// ReadTable reads the upper or lower tile table located by the section map.
// Rows are read up to the table capacity or the row holding a written block,
// and both halves are read independently. A full table keeps its block in the
// last two rows before the next section, so those are searched for the block too.
func ReadTable(g layout.Grid, m domain.SectionMap, kind domain.SectionKind) (Table, error) {
	region, ok := layout.Tile(m, kind, 0)
	if !ok {
		return Table{}, fmt.Errorf("%s is not a tile section", kind)
	}

	table := Table{}
	capacity := layout.TileCapacity(m, kind)
	used := 0
	for i := 0; i < capacity+2; i++ {
		row := region.DataStart + i

		if col := blockColumn(g, row); col != 0 {
			table.HTMLRow, table.HTMLCol = row, col
			break
		}
		if i >= capacity {
			continue
		}

		text := strings.TrimSpace(g.Cell(row, layout.ColBeforeText))
		url := strings.TrimSpace(g.Cell(row, layout.ColBeforeURL))
		if text != "" || url != "" {
			table.Before = append(table.Before, domain.AnchorTag{
				Text:     text,
				URL:      url,
				Selected: parseCheckbox(g.Cell(row, layout.ColBeforeSelected)),
			})
			table.beforeRows = i + 1
			used = i + 1
		}

		text = strings.TrimSpace(g.Cell(row, layout.ColAfterText))
		url = strings.TrimSpace(g.Cell(row, layout.ColAfterURL))
		if text != "" || url != "" {
			tag := domain.AnchorTag{Text: text, URL: NormalizeLink(url)}
			if id, err := strconv.ParseInt(strings.TrimSpace(g.Cell(row, layout.ColAfterCategory)), 10, 64); err == nil {
				tag.CategoryID = id
			}
			table.After = append(table.After, tag)
			used = i + 1
		}
	}

	table.Region, _ = layout.Tile(m, kind, used)
	return table, nil
}

// Write puts newly generated tags into the right half of the table and the block HTML
// into the HTML row. The left half is left as the operator edited it.
func Write(g *layout.MemoryGrid, m domain.SectionMap, kind domain.SectionKind, table Table, after []domain.AnchorTag, block string) (layout.TileRegion, error) {
	rows := max(table.beforeRows, len(after))
	region, ok := layout.Tile(m, kind, rows)
	if !ok {
		return layout.TileRegion{}, fmt.Errorf("%s is not a tile section", kind)
	}
	if capacity := layout.TileCapacity(m, kind); region.Rows() > capacity {
		return layout.TileRegion{}, fmt.Errorf("%s table needs %d rows, only %d fit before the next section", kind, region.Rows(), capacity)
	}

	for i := 0; i < region.Rows(); i++ {
		row := region.DataStart + i
		var tag domain.AnchorTag
		if i < len(after) {
			tag = after[i]
		}
		g.Set(row, layout.ColAfterText, tag.Text)
		g.Set(row, layout.ColAfterURL, tag.URL)
		category := ""
		if tag.CategoryID != 0 {
			category = strconv.FormatInt(tag.CategoryID, 10)
		}
		g.Set(row, layout.ColAfterCategory, category)
	}
	// clear a previously longer right half
	for row := region.DataEnd + 1; row < table.Region.DataEnd+1; row++ {
		g.Set(row, layout.ColAfterText, "")
		g.Set(row, layout.ColAfterURL, "")
		g.Set(row, layout.ColAfterCategory, "")
	}

	if table.HTMLRow != 0 && (table.HTMLRow != region.HTMLRow || table.HTMLCol != layout.ColBeforeText) {
		g.Set(table.HTMLRow, table.HTMLCol, "")
	}
	g.Set(region.HTMLRow, layout.ColBeforeText, block)
	return region, nil
}

// blockColumn returns the column holding a serialized block in row, or 0.
func blockColumn(g layout.Grid, row int) int {
	for _, col := range []int{layout.ColBeforeText, layout.ColBeforeURL} {
		if strings.HasPrefix(strings.TrimSpace(g.Cell(row, col)), "<") {
			return col
		}
	}
	return 0
}

func parseCheckbox(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	switch value {
	case "да", "✓", "✔", "x", "+":
		return true
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}
