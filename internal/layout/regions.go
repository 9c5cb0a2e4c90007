package layout

import "insales/catsync/internal/domain"

const (
	// TileHeaderRows separates a tile header from its first data row:
	// instructions, blank row, table title and column captions.
	TileHeaderRows = 4

	MinUpperTileRows = 3
	MinLowerTileRows = 5

	extraFieldsAfterProducts = 5
	extraFieldsHeaderRows    = 2
)

// Tile table columns. The left half holds the tags already published, the right
// half the newly generated ones.
const (
	ColBeforeText     = 1
	ColBeforeURL      = 2
	ColBeforeSelected = 3
	ColAfterText      = 5
	ColAfterURL       = 6
	ColAfterCategory  = 7
)

// Keyword table columns.
const (
	ColKeywordChecked  = 1
	ColKeyword         = 2
	ColKeywordTile     = 3 // Верхняя or Нижняя
	ColKeywordAnchor   = 4
	ColKeywordCategory = 5 // category id or link
	ColKeywordStatus   = 6
	ColKeywordParent   = 7 // parent id for a category created from the row
)

// TileRegion is the row range of a tile table.
type TileRegion struct {
	Kind      domain.SectionKind
	Header    int
	DataStart int
	DataEnd   int
	HTMLRow   int // serialized block goes here
}

// Rows returns the number of data rows.
func (r TileRegion) Rows() int {
	return r.DataEnd - r.DataStart + 1
}

// MinTileRows returns the number of data rows always reserved for a tile table.
func MinTileRows(kind domain.SectionKind) int {
	if kind == domain.SectionUpperTile {
		return MinUpperTileRows
	}
	return MinLowerTileRows
}

// TileHeight is the smallest number of grid rows a tile table occupies, header to HTML row.
func TileHeight(kind domain.SectionKind) int {
	return TileHeaderRows + MinTileRows(kind) + 2
}

// Tile returns the region of the upper or lower tile table holding the given number of rows.
// It returns false for any other section kind.
func Tile(m domain.SectionMap, kind domain.SectionKind, rows int) (TileRegion, bool) {
	if kind != domain.SectionUpperTile && kind != domain.SectionLowerTile {
		return TileRegion{}, false
	}

	header := m.Start(kind)
	rows = max(rows, MinTileRows(kind))
	dataStart := header + TileHeaderRows

	return TileRegion{
		Kind:      kind,
		Header:    header,
		DataStart: dataStart,
		DataEnd:   dataStart + rows - 1,
		HTMLRow:   dataStart + rows + 1,
	}, true
}

// TileCapacity returns how many data rows fit in a tile table before the next section starts.
func TileCapacity(m domain.SectionMap, kind domain.SectionKind) int {
	region, ok := Tile(m, kind, 0)
	if !ok {
		return 0
	}

	var next int
	switch {
	case kind == domain.SectionUpperTile:
		next = m.LowerTileStart
	case m.HasStats():
		next = m.StatsStart
	default:
		next = m.ProductsStart
	}
	// leave the blank row and the HTML row in front of the next section
	return max(MinTileRows(kind), next-region.DataStart-2)
}

// ExtraFieldsStart returns the header row of the extra-fields block that follows the product table.
func ExtraFieldsStart(m domain.SectionMap, productCount int) int {
	return m.ProductsStart + productCount + extraFieldsAfterProducts
}

// ExtraFieldsDataStart returns the first data row of the extra-fields block.
func ExtraFieldsDataStart(m domain.SectionMap, productCount int) int {
	return ExtraFieldsStart(m, productCount) + extraFieldsHeaderRows
}
