package layout

import (
	"fmt"
	"strings"

	"insales/catsync/internal/domain"
)

// Row arithmetic of the detail grid. Section headers sit in the marker column.
const (
	keywordHeaderRows  = 2 // header, column captions
	productHeaderRows  = 2 // header, column captions
	upperAfterKeywords = 3
	lowerAfterUpper    = 12
	productsAfterLower = 37
	productsAfterStats = 12
	minStatsHeight     = 3
)

// Compute finds the start row of every section of the grid.
//
// Markers found in the marker column win. Sections without a marker are placed at a fixed
// distance from the section above them. The result always keeps the sections in grid order
// with at least the minimum height of each section between them; any start that had to be
// moved is reported in Anomalies.
func Compute(g Grid, opts Options) domain.SectionMap {
	opts = opts.withDefaults()
	found := scanMarkers(g, opts)

	m := domain.SectionMap{Resolutions: make(map[domain.SectionKind]domain.Resolution, len(domain.SectionKinds))}

	m.KeywordsStart = opts.KeywordsStart
	m.Resolutions[domain.SectionKeywords] = domain.ResolutionDerived
	if found.keywords > 0 {
		m.KeywordsStart = found.keywords + keywordHeaderRows
		m.Resolutions[domain.SectionKeywords] = domain.ResolutionScanned
	}

	last := lastKeywordRow(g, opts, m.KeywordsStart, found.nextAfter(m.KeywordsStart))
	m.KeywordsCount = max(0, last-m.KeywordsStart+1)
	m.KeywordsEnd = max(last, m.KeywordsStart)

	m.UpperTileStart = resolve(&m, domain.SectionUpperTile, found.upper, m.KeywordsEnd+upperAfterKeywords)
	m.LowerTileStart = resolve(&m, domain.SectionLowerTile, found.lower, m.UpperTileStart+lowerAfterUpper)

	if found.stats > 0 {
		m.StatsStart = found.stats
		m.Resolutions[domain.SectionStats] = domain.ResolutionScanned
	}

	productsFallback := m.LowerTileStart + productsAfterLower
	if m.HasStats() {
		productsFallback = m.StatsStart + productsAfterStats
	}
	productsFound := 0
	if found.products > 0 {
		productsFound = found.products + productHeaderRows
	}
	m.ProductsStart = resolve(&m, domain.SectionProducts, productsFound, productsFallback)

	enforceOrder(&m)
	return m
}

func resolve(m *domain.SectionMap, kind domain.SectionKind, scanned, fallback int) int {
	if scanned > 0 {
		m.Resolutions[kind] = domain.ResolutionScanned
		return scanned
	}
	m.Resolutions[kind] = domain.ResolutionDerived
	return fallback
}

type markerRows struct {
	keywords int
	upper    int
	lower    int
	stats    int
	products int
}

// nextAfter returns the first marker row at or after row, or 0.
func (f markerRows) nextAfter(row int) int {
	next := 0
	for _, r := range []int{f.upper, f.lower, f.stats, f.products} {
		if r >= row && (next == 0 || r < next) {
			next = r
		}
	}
	return next
}

func scanMarkers(g Grid, opts Options) markerRows {
	var found markerRows
	mk := opts.Markers

	limit := min(g.LastRow(), opts.ScanLimit)
	for row := 1; row <= limit; row++ {
		text := g.Cell(row, opts.MarkerColumn)
		if strings.TrimSpace(text) == "" {
			continue
		}

		switch {
		case strings.Contains(text, mk.Keywords) && strings.Contains(text, mk.Tile):
			found.keywords = row
		case strings.Contains(text, mk.Upper) && strings.Contains(text, mk.Tile):
			found.upper = row
		case strings.Contains(text, mk.Lower) && strings.Contains(text, mk.Tile):
			found.lower = row
		case strings.Contains(text, mk.Stats):
			found.stats = row
		case containsAny(text, mk.Products) && !strings.Contains(text, mk.Tile):
			found.products = row
			return found
		}
	}
	return found
}

// lastKeywordRow returns the last row with keyword text, or start-1 when the table is empty.
// The scan stops after opts.KeywordGap blank rows, at the scan limit or at the next marker.
func lastKeywordRow(g Grid, opts Options, start, nextMarker int) int {
	limit := start + opts.KeywordScanLimit
	if nextMarker > 0 {
		limit = min(limit, nextMarker)
	}

	last := start - 1
	for row := start; row < limit; row++ {
		if strings.TrimSpace(g.Cell(row, opts.KeywordColumn)) != "" {
			last = row
		} else if row > last+opts.KeywordGap {
			break
		}
	}
	return last
}

func enforceOrder(m *domain.SectionMap) {
	bump := func(kind domain.SectionKind, start *int, minimum int) {
		if *start >= minimum {
			return
		}
		m.Anomalies = append(m.Anomalies, domain.Anomaly{
			Kind:    domain.AnomalyOrder,
			Row:     *start,
			Message: fmt.Sprintf("%s section at row %d overlaps the section above, moved to row %d", kind, *start, minimum),
		})
		*start = minimum
		m.Resolutions[kind] = domain.ResolutionAdjusted
	}

	bump(domain.SectionUpperTile, &m.UpperTileStart, m.KeywordsEnd+1)
	bump(domain.SectionLowerTile, &m.LowerTileStart, m.UpperTileStart+TileHeight(domain.SectionUpperTile))

	floor := m.LowerTileStart + TileHeight(domain.SectionLowerTile)
	if m.HasStats() {
		bump(domain.SectionStats, &m.StatsStart, floor)
		floor = m.StatsStart + minStatsHeight
	}
	bump(domain.SectionProducts, &m.ProductsStart, floor)
}

func containsAny(text string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(text, f) {
			return true
		}
	}
	return false
}
