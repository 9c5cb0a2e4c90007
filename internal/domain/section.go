package domain

// SectionKind identifies a variable-height block of a category detail grid.
type SectionKind int

const (
	SectionKeywords SectionKind = iota
	SectionUpperTile
	SectionLowerTile
	SectionStats
	SectionProducts
)

// SectionKinds lists the sections in the order they are laid out in the grid.
var SectionKinds = []SectionKind{
	SectionKeywords,
	SectionUpperTile,
	SectionLowerTile,
	SectionStats,
	SectionProducts,
}

func (k SectionKind) String() string {
	switch k {
	case SectionKeywords:
		return "keywords"
	case SectionUpperTile:
		return "upper_tile"
	case SectionLowerTile:
		return "lower_tile"
	case SectionStats:
		return "stats"
	case SectionProducts:
		return "products"
	default:
		return "unknown"
	}
}

// Resolution records how the start row of a section was found.
type Resolution string

const (
	ResolutionScanned  Resolution = "scanned"  // marker text found in the grid
	ResolutionDerived  Resolution = "derived"  // fixed offset from the previous section
	ResolutionAdjusted Resolution = "adjusted" // moved down to keep sections ordered
	ResolutionAbsent   Resolution = "absent"
)

// SectionMap holds the 1-based row numbers of every section of a grid.
// StatsStart is 0 when the grid has no statistics block.
type SectionMap struct {
	KeywordsStart  int `json:"keywords_start"`
	KeywordsEnd    int `json:"keywords_end"`
	KeywordsCount  int `json:"keywords_count"`
	UpperTileStart int `json:"upper_tile_start"`
	LowerTileStart int `json:"lower_tile_start"`
	StatsStart     int `json:"stats_start,omitempty"`
	ProductsStart  int `json:"products_start"`

	Resolutions map[SectionKind]Resolution `json:"-"`
	Anomalies   []Anomaly                  `json:"anomalies,omitempty"`
}

// HasStats reports whether a statistics block is present.
func (m SectionMap) HasStats() bool {
	return m.StatsStart > 0
}

// Start returns the first row of the given section, or 0 if it is absent.
func (m SectionMap) Start(kind SectionKind) int {
	switch kind {
	case SectionKeywords:
		return m.KeywordsStart
	case SectionUpperTile:
		return m.UpperTileStart
	case SectionLowerTile:
		return m.LowerTileStart
	case SectionStats:
		return m.StatsStart
	case SectionProducts:
		return m.ProductsStart
	default:
		return 0
	}
}

// Resolution returns how the section start was found.
func (m SectionMap) Resolution(kind SectionKind) Resolution {
	if r, ok := m.Resolutions[kind]; ok {
		return r
	}
	return ResolutionAbsent
}
