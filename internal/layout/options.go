package layout

// Markers are the header fragments that identify sections in the marker column.
// Matching is case-sensitive because headers are written in upper case while
// labels elsewhere in the grid are not.
type Markers struct {
	Keywords string   `mapstructure:"keywords"`
	Tile     string   `mapstructure:"tile"`
	Upper    string   `mapstructure:"upper"`
	Lower    string   `mapstructure:"lower"`
	Stats    string   `mapstructure:"stats"`
	Products []string `mapstructure:"products"`
}

func DefaultMarkers() Markers {
	return Markers{
		Keywords: "КЛЮЧЕВЫЕ СЛОВА",
		Tile:     "ПЛИТ",
		Upper:    "ВЕРХН",
		Lower:    "НИЖН",
		Stats:    "СТАТИСТИКА",
		Products: []string{"ТОВАР", "PRODUCT"},
	}
}

type Options struct {
	Markers          Markers `mapstructure:"markers"`
	MarkerColumn     int     `mapstructure:"marker_column"`
	KeywordColumn    int     `mapstructure:"keyword_column"`
	KeywordsStart    int     `mapstructure:"keywords_data_start"` // used when the keyword header is missing
	ScanLimit        int     `mapstructure:"scan_limit"`
	KeywordScanLimit int     `mapstructure:"keyword_scan_limit"`
	KeywordGap       int     `mapstructure:"keyword_gap"`
}

func DefaultOptions() Options {
	return Options{
		Markers:          DefaultMarkers(),
		MarkerColumn:     1,
		KeywordColumn:    2,
		KeywordsStart:    22,
		ScanLimit:        1000,
		KeywordScanLimit: 100,
		KeywordGap:       5,
	}
}

// withDefaults fills zero fields so a partially configured Options still works.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Markers.Keywords == "" {
		o.Markers.Keywords = d.Markers.Keywords
	}
	if o.Markers.Tile == "" {
		o.Markers.Tile = d.Markers.Tile
	}
	if o.Markers.Upper == "" {
		o.Markers.Upper = d.Markers.Upper
	}
	if o.Markers.Lower == "" {
		o.Markers.Lower = d.Markers.Lower
	}
	if o.Markers.Stats == "" {
		o.Markers.Stats = d.Markers.Stats
	}
	if len(o.Markers.Products) == 0 {
		o.Markers.Products = d.Markers.Products
	}
	if o.MarkerColumn < 1 {
		o.MarkerColumn = d.MarkerColumn
	}
	if o.KeywordColumn < 1 {
		o.KeywordColumn = d.KeywordColumn
	}
	if o.KeywordsStart < 1 {
		o.KeywordsStart = d.KeywordsStart
	}
	if o.ScanLimit < 1 {
		o.ScanLimit = d.ScanLimit
	}
	if o.KeywordScanLimit < 1 {
		o.KeywordScanLimit = d.KeywordScanLimit
	}
	if o.KeywordGap < 1 {
		o.KeywordGap = d.KeywordGap
	}
	return o
}
