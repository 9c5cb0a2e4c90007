package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"insales/catsync/internal/domain"
	"insales/catsync/internal/layout"

	"github.com/goccy/go-json"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func parseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return id, nil
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		// ids may come comma separated from a spreadsheet column
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func printBatch(w io.Writer, r *domain.BatchResult) {
	fmt.Fprintf(w, "Total: %d, succeeded: %d, failed: %d\n", r.Total, r.Succeeded, r.Failed)
	for id, msg := range r.Errors {
		fmt.Fprintf(w, "  %d: %s\n", id, msg)
	}
}

func printAnomalies(w io.Writer, anomalies []domain.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	fmt.Fprintf(w, "\nAnomalies (%d):\n", len(anomalies))
	for _, a := range anomalies {
		fmt.Fprintf(w, "  %s\n", a)
	}
}

func printSections(w io.Writer, m domain.SectionMap, productCount int) {
	for _, kind := range domain.SectionKinds {
		start := m.Start(kind)
		if start == 0 {
			fmt.Fprintf(w, "%-10s %6s  %s\n", kind, "-", m.Resolution(kind))
			continue
		}
		fmt.Fprintf(w, "%-10s %6d  %s\n", kind, start, m.Resolution(kind))
	}
	fmt.Fprintf(w, "keywords   %d rows (%d-%d)\n", m.KeywordsCount, m.KeywordsStart, m.KeywordsEnd)
	for _, kind := range []domain.SectionKind{domain.SectionUpperTile, domain.SectionLowerTile} {
		region, _ := layout.Tile(m, kind, 0)
		fmt.Fprintf(w, "%-10s data from row %d, room for %d tags\n", kind, region.DataStart, layout.TileCapacity(m, kind))
	}
	if productCount > 0 {
		fmt.Fprintf(w, "extra fields start at row %d\n", layout.ExtraFieldsStart(m, productCount))
	}
	printAnomalies(w, m.Anomalies)
}
