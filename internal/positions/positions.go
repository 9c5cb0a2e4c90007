// Package positions compares search ranking observations over time.
package positions

import (
	"fmt"
	"strings"

	"insales/catsync/internal/domain"
)

const (
	FirstCheck = "первая проверка"

	// TrendWindow is how many of the newest checks a trend looks at.
	TrendWindow = 3
	// TrendThreshold is the position shift above which a trend counts as a rise or a fall.
	TrendThreshold = 3
)

// Delta formats the movement from prev to cur. Ranks grow better as they shrink,
// so climbing from 12 to 5 is "+7". A zero on either side means unknown and yields "".
func Delta(prev, cur int) string {
	if prev <= 0 || cur <= 0 {
		return ""
	}
	switch diff := prev - cur; {
	case diff > 0:
		return fmt.Sprintf("+%d", diff)
	case diff < 0:
		return fmt.Sprintf("%d", diff)
	default:
		return "="
	}
}

// ChangeLabel describes how cur moved against the previous check of the same query.
// prev is nil when there was no earlier check.
func ChangeLabel(prev *domain.PositionCheck, cur domain.PositionCheck) string {
	if prev == nil {
		return FirstCheck
	}

	var parts []string
	if d := Delta(prev.Yandex, cur.Yandex); d != "" {
		parts = append(parts, d)
	}
	if d := Delta(prev.Google, cur.Google); d != "" {
		parts = append(parts, d)
	}
	if len(parts) == 0 {
		return FirstCheck
	}
	return strings.Join(parts, " | ")
}

type TrendKind int

const (
	TrendUnknown TrendKind = iota
	TrendStable
	TrendSmall
	TrendRise
	TrendFall
)

type Trend struct {
	Kind TrendKind
	Diff int
}

func (t Trend) String() string {
	switch t.Kind {
	case TrendRise:
		return fmt.Sprintf("📈 рост (+%d позиций)", t.Diff)
	case TrendFall:
		return fmt.Sprintf("📉 падение (%d позиций)", t.Diff)
	case TrendSmall:
		if t.Diff > 0 {
			return fmt.Sprintf("➡️ небольшое изменение (+%d)", t.Diff)
		}
		return fmt.Sprintf("➡️ небольшое изменение (%d)", t.Diff)
	case TrendStable:
		return "⏸️ стабильно"
	default:
		return "недостаточно данных"
	}
}

// TrendOf compares the oldest and newest known rank in positions, which are ordered
// newest first. Zero entries are unknown and skipped.
func TrendOf(positions []int) Trend {
	known := make([]int, 0, len(positions))
	for _, p := range positions {
		if p > 0 {
			known = append(known, p)
		}
	}
	if len(known) < 2 {
		return Trend{Kind: TrendUnknown}
	}

	diff := known[len(known)-1] - known[0]
	switch {
	case diff > TrendThreshold:
		return Trend{Kind: TrendRise, Diff: diff}
	case diff < -TrendThreshold:
		return Trend{Kind: TrendFall, Diff: diff}
	case diff != 0:
		return Trend{Kind: TrendSmall, Diff: diff}
	default:
		return Trend{Kind: TrendStable}
	}
}

// Report summarises the history of one category, newest check first.
type Report struct {
	CategoryID int64
	Checks     int
	Recent     []domain.PositionCheck
	Yandex     Trend
	Google     Trend
}

// BuildReport keeps the five newest checks and computes trends over the newest three.
// history must be ordered newest first.
func BuildReport(categoryID int64, history []domain.PositionCheck) Report {
	report := Report{CategoryID: categoryID, Checks: len(history)}
	report.Recent = history[:min(5, len(history))]

	window := history[:min(TrendWindow, len(history))]
	yandex := make([]int, len(window))
	google := make([]int, len(window))
	for i, c := range window {
		yandex[i] = c.Yandex
		google[i] = c.Google
	}
	if len(window) >= TrendWindow {
		report.Yandex = TrendOf(yandex)
		report.Google = TrendOf(google)
	}
	return report
}
