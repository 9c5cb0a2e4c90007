package positions

import (
	"testing"

	"insales/catsync/internal/domain"

	"pgregory.net/rapid"
)

func TestChangeLabel(t *testing.T) {
	tests := []struct {
		name string
		prev *domain.PositionCheck
		cur  domain.PositionCheck
		want string
	}{
		{"no previous", nil, domain.PositionCheck{Yandex: 5}, FirstCheck},
		{"both rise", &domain.PositionCheck{Yandex: 12, Google: 8}, domain.PositionCheck{Yandex: 5, Google: 3}, "+7 | +5"},
		{"yandex fall only", &domain.PositionCheck{Yandex: 4}, domain.PositionCheck{Yandex: 9, Google: 2}, "-5"},
		{"unchanged", &domain.PositionCheck{Yandex: 4, Google: 4}, domain.PositionCheck{Yandex: 4, Google: 4}, "= | ="},
		{"previous without ranks", &domain.PositionCheck{}, domain.PositionCheck{Yandex: 3}, FirstCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChangeLabel(tt.prev, tt.cur); got != tt.want {
				t.Errorf("ChangeLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      Trend
	}{
		{"rise", []int{3, 6, 10}, Trend{Kind: TrendRise, Diff: 7}},
		{"fall", []int{15, 10, 4}, Trend{Kind: TrendFall, Diff: -11}},
		{"small", []int{5, 7, 8}, Trend{Kind: TrendSmall, Diff: 3}},
		{"stable", []int{5, 9, 5}, Trend{Kind: TrendStable}},
		{"unknown entries skipped", []int{4, 0, 9}, Trend{Kind: TrendRise, Diff: 5}},
		{"not enough data", []int{0, 0, 7}, Trend{Kind: TrendUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrendOf(tt.positions); got != tt.want {
				t.Errorf("TrendOf(%v) = %+v, want %+v", tt.positions, got, tt.want)
			}
		})
	}
}

func TestTrendString(t *testing.T) {
	if got := (Trend{Kind: TrendSmall, Diff: 2}).String(); got != "➡️ небольшое изменение (+2)" {
		t.Errorf("got %q", got)
	}
	if got := (Trend{}).String(); got != "недостаточно данных" {
		t.Errorf("got %q", got)
	}
}

func TestDelta_Antisymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(1, 100).Draw(t, "a")
		b := rapid.IntRange(1, 100).Draw(t, "b")

		forward, backward := Delta(a, b), Delta(b, a)
		switch {
		case a == b:
			if forward != "=" || backward != "=" {
				t.Fatalf("equal ranks gave %q and %q", forward, backward)
			}
		case forward[0] == '+':
			if backward != "-"+forward[1:] {
				t.Fatalf("Delta(%d,%d)=%q but Delta(%d,%d)=%q", a, b, forward, b, a, backward)
			}
		default:
			if forward != "-"+backward[1:] || backward[0] != '+' {
				t.Fatalf("Delta(%d,%d)=%q but Delta(%d,%d)=%q", a, b, forward, b, a, backward)
			}
		}
	})
}

func TestBuildReport(t *testing.T) {
	history := []domain.PositionCheck{
		{Yandex: 2, Google: 10},
		{Yandex: 6, Google: 10},
		{Yandex: 9, Google: 10},
		{Yandex: 20, Google: 1},
		{Yandex: 20, Google: 1},
		{Yandex: 20, Google: 1},
	}

	report := BuildReport(7, history)
	if report.Checks != 6 || len(report.Recent) != 5 {
		t.Errorf("checks = %d, recent = %d", report.Checks, len(report.Recent))
	}
	if report.Yandex != (Trend{Kind: TrendRise, Diff: 7}) || report.Google.Kind != TrendStable {
		t.Errorf("trends = %+v / %+v", report.Yandex, report.Google)
	}

	short := BuildReport(7, history[:2])
	if short.Yandex.Kind != TrendUnknown {
		t.Errorf("two checks should not produce a trend, got %+v", short.Yandex)
	}
}
