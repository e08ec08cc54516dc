package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnlpulse/internal/ledger"
)

// seriesOf builds a consecutive-day series starting 2024-01-01.
func seriesOf(pnls ...float64) ledger.PnlSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(ledger.PnlSeries, len(pnls))
	for i, p := range pnls {
		series[i] = ledger.Entry{Date: start.AddDate(0, 0, i), PNL: p}
	}
	return series
}

func TestSummarizeEmptySeries(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, Summary{}, s, "empty series must yield the all-zero record")
}

func TestSummarizeBasicCounts(t *testing.T) {
	s := Summarize(seriesOf(10, -4, 6, 0, -4, 2))

	assert.InDelta(t, 10.0, s.TotalPNL, 1e-9)
	assert.Equal(t, 3, s.WinDays)
	assert.Equal(t, 2, s.LossDays)
	assert.InDelta(t, 50.0, s.WinRatio, 1e-9)
	assert.InDelta(t, 100.0/3.0, s.LossRatio, 1e-9)
	assert.InDelta(t, 18.0, s.TotalProfitOnWinDays, 1e-9)
	assert.InDelta(t, -8.0, s.TotalLossOnLossDays, 1e-9)
	assert.InDelta(t, 6.0, s.AvgProfitOnWinDays, 1e-9)
	assert.InDelta(t, -4.0, s.AvgLossOnLossDays, 1e-9)
	assert.InDelta(t, 10.0, s.MaxProfit, 1e-9)
	assert.InDelta(t, -4.0, s.MaxLoss, 1e-9)
}

func TestSummarizeDrawdowns(t *testing.T) {
	// Cumulative: 10, 6, 12, 8, 4, 6. High-water mark peaks at 12, so the
	// deepest drawdown is -8 and the series ends 6 below the mark.
	s := Summarize(seriesOf(10, -4, 6, -4, -4, 2))

	assert.InDelta(t, -8.0, s.MaxDrawdown, 1e-9)
	assert.InDelta(t, -6.0, s.CurrentDrawdown, 1e-9)
}

func TestSummarizeDrawdownNeverPositive(t *testing.T) {
	s := Summarize(seriesOf(1, 2, 3, 4))
	assert.Zero(t, s.MaxDrawdown)
	assert.Zero(t, s.CurrentDrawdown)
}

func TestSummarizeStreaks(t *testing.T) {
	tests := []struct {
		name     string
		pnls     []float64
		wantWin  int
		wantLoss int
	}{
		{name: "all wins", pnls: []float64{1, 2, 3}, wantWin: 3, wantLoss: 0},
		{name: "all losses", pnls: []float64{-1, -2}, wantWin: 0, wantLoss: 2},
		{name: "alternating", pnls: []float64{1, -1, 1, -1}, wantWin: 1, wantLoss: 1},
		{name: "zero breaks both streaks", pnls: []float64{5, 3, 0, -2, -4}, wantWin: 2, wantLoss: 2},
		{name: "streak resumes after zero", pnls: []float64{1, 1, 0, 1, 1, 1}, wantWin: 3, wantLoss: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(seriesOf(tt.pnls...))
			assert.Equal(t, tt.wantWin, s.MaxWinningStreak, "winning streak")
			assert.Equal(t, tt.wantLoss, s.MaxLosingStreak, "losing streak")
		})
	}
}

func TestSummarizeRiskRewardAndExpectancy(t *testing.T) {
	t.Run("both sides present", func(t *testing.T) {
		s := Summarize(seriesOf(10, -4, 6, -4))
		// avg win 8, avg loss -4, 50/50 split.
		assert.InDelta(t, 2.0, s.RiskReward, 1e-9)
		assert.InDelta(t, 0.5*8+0.5*(-4), s.Expectancy, 1e-9)
	})

	t.Run("no losses leaves risk reward zero", func(t *testing.T) {
		s := Summarize(seriesOf(3, 7))
		assert.Zero(t, s.RiskReward)
		assert.InDelta(t, 5.0, s.Expectancy, 1e-9)
	})

	t.Run("no wins", func(t *testing.T) {
		s := Summarize(seriesOf(-3, -7))
		assert.Zero(t, s.RiskReward)
		assert.InDelta(t, -5.0, s.Expectancy, 1e-9)
	})
}

func TestSummarizeIdempotent(t *testing.T) {
	series := seriesOf(10, -4, 6, 0, -4, 2)
	first := Summarize(series)
	second := Summarize(series)
	assert.Equal(t, first, second)
}

func TestEquityCurve(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		assert.Nil(t, EquityCurve(nil))
	})

	t.Run("cumulative, mark and drawdown", func(t *testing.T) {
		series := seriesOf(10, -4, 6, -4, 2)
		curve := EquityCurve(series)
		require.Len(t, curve, len(series))

		wantCumulative := []float64{10, 6, 12, 8, 10}
		wantMark := []float64{10, 10, 12, 12, 12}
		for i, p := range curve {
			assert.Equal(t, series[i].Date, p.Date)
			assert.InDelta(t, wantCumulative[i], p.Cumulative, 1e-9, "cumulative[%d]", i)
			assert.InDelta(t, wantMark[i], p.HighWaterMark, 1e-9, "mark[%d]", i)
			assert.InDelta(t, p.Cumulative-p.HighWaterMark, p.Drawdown, 1e-9, "drawdown[%d]", i)
			assert.LessOrEqual(t, p.Drawdown, 0.0)
		}
	})

	t.Run("agrees with summary", func(t *testing.T) {
		series := seriesOf(10, -4, 6, -4, -4, 2)
		s := Summarize(series)
		curve := EquityCurve(series)
		require.NotEmpty(t, curve)

		last := curve[len(curve)-1]
		assert.InDelta(t, s.TotalPNL, last.Cumulative, 1e-9)
		assert.InDelta(t, s.CurrentDrawdown, last.Drawdown, 1e-9)

		minDrawdown := 0.0
		for _, p := range curve {
			if p.Drawdown < minDrawdown {
				minDrawdown = p.Drawdown
			}
		}
		assert.InDelta(t, s.MaxDrawdown, minDrawdown, 1e-9)
	})
}

func TestMonthlyTotals(t *testing.T) {
	t.Run("empty series", func(t *testing.T) {
		assert.Empty(t, MonthlyTotals(nil))
	})

	t.Run("groups by month in first-encounter order", func(t *testing.T) {
		series := ledger.PnlSeries{
			{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), PNL: 10},
			{Date: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), PNL: -4},
			{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), PNL: 7},
			{Date: time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), PNL: 1},
		}
		totals := MonthlyTotals(series)
		require.Len(t, totals, 3)
		assert.Equal(t, MonthlyPNL{Month: "2024-01", Total: 6}, totals[0])
		assert.Equal(t, MonthlyPNL{Month: "2024-02", Total: 7}, totals[1])
		assert.Equal(t, MonthlyPNL{Month: "2024-04", Total: 1}, totals[2])
	})

	t.Run("totals sum to total pnl", func(t *testing.T) {
		series := seriesOf(10, -4, 6, -4, 2)
		var sum float64
		for _, m := range MonthlyTotals(series) {
			sum += m.Total
		}
		assert.InDelta(t, Summarize(series).TotalPNL, sum, 1e-9)
	})
}

func TestCompute(t *testing.T) {
	series := seriesOf(10, -4, 6)
	summary, monthly := Compute(series)
	assert.Equal(t, Summarize(series), summary)
	assert.Equal(t, MonthlyTotals(series), monthly)
}
