package metrics

import (
	"math"

	"pnlpulse/internal/ledger"
)

// Compute derives the summary statistics and the month-aggregated PNL
// table for one client's series. It is a pure function; callers may
// invoke it on every selection change without caching.
func Compute(series ledger.PnlSeries) (Summary, []MonthlyPNL) {
	return Summarize(series), MonthlyTotals(series)
}

// Summarize computes the fixed statistics record for a series.
func Summarize(series ledger.PnlSeries) Summary {
	var s Summary
	n := len(series)
	if n == 0 {
		return s
	}

	var (
		winStreak, lossStreak int
		cumulative            float64
		highWaterMark         = math.Inf(-1)
	)
	for _, e := range series {
		s.TotalPNL += e.PNL

		switch {
		case e.PNL > 0:
			s.WinDays++
			s.TotalProfitOnWinDays += e.PNL
			if e.PNL > s.MaxProfit {
				s.MaxProfit = e.PNL
			}
			winStreak++
			lossStreak = 0
		case e.PNL < 0:
			s.LossDays++
			s.TotalLossOnLossDays += e.PNL
			if e.PNL < s.MaxLoss {
				s.MaxLoss = e.PNL
			}
			lossStreak++
			winStreak = 0
		default:
			// A flat day breaks both streaks.
			winStreak, lossStreak = 0, 0
		}
		if winStreak > s.MaxWinningStreak {
			s.MaxWinningStreak = winStreak
		}
		if lossStreak > s.MaxLosingStreak {
			s.MaxLosingStreak = lossStreak
		}

		cumulative += e.PNL
		if cumulative > highWaterMark {
			highWaterMark = cumulative
		}
		drawdown := cumulative - highWaterMark
		if drawdown < s.MaxDrawdown {
			s.MaxDrawdown = drawdown
		}
		s.CurrentDrawdown = drawdown
	}

	s.WinRatio = float64(s.WinDays) / float64(n) * 100
	s.LossRatio = float64(s.LossDays) / float64(n) * 100
	if s.WinDays > 0 {
		s.AvgProfitOnWinDays = s.TotalProfitOnWinDays / float64(s.WinDays)
	}
	if s.LossDays > 0 {
		s.AvgLossOnLossDays = s.TotalLossOnLossDays / float64(s.LossDays)
	}
	if s.AvgLossOnLossDays != 0 {
		s.RiskReward = math.Abs(s.AvgProfitOnWinDays / s.AvgLossOnLossDays)
	}
	s.Expectancy = (s.WinRatio/100)*s.AvgProfitOnWinDays + (s.LossRatio/100)*s.AvgLossOnLossDays

	return s
}

// EquityCurve computes the per-day cumulative PNL, high-water mark, and
// drawdown series behind the dashboard's two charts.
func EquityCurve(series ledger.PnlSeries) []EquityPoint {
	if len(series) == 0 {
		return nil
	}
	curve := make([]EquityPoint, len(series))
	var cumulative float64
	highWaterMark := math.Inf(-1)
	for i, e := range series {
		cumulative += e.PNL
		if cumulative > highWaterMark {
			highWaterMark = cumulative
		}
		curve[i] = EquityPoint{
			Date:          e.Date,
			Cumulative:    cumulative,
			HighWaterMark: highWaterMark,
			Drawdown:      cumulative - highWaterMark,
		}
	}
	return curve
}

// MonthlyTotals groups the series by calendar month and sums each group,
// keeping months in first-encounter order.
func MonthlyTotals(series ledger.PnlSeries) []MonthlyPNL {
	totals := make([]MonthlyPNL, 0)
	index := make(map[string]int)
	for _, e := range series {
		key := e.Date.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, MonthlyPNL{Month: key})
		}
		totals[i].Total += e.PNL
	}
	return totals
}
