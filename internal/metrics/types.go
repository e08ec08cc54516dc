package metrics

import (
	"time"
)

// Summary is the fixed set of statistics derived from one PNL series.
// All fields default to zero for the empty series and for empty
// win/loss subsets.
type Summary struct {
	TotalPNL             float64 `json:"total_pnl"`
	WinDays              int     `json:"win_days"`
	LossDays             int     `json:"loss_days"`
	WinRatio             float64 `json:"win_ratio_pct"`
	LossRatio            float64 `json:"loss_ratio_pct"`
	AvgProfitOnWinDays   float64 `json:"avg_profit_on_win_days"`
	AvgLossOnLossDays    float64 `json:"avg_loss_on_loss_days"`
	TotalProfitOnWinDays float64 `json:"total_profit_on_win_days"`
	TotalLossOnLossDays  float64 `json:"total_loss_on_loss_days"`
	MaxProfit            float64 `json:"max_profit"`
	MaxLoss              float64 `json:"max_loss"`
	MaxDrawdown          float64 `json:"max_drawdown"`
	CurrentDrawdown      float64 `json:"current_drawdown"`
	MaxWinningStreak     int     `json:"max_winning_streak_days"`
	MaxLosingStreak      int     `json:"max_losing_streak_days"`
	RiskReward           float64 `json:"risk_reward"`
	Expectancy           float64 `json:"expectancy"`
}

// EquityPoint is one point of the cumulative PNL curve together with its
// running high-water mark and drawdown. Drawdown is never positive.
type EquityPoint struct {
	Date          time.Time `json:"date"`
	Cumulative    float64   `json:"cumulative"`
	HighWaterMark float64   `json:"high_water_mark"`
	Drawdown      float64   `json:"drawdown"`
}

// MonthlyPNL is the PNL total for one calendar month, keyed "YYYY-MM".
// Months appear in the order their first entry occurs in the series,
// which is chronological because the series is date-sorted.
type MonthlyPNL struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}
