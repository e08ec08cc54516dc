package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid builds the canonical two-header-row layout used across these tests:
// row 0 carries the client names, row 1 the "Daily PNL" labels.
func grid(dataRows ...[]any) RawTable {
	raw := RawTable{
		{"Date", "Alice", "Bob"},
		{"", "Daily PNL", "Daily PNL"},
	}
	return append(raw, dataRows...)
}

func TestValidateLayout(t *testing.T) {
	assert.NoError(t, ValidateLayout(grid()))
	assert.ErrorIs(t, ValidateLayout(RawTable{{"Date"}}), ErrTooFewRows)
	assert.ErrorIs(t, ValidateLayout(RawTable{}), ErrTooFewRows)
}

func TestClients(t *testing.T) {
	t.Run("dedup and sort", func(t *testing.T) {
		raw := RawTable{
			{"Date", "Zed", "Alice", "Day", "Zed", "Month", "Bob"},
			{"", "Daily PNL", "Daily PNL", "", "Daily PNL", "", "Daily PNL"},
		}
		assert.Equal(t, []string{"Alice", "Bob", "Zed"}, Clients(raw))
	})

	t.Run("reserved labels excluded", func(t *testing.T) {
		raw := RawTable{{"Date", "Day", "Month"}}
		assert.Empty(t, Clients(raw))
	})

	t.Run("non-string header cells skipped", func(t *testing.T) {
		raw := RawTable{{"Date", 42.0, nil, "Carol"}}
		assert.Equal(t, []string{"Carol"}, Clients(raw))
	})

	t.Run("numeric-string names stay clients", func(t *testing.T) {
		// The formatted-values API hands every header back as a string;
		// a client named "2024" must not be promoted to a number.
		raw := RawTable{
			{"Date", "2024", "Alice"},
			{"", "Daily PNL", "Daily PNL"},
		}
		assert.Equal(t, []string{"2024", "Alice"}, Clients(raw))
	})

	t.Run("empty grid", func(t *testing.T) {
		assert.Nil(t, Clients(RawTable{}))
	})
}

func TestNormalize(t *testing.T) {
	t.Run("clean rows", func(t *testing.T) {
		raw := grid(
			[]any{"2024-01-02", 100.0, -5.0},
			[]any{"2024-01-03", "-40", 10.0},
		)
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 100.0, series[0].PNL)
		assert.Equal(t, -40.0, series[1].PNL)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), series[0].Date)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := Normalize(grid(), "Mallory")
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("header-only grid yields empty series", func(t *testing.T) {
		series, err := Normalize(grid(), "Alice")
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("too few rows", func(t *testing.T) {
		_, err := Normalize(RawTable{{"Date", "Alice"}}, "Alice")
		assert.ErrorIs(t, err, ErrTooFewRows)
	})

	t.Run("unparsable rows dropped silently", func(t *testing.T) {
		raw := grid(
			[]any{"2024-01-02", 10.0, 1.0},
			[]any{"bogus date", 20.0, 2.0},  // bad date
			[]any{"2024-01-03", "n/a", 3.0}, // bad value for Alice
			[]any{"2024-01-04", nil, 4.0},   // missing value
			[]any{"2024-01-05"},             // short row
			[]any{},                         // empty row
			[]any{"2024-01-06", 30.0, 6.0},
		)
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 10.0, series[0].PNL)
		assert.Equal(t, 30.0, series[1].PNL)
	})

	t.Run("rows sorted ascending by date", func(t *testing.T) {
		raw := grid(
			[]any{"2024-03-01", 3.0, 0.0},
			[]any{"2024-01-01", 1.0, 0.0},
			[]any{"2024-02-01", 2.0, 0.0},
		)
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 3)
		assert.True(t, series[0].Date.Before(series[1].Date))
		assert.True(t, series[1].Date.Before(series[2].Date))
		assert.Equal(t, []float64{1, 2, 3}, []float64{series[0].PNL, series[1].PNL, series[2].PNL})
	})

	t.Run("duplicate dates keep row order", func(t *testing.T) {
		raw := grid(
			[]any{"2024-01-02", 1.0, 0.0},
			[]any{"2024-01-02", 2.0, 0.0},
		)
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 1.0, series[0].PNL)
		assert.Equal(t, 2.0, series[1].PNL)
	})

	t.Run("first matching column wins", func(t *testing.T) {
		raw := RawTable{
			{"Date", "Alice", "Alice"},
			{"", "Daily PNL", "Daily PNL"},
			{"2024-01-02", 10.0, 99.0},
		}
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.Equal(t, 10.0, series[0].PNL)
	})

	t.Run("numeric-string client name", func(t *testing.T) {
		raw := RawTable{
			{"Date", "2024"},
			{"", "Daily PNL"},
			{"2024-01-02", 15.0},
		}
		series, err := Normalize(raw, "2024")
		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.Equal(t, 15.0, series[0].PNL)
	})

	t.Run("column without Daily PNL label skipped", func(t *testing.T) {
		raw := RawTable{
			{"Date", "Alice", "Alice"},
			{"", "Notes", "Daily PNL"},
			{"2024-01-02", "flat day", 25.0},
		}
		series, err := Normalize(raw, "Alice")
		require.NoError(t, err)
		require.Len(t, series, 1)
		assert.Equal(t, 25.0, series[0].PNL)
	})
}
