package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeframeRange(t *testing.T) {
	now := time.Date(2025, time.May, 14, 18, 30, 0, 0, time.Local)
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		tf    Timeframe
		start time.Time
		end   time.Time
	}{
		{TimeframeThisMonth, d(2025, time.May, 1), d(2025, time.May, 14)},
		{TimeframeLastMonth, d(2025, time.April, 1), d(2025, time.April, 30)},
		{TimeframeThisQuarter, d(2025, time.April, 1), d(2025, time.May, 14)},
		{TimeframeThisYear, d(2025, time.January, 1), d(2025, time.May, 14)},
		{TimeframeLastYear, d(2024, time.January, 1), d(2024, time.December, 31)},
		{TimeframeAll, epoch, d(2025, time.May, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.tf.String(), func(t *testing.T) {
			start, end := tt.tf.Range(now)

			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestTimeframeRange_LastMonthAcrossYear(t *testing.T) {
	start, end := TimeframeLastMonth.Range(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestArchiveName(t *testing.T) {
	got := ArchiveName(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "export_20250301_20250331.zip", got)
}
