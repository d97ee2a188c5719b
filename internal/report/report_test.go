package report

import (
	"ChannelTrack-Backend/internal/domain"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDailyWorkbook(t *testing.T) {
	stats := &domain.DailyStats{
		ChannelID: -100123,
		Days:      7,
		Stats: []domain.DailyStat{
			{Date: "2026-10-16", Clicks: 4, Conversions: 1, ConversionRate: 25},
			{Date: "2026-10-15", Clicks: 2, Conversions: 0, ConversionRate: 0},
		},
	}

	data, err := DailyWorkbook(stats)
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(DailySheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, dailyHeader, rows[0])
	assert.Equal(t, []string{"2026-10-16", "4", "1", "25"}, rows[1])
	assert.Equal(t, "2026-10-15", rows[2][0])

	summary, err := xl.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, []string{"channel_id", "-100123"}, summary[0])
	assert.Equal(t, []string{"clicks", "6"}, summary[2])
	assert.Equal(t, []string{"conversion_rate", "16.67"}, summary[4])
}

func TestDailyWorkbook_Empty(t *testing.T) {
	data, err := DailyWorkbook(&domain.DailyStats{ChannelID: 1, Days: 30})
	require.NoError(t, err)

	xl, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(DailySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = DailyWorkbook(nil)
	assert.Error(t, err)
}

func TestDailyFilename(t *testing.T) {
	assert.Equal(t, "channel_5_daily_30d.xlsx", DailyFilename(5, 30))
}
