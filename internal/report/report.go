package report

import (
	"ChannelTrack-Backend/internal/domain"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentType MIME тип xlsx книги
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	DailySheet   = "daily"
	SummarySheet = "summary"
)

var dailyHeader = []string{"date", "clicks", "conversions", "conversion_rate"}

// DailyFilename имя файла для выгрузки дневной статистики канала
func DailyFilename(channelID int64, days int) string {
	return fmt.Sprintf("channel_%d_daily_%dd.xlsx", channelID, days)
}

// DailyWorkbook строит xlsx книгу с листом по дням и листом с итогами окна.
// Строки идут в том же порядке, что и в stats (свежие дни первыми).
func DailyWorkbook(stats *domain.DailyStats) ([]byte, error) {
	if stats == nil {
		return nil, fmt.Errorf("daily stats is nil")
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), DailySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := dailyHeader
	if err := xl.SetSheetRow(DailySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	var clicks, conversions int64
	for i, st := range stats.Stats {
		record := []interface{}{st.Date, st.Clicks, st.Conversions, st.ConversionRate}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := xl.SetSheetRow(DailySheet, cellRef, &record); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		clicks += st.Clicks
		conversions += st.Conversions
	}

	if _, err := xl.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"channel_id", strconv.FormatInt(stats.ChannelID, 10)},
		{"days", stats.Days},
		{"clicks", clicks},
		{"conversions", conversions},
		{"conversion_rate", domain.ConversionRate(conversions, clicks)},
	}
	for i, row := range summary {
		row := row
		cellRef, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xl.SetSheetRow(SummarySheet, cellRef, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
