package sheets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// Column layout of the schedule sheet. The first row is a header.
const (
	colDate     = 0
	colAuthor   = 1
	colDuration = 4
	colCategory = 5
	colLevel    = 6
	colURL      = 7
	colComment  = 8
)

// cell returns the trimmed string value of row[i], or "" when the row is
// shorter than i+1 (the API omits trailing empty cells).
func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func rowToVideo(row []interface{}) domain.Video {
	level, _ := strconv.Atoi(cell(row, colLevel)) // free-text cell; 0 when unparseable
	return domain.Video{
		Date:     cell(row, colDate),
		Author:   cell(row, colAuthor),
		Duration: cell(row, colDuration),
		Category: cell(row, colCategory),
		Level:    level,
		URL:      cell(row, colURL),
		Comment:  cell(row, colComment),
	}
}

// parseRows converts raw sheet values to videos, skipping the header row.
func parseRows(rows [][]interface{}) []domain.Video {
	if len(rows) < 2 {
		return nil
	}
	videos := make([]domain.Video, 0, len(rows)-1)
	for _, row := range rows[1:] {
		videos = append(videos, rowToVideo(row))
	}
	return videos
}

// findByDate returns the first row dated date, header excluded. The sheet
// occasionally contains duplicate dates; first match wins.
func findByDate(rows [][]interface{}, date string) (domain.Video, bool) {
	if len(rows) < 2 {
		return domain.Video{}, false
	}
	for _, row := range rows[1:] {
		if cell(row, colDate) == date {
			return rowToVideo(row), true
		}
	}
	return domain.Video{}, false
}
