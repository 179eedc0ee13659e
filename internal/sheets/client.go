// Package sheets adapts the Google Sheets schedule spreadsheet: it is the
// bot's read-only video source and the append-only sink for feedback.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/olboyarshinova/daily-exersises-bot/internal/domain"
)

// feedbackRange is where ratings and comments are appended.
const feedbackRange = "Comments!A:C"

// Client reads the exercise schedule from a Google Sheets spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
	readRange     string
	loc           *time.Location
	log           *zap.Logger
}

// New builds a Sheets client authorized via a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID, readRange string, loc *time.Location, log *zap.Logger) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		loc:           loc,
		log:           log,
	}, nil
}

func (c *Client) fetchRows(ctx context.Context) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %s: %w", c.readRange, err)
	}
	return resp.Values, nil
}

// TodayVideo fetches the schedule and returns the first row whose date
// column equals today's "DD.MM" (wall clock in the configured timezone at
// call time). Returns domain.ErrNoVideoToday when no row matches.
func (c *Client) TodayVideo(ctx context.Context) (domain.Video, error) {
	rows, err := c.fetchRows(ctx)
	if err != nil {
		return domain.Video{}, err
	}
	today := domain.DayKey(time.Now().In(c.loc))
	v, ok := findByDate(rows, today)
	if !ok {
		return domain.Video{}, domain.ErrNoVideoToday
	}
	return v, nil
}

// ListVideos returns every schedule row, header excluded.
func (c *Client) ListVideos(ctx context.Context) ([]domain.Video, error) {
	rows, err := c.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	return parseRows(rows), nil
}

// AppendFeedback appends one (name, video URL, text) row to the Comments
// sheet. Used for both free-text comments and ratings.
func (c *Client) AppendFeedback(ctx context.Context, name, videoURL, text string) error {
	vr := &gsheets.ValueRange{
		Values: [][]interface{}{{name, videoURL, text}},
	}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, feedbackRange, vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append: %w", err)
	}
	c.log.Debug("feedback appended", zap.String("name", name), zap.String("video", videoURL))
	return nil
}
