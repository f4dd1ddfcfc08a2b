package datafeed

import (
	"context"
	"fmt"
	"time"
)

// TickPath returns the path of the hourly tick file for pair at hour.
func TickPath(pair string, hour time.Time) string {
	return fmt.Sprintf("/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		pair,
		hour.Year(),
		int(hour.Month())-1,
		hour.Day(),
		hour.Hour(),
	)
}

// TickURL returns the absolute URL of the hourly tick file.
func (c *Client) TickURL(pair string, hour time.Time) string {
	return c.baseURL + TickPath(pair, hour)
}

// Fetch downloads the raw .bi5 payload for pair at hour.
func (c *Client) Fetch(ctx context.Context, pair string, hour time.Time) ([]byte, error) {
	if pair == "" {
		return nil, fmt.Errorf("fetch ticks: empty pair")
	}
	if hour.IsZero() {
		return nil, fmt.Errorf("fetch ticks: zero hour")
	}

	body, err := c.doWithRetry(ctx, c.TickURL(pair, hour))
	if err != nil {
		return nil, fmt.Errorf("fetch ticks %s %s: %w", pair, hour.Format("2006-01-02T15"), err)
	}

	c.logger.Debug("fetched tick file",
		"pair", pair,
		"hour", hour,
		"bytes", len(body),
	)
	return body, nil
}
