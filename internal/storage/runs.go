package storage

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultRunsLimit = 50

	// fixed-width so lexical order matches time order
	runTimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// records a finished run
func (c *Client) SaveRun(ctx context.Context, r RunRecord) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	if _, err := c.db.ExecContext(ctx, insertRunQuery,
		r.ID, r.SessionID, r.Prompt, r.Provider, r.Model, r.Success, r.Attempts,
		r.FinalCode, r.FinalError, r.CreatedAt.UTC().Format(runTimestampLayout),
	); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// returns a page of runs, newest first
func (c *Client) ListRuns(ctx context.Context, limit, offset int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	if offset < 0 {
		offset = 0
	}

	rows, err := c.db.QueryContext(ctx, listRunsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	defer rows.Close() //nolint:errcheck

	runs := []RunRecord{}
	for rows.Next() {
		var (
			r         RunRecord
			createdAt string
		)

		if err := rows.Scan(&r.ID, &r.SessionID, &r.Prompt, &r.Provider, &r.Model,
			&r.Success, &r.Attempts, &r.FinalCode, &r.FinalError, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if r.CreatedAt, err = time.Parse(runTimestampLayout, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		runs = append(runs, r)
	}

	return runs, rows.Err()
}

func (c *Client) CountRuns(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, countRunsQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}

	return n, nil
}
