package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

func (c *Client) GetSetting(ctx context.Context, key string) (string, error) {
	var value string

	err := c.db.QueryRowContext(ctx, getSettingQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, nil
}

// stores a setting; an empty value deletes it
func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	if value == "" {
		if _, err := c.db.ExecContext(ctx, deleteSettingQuery, key); err != nil {
			return fmt.Errorf("failed to delete setting %q: %w", key, err)
		}
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := c.db.ExecContext(ctx, upsertSettingQuery, key, value, now); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}

	return nil
}

// writes several settings atomically
func (c *Client) SetSettings(ctx context.Context, values map[string]string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	return c.inTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			var err error
			if value == "" {
				_, err = tx.ExecContext(ctx, deleteSettingQuery, key)
			} else {
				_, err = tx.ExecContext(ctx, upsertSettingQuery, key, value, now)
			}

			if err != nil {
				return fmt.Errorf("failed to save setting %q: %w", key, err)
			}
		}

		return nil
	})
}

// returns all stored settings
func (c *Client) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := c.db.QueryContext(ctx, listSettingsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	defer rows.Close() //nolint:errcheck

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[key] = value
	}

	return settings, rows.Err()
}
