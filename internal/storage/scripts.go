package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// saves a new script, assigning its id and timestamps
func (c *Client) CreateScript(ctx context.Context, s Script) (*Script, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("script name is required")
	}

	now := time.Now().UTC().Truncate(time.Second)
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now

	if s.Tags == nil {
		s.Tags = []string{}
	}

	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, insertScriptQuery,
		s.ID, s.Name, s.Prompt, s.Code, string(tags),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	); err != nil {
		return nil, fmt.Errorf("failed to insert script: %w", err)
	}

	return &s, nil
}

func (c *Client) GetScript(ctx context.Context, id string) (*Script, error) {
	s, err := scanScript(c.db.QueryRowContext(ctx, getScriptQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get script: %w", err)
	}

	return s, nil
}

// returns every script, most recently updated first
func (c *Client) ListScripts(ctx context.Context) ([]Script, error) {
	rows, err := c.db.QueryContext(ctx, listScriptsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}

	defer rows.Close() //nolint:errcheck

	scripts := []Script{}
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		scripts = append(scripts, *s)
	}

	return scripts, rows.Err()
}

// replaces a script's editable fields
func (c *Client) UpdateScript(ctx context.Context, s Script) (*Script, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, fmt.Errorf("script name is required")
	}

	if s.Tags == nil {
		s.Tags = []string{}
	}

	tags, err := json.Marshal(s.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)

	res, err := c.db.ExecContext(ctx, updateScriptQuery,
		s.Name, s.Prompt, s.Code, string(tags), now.Format(time.RFC3339), s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update script: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
		return nil, ErrNotFound
	}

	return c.GetScript(ctx, s.ID)
}

func (c *Client) DeleteScript(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, deleteScriptQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 { //nolint:errcheck
		return ErrNotFound
	}

	return nil
}

func scanScript(row rowScanner) (*Script, error) {
	var (
		s                    Script
		tags                 string
		createdAt, updatedAt string
	)

	if err := row.Scan(&s.ID, &s.Name, &s.Prompt, &s.Code, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	var err error
	if s.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	if s.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &s, nil
}
