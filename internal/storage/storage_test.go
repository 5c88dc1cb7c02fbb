package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c, err := NewClient(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestMigrationsApplied(t *testing.T) {
	c := newTestClient(t)

	versions, err := c.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)

	// re-running is a no-op
	require.NoError(t, c.migrate(context.Background()))
	versions, err = c.AppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, versions)
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c, err := NewClient(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, c.SetSetting(ctx, SettingDefaultProvider, "gemini"))
	require.NoError(t, c.Close())

	reopened, err := NewClient(ctx, dir)
	require.NoError(t, err)
	defer reopened.Close() //nolint:errcheck

	value, err := reopened.GetSetting(ctx, SettingDefaultProvider)
	require.NoError(t, err)
	assert.Equal(t, "gemini", value)
}

func TestScriptCRUD(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateScript(ctx, Script{
		Name:   "Fade in",
		Prompt: "fade in the selected layer",
		Code:   "var comp = app.project.activeItem;",
		Tags:   []string{"opacity", "keyframes"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := c.GetScript(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Name = "Fade in (1s)"
	got.Tags = nil
	updated, err := c.UpdateScript(ctx, *got)
	require.NoError(t, err)
	assert.Equal(t, "Fade in (1s)", updated.Name)
	assert.Equal(t, []string{}, updated.Tags)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	list, err := c.ListScripts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	require.NoError(t, c.DeleteScript(ctx, created.ID))

	_, err = c.GetScript(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScriptNotFound(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetScript(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.UpdateScript(ctx, Script{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, c.DeleteScript(ctx, "missing"), ErrNotFound)
}

func TestScriptRequiresName(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateScript(context.Background(), Script{Code: "var a;"})
	assert.Error(t, err)
}

func TestListScriptsEmpty(t *testing.T) {
	c := newTestClient(t)

	list, err := c.ListScripts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSettings(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetSetting(ctx, SettingDefaultModel)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.SetSetting(ctx, SettingDefaultModel, "gpt-4o"))
	require.NoError(t, c.SetSetting(ctx, SettingDefaultModel, "gpt-4.1"))

	value, err := c.GetSetting(ctx, SettingDefaultModel)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", value)

	require.NoError(t, c.SetSettings(ctx, map[string]string{
		SettingDefaultProvider: "openai",
		SettingMaxRetries:      "4",
		SettingDefaultModel:    "",
	}))

	all, err := c.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		SettingDefaultProvider: "openai",
		SettingMaxRetries:      "4",
	}, all)
}

func TestRuns(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, ok := range []bool{true, false, true} {
		require.NoError(t, c.SaveRun(ctx, RunRecord{
			ID:        string(rune('a' + i)),
			SessionID: "s1",
			Prompt:    "p",
			Provider:  "anthropic",
			Success:   ok,
			Attempts:  i + 1,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	runs, err := c.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)
	assert.False(t, runs[1].Success)
	assert.Equal(t, 2, runs[1].Attempts)
	assert.True(t, runs[0].CreatedAt.Equal(base.Add(2*time.Millisecond)))

	runs, err = c.ListRuns(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a", runs[0].ID)

	total, err := c.CountRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
