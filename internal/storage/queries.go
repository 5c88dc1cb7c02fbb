package storage

const (
	createSchemaVersionQuery = `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	countMigrationQuery  = "SELECT COUNT(*) FROM schema_version WHERE version = ?"
	insertMigrationQuery = "INSERT INTO schema_version (version) VALUES (?)"
	listMigrationsQuery  = "SELECT version FROM schema_version ORDER BY version ASC"

	insertScriptQuery = `
		INSERT INTO scripts (id, name, prompt, code, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	getScriptQuery = `
		SELECT id, name, prompt, code, tags, created_at, updated_at
		FROM scripts WHERE id = ?
	`
	listScriptsQuery = `
		SELECT id, name, prompt, code, tags, created_at, updated_at
		FROM scripts ORDER BY updated_at DESC, id ASC
	`
	updateScriptQuery = `
		UPDATE scripts SET name = ?, prompt = ?, code = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`
	deleteScriptQuery = "DELETE FROM scripts WHERE id = ?"

	getSettingQuery    = "SELECT value FROM settings WHERE key = ?"
	listSettingsQuery  = "SELECT key, value FROM settings ORDER BY key"
	deleteSettingQuery = "DELETE FROM settings WHERE key = ?"
	upsertSettingQuery = `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	insertRunQuery = `
		INSERT INTO runs (id, session_id, prompt, provider, model, success, attempts, final_code, final_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	listRunsQuery = `
		SELECT id, session_id, prompt, provider, model, success, attempts, final_code, final_error, created_at
		FROM runs ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?
	`

	countRunsQuery = `SELECT COUNT(*) FROM runs`
)
