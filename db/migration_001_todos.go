package db

import "database/sql"

func init() {
	RegisterMigration(Migration{
		Version:     1,
		Description: "Initial schema - create todos table",
		Up:          migration001Todos,
	})
}

func migration001Todos(tx *sql.Tx) error {
	// AUTOINCREMENT guarantees ids are never reused, even after deletes
	_, err := tx.Exec(`
		CREATE TABLE todos (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			details TEXT,
			status TEXT NOT NULL DEFAULT 'not_started',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX idx_todos_status ON todos(status);
		CREATE INDEX idx_todos_created_at ON todos(created_at);
	`)
	return err
}
