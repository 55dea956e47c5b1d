package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateContactsTable, downCreateContactsTable)
}

func upCreateContactsTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE contacts (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  name TEXT NOT NULL,
	  email TEXT NOT NULL DEFAULT '',
	  phone TEXT NOT NULL DEFAULT '',
	  favorite BOOLEAN NOT NULL DEFAULT FALSE,
	  owner UUID NOT NULL REFERENCES users (id),
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_contacts_owner ON contacts (owner, created_at);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateContactsTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS contacts;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
