package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_kyc_documents",
		SQL: `CREATE TABLE IF NOT EXISTS kyc_documents (
  id                   UUID        PRIMARY KEY,
  owner_id             TEXT        NOT NULL,
  document_type        TEXT        NOT NULL,
  document_name        TEXT        NOT NULL DEFAULT '',
  document_number      TEXT        NOT NULL DEFAULT '',
  file_name            TEXT        NOT NULL,
  original_file_name   TEXT        NOT NULL,
  file_path            TEXT        NOT NULL,
  file_size            BIGINT      NOT NULL CHECK (file_size >= 0),
  mime_type            TEXT        NOT NULL,
  status               TEXT        NOT NULL DEFAULT 'pending',
  verified_by          TEXT,
  verified_at          TIMESTAMPTZ,
  verification_remarks TEXT        NOT NULL DEFAULT '',
  review_draft_history JSONB       NOT NULL DEFAULT '[]'::jsonb,
  expiry_date          TIMESTAMPTZ,
  is_active            BOOLEAN     NOT NULL DEFAULT TRUE,
  deleted_at           TIMESTAMPTZ,
  deleted_by           TEXT,
  version              INTEGER     NOT NULL DEFAULT 1,
  previous_versions    JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_kyc_documents_owner_active",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_kyc_documents_owner_active ON kyc_documents (owner_id, is_active);`,
	},
	{
		Name: "create_index_kyc_documents_status_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_kyc_documents_status_type ON kyc_documents (status, document_type) WHERE is_active;`,
	},
	{
		Name: "create_table_kyc_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS kyc_profiles (
  id                    UUID        PRIMARY KEY,
  owner_id              TEXT        NOT NULL UNIQUE,
  status                TEXT        NOT NULL DEFAULT 'not_started',
  completion_percentage INTEGER     NOT NULL DEFAULT 0 CHECK (completion_percentage BETWEEN 0 AND 100),
  required_documents    JSONB       NOT NULL,
  verified_by           TEXT,
  verified_at           TIMESTAMPTZ,
  verification_remarks  TEXT        NOT NULL DEFAULT '',
  kyc_expiry_date       TIMESTAMPTZ,
  last_submitted_at     TIMESTAMPTZ,
  rejection_reason      TEXT        NOT NULL DEFAULT '',
  rejection_details     JSONB       NOT NULL DEFAULT '[]'::jsonb,
  is_active             BOOLEAN     NOT NULL DEFAULT TRUE,
  version               INTEGER     NOT NULL DEFAULT 1,
  created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_kyc_profiles_expiry",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_kyc_profiles_expiry ON kyc_profiles (kyc_expiry_date) WHERE status = 'verified';`,
	},
}

// EnsureMigrated checks if the kyc_profiles table exists and runs migrations if it doesn't.
// Every step is idempotent, so a partially applied schema is completed on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *slog.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('public.kyc_profiles') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
