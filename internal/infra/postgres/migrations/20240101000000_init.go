package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

const createQuizCacheSQL = `
CREATE TABLE IF NOT EXISTS quiz_cache (
	key  TEXT PRIMARY KEY,
	data JSONB NOT NULL
);
`

const createCertificatesSQL = `
CREATE TABLE IF NOT EXISTS certificates (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	user_name     TEXT NOT NULL,
	video_title   TEXT NOT NULL,
	video_id      TEXT,
	playlist_id   TEXT,
	issue_date    TIMESTAMPTZ NOT NULL,
	score         INTEGER NOT NULL,
	server_issued BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE UNIQUE INDEX IF NOT EXISTS certificates_user_video_uq
	ON certificates (user_id, video_id) WHERE video_id IS NOT NULL;
CREATE UNIQUE INDEX IF NOT EXISTS certificates_user_playlist_uq
	ON certificates (user_id, playlist_id) WHERE playlist_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS certificates_user_idx ON certificates (user_id);
`

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, createQuizCacheSQL); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, createCertificatesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS certificates`); err != nil {
				return err
			}
			_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS quiz_cache`)
			return err
		},
	)
}
