package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tubecert-service/internal/domain"
)

// CertificateStore persists certificates. Partial unique indexes on
// (user_id, video_id) and (user_id, playlist_id) back the idempotency
// guard, so two racing passing submissions cannot both insert.
type CertificateStore struct {
	pool *pgxpool.Pool
}

func NewCertificateStore(pool *pgxpool.Pool) *CertificateStore {
	return &CertificateStore{pool: pool}
}

const certificateColumns = `id, user_id, user_name, video_title, video_id, playlist_id, issue_date, score, server_issued`

func (s *CertificateStore) FindByUserContent(ctx context.Context, userID, videoID, playlistID string) (domain.Certificate, error) {
	var (
		query string
		arg   string
	)
	switch {
	case playlistID != "":
		query = `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id=$1 AND playlist_id=$2 LIMIT 1`
		arg = playlistID
	case videoID != "":
		query = `SELECT ` + certificateColumns + ` FROM certificates WHERE user_id=$1 AND video_id=$2 LIMIT 1`
		arg = videoID
	default:
		return domain.Certificate{}, domain.ErrCertificateNotFound
	}
	return s.scanOne(s.pool.QueryRow(ctx, query, userID, arg))
}

func (s *CertificateStore) Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO certificates (`+certificateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT DO NOTHING`,
		cert.ID, cert.UserID, cert.UserName, cert.VideoTitle,
		nullable(cert.VideoID), nullable(cert.PlaylistID),
		cert.IssueDate, cert.Score, cert.ServerIssued)
	if err != nil {
		return domain.Certificate{}, false, fmt.Errorf("insert certificate: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return cert, true, nil
	}
	// Lost the race; hand back whoever won.
	existing, err := s.FindByUserContent(ctx, cert.UserID, cert.VideoID, cert.PlaylistID)
	if err != nil {
		return domain.Certificate{}, false, fmt.Errorf("reload certificate after conflict: %w", err)
	}
	return existing, false, nil
}

func (s *CertificateStore) Get(ctx context.Context, id string) (domain.Certificate, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE id=$1`, id))
}

func (s *CertificateStore) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+certificateColumns+` FROM certificates WHERE user_id=$1 ORDER BY issue_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	defer rows.Close()

	var certs []domain.Certificate
	for rows.Next() {
		cert, err := s.scanOne(rows)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	return certs, rows.Err()
}

func (s *CertificateStore) UpdateUserName(ctx context.Context, id, userName string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE certificates SET user_name=$2 WHERE id=$1`, id, userName)
	if err != nil {
		return fmt.Errorf("update certificate name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCertificateNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *CertificateStore) scanOne(row rowScanner) (domain.Certificate, error) {
	var (
		issued              time.Time
		c                   domain.Certificate
		videoID, playlistID sql.NullString
	)
	err := row.Scan(&c.ID, &c.UserID, &c.UserName, &c.VideoTitle, &videoID, &playlistID, &issued, &c.Score, &c.ServerIssued)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Certificate{}, domain.ErrCertificateNotFound
	}
	if err != nil {
		return domain.Certificate{}, fmt.Errorf("scan certificate: %w", err)
	}
	c.IssueDate = issued
	c.VideoID = videoID.String
	c.PlaylistID = playlistID.String
	return c, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
