package app

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"tubecert-service/internal/domain"
	"tubecert-service/internal/youtube"
)

// CertificateStore abstracts certificate persistence.
// FindByUserContent reports domain.ErrCertificateNotFound when the
// user holds no certificate for the content. Create inserts the
// certificate unless one already exists for the same (user, content)
// pair, in which case it returns the existing record with created
// false; implementations are expected to make this race-safe.
type CertificateStore interface {
	FindByUserContent(ctx context.Context, userID, videoID, playlistID string) (domain.Certificate, error)
	Create(ctx context.Context, cert domain.Certificate) (domain.Certificate, bool, error)
	Get(ctx context.Context, id string) (domain.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error)
	UpdateUserName(ctx context.Context, id, userName string) error
}

// CertificateService grades submissions and guards certificate issuance.
type CertificateService struct {
	quizzes QuizStore
	certs   CertificateStore
	now     func() time.Time
	newID   func() string
}

func NewCertificateService(quizzes QuizStore, certs CertificateStore) *CertificateService {
	return &CertificateService{
		quizzes: quizzes,
		certs:   certs,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// NewCertificateServiceWithClock is test-only for deterministic timestamps and IDs.
func NewCertificateServiceWithClock(quizzes QuizStore, certs CertificateStore, now func() time.Time, newID func() string) *CertificateService {
	return &CertificateService{quizzes: quizzes, certs: certs, now: now, newID: newID}
}

// Validate recomputes the score for a submission against the stored
// unredacted quiz content and, on a pass, issues or fetches the
// caller's certificate. Answers are keyed by question index; missing
// or unrecognized indices simply do not count as correct.
func (s *CertificateService) Validate(ctx context.Context, userID, displayName, rawURL string, answers map[int]string) (domain.ValidationResult, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || answers == nil {
		return domain.ValidationResult{}, domain.ErrInvalidPayload
	}

	videoID, playlistID := youtube.ExtractIDs(rawURL)
	if videoID == "" && playlistID == "" {
		return domain.ValidationResult{}, domain.ErrInvalidURL
	}

	record, err := s.quizzes.Get(ctx, youtube.CacheKey(videoID, playlistID, rawURL))
	if err != nil {
		return domain.ValidationResult{}, err
	}
	if len(record.MCQs) == 0 || record.Title == "" {
		return domain.ValidationResult{}, domain.ErrInvalidQuizData
	}

	correct := 0
	for i, q := range record.MCQs {
		if q.Answer != "" && answers[i] == q.Answer {
			correct++
		}
	}
	total := len(record.MCQs)
	if total < 1 {
		total = 1
	}
	score := int(math.Round(float64(correct) / float64(total) * 100))

	result := domain.ValidationResult{
		Passed:     score >= domain.PassThreshold,
		Score:      score,
		VideoTitle: record.Title,
	}
	if !result.Passed {
		return result, nil
	}

	cert, existed, err := s.issueOrFetch(ctx, userID, displayName, videoID, playlistID, record.Title, score)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	result.CertificateID = cert.ID
	result.AlreadyIssued = existed
	return result, nil
}

// issueOrFetch enforces at-most-one certificate per user per content.
// Playlist ID takes precedence over video ID, mirroring extraction.
func (s *CertificateService) issueOrFetch(ctx context.Context, userID, displayName, videoID, playlistID, videoTitle string, score int) (domain.Certificate, bool, error) {
	existing, err := s.certs.FindByUserContent(ctx, userID, videoID, playlistID)
	if err == nil {
		return existing, true, nil
	}
	if err != domain.ErrCertificateNotFound {
		return domain.Certificate{}, false, err
	}

	cert := domain.Certificate{
		ID:           s.newID(),
		UserID:       userID,
		UserName:     displayName,
		VideoTitle:   videoTitle,
		VideoID:      videoID,
		PlaylistID:   playlistID,
		IssueDate:    s.now().UTC(),
		Score:        score,
		ServerIssued: true,
	}
	if playlistID != "" {
		cert.VideoID = ""
	}

	stored, created, err := s.certs.Create(ctx, cert)
	if err != nil {
		return domain.Certificate{}, false, err
	}
	return stored, !created, nil
}

// ListByUser returns the caller's certificates.
func (s *CertificateService) ListByUser(ctx context.Context, userID string) ([]domain.Certificate, error) {
	return s.certs.ListByUser(ctx, userID)
}

// PublicView returns the minimal certificate shape for anonymous verification.
func (s *CertificateService) PublicView(ctx context.Context, id string) (domain.CertificatePublicView, error) {
	cert, err := s.certs.Get(ctx, id)
	if err != nil {
		return domain.CertificatePublicView{}, err
	}
	return cert.PublicView(), nil
}

// Rename updates the display name on a certificate. Only the owner may
// rename, and only server-issued certificates are editable.
func (s *CertificateService) Rename(ctx context.Context, id, userID, userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return domain.ErrInvalidPayload
	}
	cert, err := s.certs.Get(ctx, id)
	if err != nil {
		return err
	}
	if cert.UserID != userID {
		return domain.ErrNotOwner
	}
	if !cert.ServerIssued {
		return domain.ErrNotServerIssued
	}
	return s.certs.UpdateUserName(ctx, id, userName)
}
