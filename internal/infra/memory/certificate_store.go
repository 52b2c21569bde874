package memory

import (
	"context"
	"sync"

	"tubecert-service/internal/domain"
)

// CertificateStore is an in-memory implementation of app.CertificateStore.
// The mutex spans lookup and insert in Create, so the idempotency guard
// holds even under concurrent passing submissions.
type CertificateStore struct {
	mu    sync.RWMutex
	certs map[string]domain.Certificate
}

func NewCertificateStore() *CertificateStore {
	return &CertificateStore{certs: make(map[string]domain.Certificate)}
}

func (s *CertificateStore) FindByUserContent(_ context.Context, userID, videoID, playlistID string) (domain.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cert, ok := s.findLocked(userID, videoID, playlistID); ok {
		return cert, nil
	}
	return domain.Certificate{}, domain.ErrCertificateNotFound
}

func (s *CertificateStore) Create(_ context.Context, cert domain.Certificate) (domain.Certificate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.findLocked(cert.UserID, cert.VideoID, cert.PlaylistID); ok {
		return existing, false, nil
	}
	s.certs[cert.ID] = cert
	return cert, true, nil
}

func (s *CertificateStore) Get(_ context.Context, id string) (domain.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[id]
	if !ok {
		return domain.Certificate{}, domain.ErrCertificateNotFound
	}
	return cert, nil
}

func (s *CertificateStore) ListByUser(_ context.Context, userID string) ([]domain.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Certificate
	for _, cert := range s.certs {
		if cert.UserID == userID {
			out = append(out, cert)
		}
	}
	return out, nil
}

func (s *CertificateStore) UpdateUserName(_ context.Context, id, userName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.certs[id]
	if !ok {
		return domain.ErrCertificateNotFound
	}
	cert.UserName = userName
	s.certs[id] = cert
	return nil
}

// Count is test-only.
func (s *CertificateStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.certs)
}

func (s *CertificateStore) findLocked(userID, videoID, playlistID string) (domain.Certificate, bool) {
	for _, cert := range s.certs {
		if cert.UserID != userID {
			continue
		}
		if playlistID != "" && cert.PlaylistID == playlistID {
			return cert, true
		}
		if playlistID == "" && videoID != "" && cert.VideoID == videoID {
			return cert, true
		}
	}
	return domain.Certificate{}, false
}
