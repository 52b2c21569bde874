package app

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"tubecert-service/internal/domain"
	"tubecert-service/internal/youtube"
)

// maxQuestions caps how many generated questions end up in a quiz.
const maxQuestions = 20

// QuizStore abstracts quiz content persistence (Postgres, memory).
// Get reports domain.ErrQuizNotFound for unknown keys so callers can
// distinguish "not yet generated" from a backend failure. Put is an
// unconditional full replace.
type QuizStore interface {
	Get(ctx context.Context, key string) (domain.QuizRecord, error)
	Put(ctx context.Context, key string, record domain.QuizRecord) error
}

// ContentTitles is what the title resolver returns for a video or
// playlist: all titles feeding generation plus the one shown on the
// quiz and certificate.
type ContentTitles struct {
	Titles       []string
	DisplayTitle string
}

// TitleResolver looks up content titles upstream (YouTube Data API).
type TitleResolver interface {
	Resolve(ctx context.Context, videoID, playlistID string) (ContentTitles, error)
}

// MCQGenerator produces quiz questions for a content title (Gemini).
type MCQGenerator interface {
	GenerateMCQs(ctx context.Context, title string) ([]domain.MCQ, error)
}

// QuizService owns the quiz fetch-or-generate workflow.
type QuizService struct {
	store     QuizStore
	titles    TitleResolver
	generator MCQGenerator
	sf        singleflight.Group
}

func NewQuizService(store QuizStore, titles TitleResolver, generator MCQGenerator) *QuizService {
	return &QuizService{store: store, titles: titles, generator: generator}
}

// GetQuizForURL resolves a YouTube URL to its redacted quiz, generating
// and storing content on a cache miss. Concurrent misses for the same
// key are collapsed into a single upstream generation.
func (s *QuizService) GetQuizForURL(ctx context.Context, rawURL string) (domain.QuizView, error) {
	videoID, playlistID := youtube.ExtractIDs(rawURL)
	if videoID == "" && playlistID == "" {
		return domain.QuizView{}, domain.ErrInvalidURL
	}

	key := youtube.CacheKey(videoID, playlistID, rawURL)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		record, err := s.store.Get(ctx, key)
		if err == nil {
			return record, nil
		}
		if err != domain.ErrQuizNotFound {
			return domain.QuizRecord{}, err
		}
		return s.generate(ctx, key, videoID, playlistID, rawURL)
	})
	if err != nil {
		return domain.QuizView{}, err
	}
	return result.(domain.QuizRecord).Redact(), nil
}

func (s *QuizService) generate(ctx context.Context, key, videoID, playlistID, rawURL string) (domain.QuizRecord, error) {
	titles, err := s.titles.Resolve(ctx, videoID, playlistID)
	if err != nil {
		return domain.QuizRecord{}, err
	}

	mcqs, err := s.generator.GenerateMCQs(ctx, strings.Join(titles.Titles, ", "))
	if err != nil {
		return domain.QuizRecord{}, err
	}
	if len(mcqs) > maxQuestions {
		mcqs = mcqs[:maxQuestions]
	}

	record := domain.QuizRecord{
		Key:        youtube.StableKey(videoID, playlistID, rawURL),
		Title:      titles.DisplayTitle,
		MCQs:       mcqs,
		VideoID:    videoID,
		PlaylistID: playlistID,
	}
	if err := s.store.Put(ctx, key, record); err != nil {
		return domain.QuizRecord{}, err
	}
	return record, nil
}

// CachedQuiz looks up stored quiz content by its pre-digest key input
// and returns the redacted view. found is false when nothing is cached
// under that key.
func (s *QuizService) CachedQuiz(ctx context.Context, rawKey string) (domain.QuizView, bool, error) {
	record, err := s.store.Get(ctx, youtube.SafeKey(rawKey))
	if err == domain.ErrQuizNotFound {
		return domain.QuizView{}, false, nil
	}
	if err != nil {
		return domain.QuizView{}, false, err
	}
	return record.Redact(), true, nil
}

// StoreQuiz writes quiz content under the digest of rawKey, stamping
// the record with the key it was stored under. Full replace, no merge.
func (s *QuizService) StoreQuiz(ctx context.Context, rawKey string, record domain.QuizRecord) error {
	record.Key = rawKey
	return s.store.Put(ctx, youtube.SafeKey(rawKey), record)
}
