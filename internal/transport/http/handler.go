package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"tubecert-service/internal/app"
	"tubecert-service/internal/auth"
	"tubecert-service/internal/domain"
)

// Handler wires the quiz and certificate use cases to JSON endpoints.
type Handler struct {
	quizzes  *app.QuizService
	certs    *app.CertificateService
	verifier auth.Verifier
}

func NewHandler(quizzes *app.QuizService, certs *app.CertificateService, verifier auth.Verifier) *Handler {
	return &Handler{quizzes: quizzes, certs: certs, verifier: verifier}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/quiz", h.handleQuiz)
	mux.HandleFunc("/api/quiz/cache", h.handleQuizCache)
	mux.HandleFunc("/api/quiz/validate", h.handleValidate)
	mux.HandleFunc("/api/certificates", h.handleCertificates)
	mux.HandleFunc("/api/certificates/", h.handleCertificateByID)
}

type cacheHitResponse struct {
	Found bool            `json:"found"`
	Data  *domain.QuizView `json:"data,omitempty"`
}

type storeQuizRequest struct {
	Key     string             `json:"key"`
	Payload *domain.QuizRecord `json:"payload"`
}

// handleQuiz serves the end-user fetch-or-generate path: resolve the
// URL, generate on miss, return the redacted quiz.
func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing url"})
		return
	}
	view, err := h.quizzes.GetQuizForURL(r.Context(), rawURL)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleQuizCache is the collaborator-facing cache endpoint. GET reads
// redacted content by raw key input; POST stores unredacted content.
func (h *Handler) handleQuizCache(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		key := r.URL.Query().Get("key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing key"})
			return
		}
		view, found, err := h.quizzes.CachedQuiz(r.Context(), key)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, cacheHitResponse{Found: false})
			return
		}
		writeJSON(w, http.StatusOK, cacheHitResponse{Found: true, Data: &view})
	case http.MethodPost:
		defer r.Body.Close()
		var req storeQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.Payload == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
			return
		}
		if err := h.quizzes.StoreQuiz(r.Context(), req.Key, *req.Payload); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		writeMethodNotAllowed(w, "GET, POST")
	}
}

type validateRequest struct {
	YoutubeURL  string         `json:"youtubeUrl"`
	UserAnswers map[int]string `json:"userAnswers"`
	DisplayName string         `json:"displayName"`
}

type validateResponse struct {
	Passed        bool   `json:"passed"`
	Score         int    `json:"score"`
	CertificateID string `json:"certificateId,omitempty"`
	VideoTitle    string `json:"videoTitle"`
	Message       string `json:"message,omitempty"`
}

// handleValidate grades a submission. The bearer credential is checked
// before the body is read and before any store access.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	identity, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	defer r.Body.Close()
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.YoutubeURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	result, err := h.certs.Validate(r.Context(), identity.UserID, req.DisplayName, req.YoutubeURL, req.UserAnswers)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := validateResponse{
		Passed:        result.Passed,
		Score:         result.Score,
		CertificateID: result.CertificateID,
		VideoTitle:    result.VideoTitle,
	}
	if result.AlreadyIssued {
		resp.Message = "You already have a certificate for this video/playlist"
	}
	writeJSON(w, http.StatusOK, resp)
}

type listCertificatesResponse struct {
	Items []domain.Certificate `json:"items"`
}

type renameRequest struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
}

// handleCertificates lists the caller's certificates or renames one.
func (h *Handler) handleCertificates(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := h.certs.ListByUser(r.Context(), identity.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if items == nil {
			items = []domain.Certificate{}
		}
		writeJSON(w, http.StatusOK, listCertificatesResponse{Items: items})
	case http.MethodPatch:
		defer r.Body.Close()
		var req renameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
			return
		}
		if err := h.certs.Rename(r.Context(), req.ID, identity.UserID, req.UserName); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, okWithIDResponse{OK: true, ID: req.ID})
	default:
		writeMethodNotAllowed(w, "GET, PATCH")
	}
}

// handleCertificateByID is the public verification endpoint; it only
// ever exposes the minimal certificate view.
func (h *Handler) handleCertificateByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/certificates/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	view, err := h.certs.PublicView(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid Authorization header"})
		return auth.Identity{}, false
	}
	identity, err := h.verifier.Verify(r.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or invalid Authorization header"})
		return auth.Identity{}, false
	}
	return identity, true
}
