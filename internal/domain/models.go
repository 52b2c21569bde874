package domain

import "time"

// PassThreshold is the minimum score (percent) required to earn a certificate.
const PassThreshold = 70

// MCQ is a single multiple-choice question in its internal form.
// Answer must always be one of Options; this representation never
// crosses the trust boundary to a client, only MCQView does.
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// QuizRecord is the stored unit of quiz content, keyed by the derived
// cache key. Records are immutable once written; Put is a full replace.
type QuizRecord struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	MCQs       []MCQ  `json:"mcqs"`
	VideoID    string `json:"videoId,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`
}

// MCQView is the client-safe projection of an MCQ. Fields are
// allow-listed: anything added to MCQ stays hidden until it is
// explicitly copied here.
type MCQView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizView is what untrusted callers see: title and questions with
// the answers stripped.
type QuizView struct {
	Title string    `json:"title"`
	MCQs  []MCQView `json:"mcqs"`
}

// Redact converts the internal record into its client-safe view. This
// is the only conversion between the two types; handlers must never
// serialize a QuizRecord directly.
func (r QuizRecord) Redact() QuizView {
	views := make([]MCQView, 0, len(r.MCQs))
	for _, q := range r.MCQs {
		views = append(views, MCQView{Question: q.Question, Options: q.Options})
	}
	return QuizView{Title: r.Title, MCQs: views}
}

// Certificate is issued once per user per distinct video/playlist.
type Certificate struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	VideoTitle   string    `json:"videoTitle"`
	VideoID      string    `json:"videoId,omitempty"`
	PlaylistID   string    `json:"playlistId,omitempty"`
	IssueDate    time.Time `json:"issueDate"`
	Score        int       `json:"score"`
	ServerIssued bool      `json:"serverIssued"`
}

// CertificatePublicView is the minimal shape exposed by the public
// verification endpoint.
type CertificatePublicView struct {
	ID         string    `json:"id"`
	UserName   string    `json:"userName"`
	VideoTitle string    `json:"videoTitle"`
	Score      int       `json:"score"`
	IssueDate  time.Time `json:"issueDate"`
}

// PublicView strips owner and provenance fields for anonymous lookups.
func (c Certificate) PublicView() CertificatePublicView {
	return CertificatePublicView{
		ID:         c.ID,
		UserName:   c.UserName,
		VideoTitle: c.VideoTitle,
		Score:      c.Score,
		IssueDate:  c.IssueDate,
	}
}

// ValidationResult summarizes a graded submission.
type ValidationResult struct {
	Passed        bool   `json:"passed"`
	Score         int    `json:"score"`
	CertificateID string `json:"certificateId,omitempty"`
	VideoTitle    string `json:"videoTitle"`
	AlreadyIssued bool   `json:"-"`
}
