package rag

import "time"

// Faculty identifies which faculty a document belongs to.
// Typed to avoid loose strings in the rest of the code.
type Faculty string

const (
	FacultyAppliedScience Faculty = "FAS"
	FacultyBusiness       Faculty = "FBS"
	FacultyTechnology     Faculty = "FTS"
)

// Faculties lists the known faculty tags, used by the UI filter.
func Faculties() []Faculty {
	return []Faculty{FacultyAppliedScience, FacultyBusiness, FacultyTechnology}
}

type SourceType string

const (
	SourceWeb        SourceType = "web"
	SourceFacultyWeb SourceType = "faculty_web"
	SourceHandbook   SourceType = "handbook_pdf"
)

// Document is one indexed chunk of university content.
// Immutable once stored; a full rebuild is the only way to replace it.
type Document struct {
	ID         string     `json:"id"`
	Faculty    Faculty    `json:"faculty"`
	SourceType SourceType `json:"sourceType"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	SourceURL  string     `json:"sourceUrl"`
	Embedding  []float32  `json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// QueryResult is one retrieved chunk with its similarity score.
type QueryResult struct {
	ID         string     `json:"id"`
	Faculty    Faculty    `json:"faculty"`
	SourceType SourceType `json:"sourceType"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	SourceURL  string     `json:"sourceUrl"`
	Score      float64    `json:"score"`
}

// Filter restricts a similarity search to matching metadata.
// Zero values mean no restriction.
type Filter struct {
	Faculty    Faculty
	SourceType SourceType
}

// AskRequest is the payload of the /ask API.
type AskRequest struct {
	Question    string   `json:"question"`
	Faculty     *Faculty `json:"faculty,omitempty"`
	TopK        int      `json:"topK,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Lang        string   `json:"lang"` // "auto" or empty detects from the question
}

// SourceRef points at a document that backed the answer.
type SourceRef struct {
	Title     string  `json:"title"`
	SourceURL string  `json:"sourceUrl"`
	Faculty   Faculty `json:"faculty"`
	Score     float64 `json:"score"`
}

// Usage mirrors the token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// AskResponse is the answer plus the sources actually used in context.
type AskResponse struct {
	Answer   string      `json:"answer"`
	Language string      `json:"language"`
	Provider string      `json:"provider,omitempty"`
	Model    string      `json:"model,omitempty"`
	Sources  []SourceRef `json:"sources"`
	Usage    Usage       `json:"usage"`
}
