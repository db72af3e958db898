package corpus

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// LanguageStats counts per-language page outcomes for one run.
type LanguageStats struct {
	Converted int `json:"converted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// PageEntry records one successfully converted page.
type PageEntry struct {
	Language   string `json:"language"`
	Name       string `json:"name"`
	OutputPath string `json:"output_path"`
}

// Report summarizes a corpus walk. It is written as JSON next to the output
// tree so successive migration runs can be compared.
type Report struct {
	RunID              string                    `json:"run_id"`
	StartedAt          time.Time                 `json:"started_at"`
	FinishedAt         time.Time                 `json:"finished_at"`
	Languages          map[string]*LanguageStats `json:"languages"`
	Attachments        int                       `json:"attachments"`
	AttachmentFailures int                       `json:"attachment_failures"`
	Pages              []PageEntry               `json:"pages"`
}

// NewReport starts a report for a fresh run.
func NewReport() *Report {
	return &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Languages: make(map[string]*LanguageStats),
	}
}

func (r *Report) lang(name string) *LanguageStats {
	s, ok := r.Languages[name]
	if !ok {
		s = &LanguageStats{}
		r.Languages[name] = s
	}
	return s
}

// Finish stamps the end of the run.
func (r *Report) Finish() {
	r.FinishedAt = time.Now()
}

// TotalFailed sums page failures across languages.
func (r *Report) TotalFailed() int {
	n := 0
	for _, s := range r.Languages {
		n += s.Failed
	}
	return n
}

// WriteJSON persists the report.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
