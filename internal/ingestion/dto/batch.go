package dto

// SecurityResult is the outcome of refreshing one security in a batch run.
type SecurityResult struct {
	Symbol     string `json:"symbol"`
	IsSuccess  bool   `json:"is_success"`
	Skipped    bool   `json:"skipped,omitempty"`
	Sentiment  string `json:"sentiment,omitempty"`
	NewsItems  int    `json:"news_items"`
	Events     int    `json:"events"`
	Highlights int    `json:"highlights"`
	Error      string `json:"error,omitempty"`
}

// BatchReport summarises a batch run.
type BatchReport struct {
	RunID     uint             `json:"run_id"`
	DryRun    bool             `json:"dry_run"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Results   []SecurityResult `json:"results"`
}

// DigestUpdatedEvent is published after a security's digest has been committed.
type DigestUpdatedEvent struct {
	Symbol    string `json:"symbol"`
	SummaryID uint   `json:"summary_id"`
}
