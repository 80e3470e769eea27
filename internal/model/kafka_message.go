package model

// UserMessage is the enriched user payload. It is what the crawler hands to
// the store, what gets published to Kafka, and what the consumer persists.
type UserMessage struct {
	GitUsername string  `json:"git_username"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Resolved    bool    `json:"resolved"`
	Confidence  float64 `json:"confidence"`
	Provider    string  `json:"provider"`
}

// SummaryMessage is the end-of-run digest published for downstream
// notification consumers.
type SummaryMessage struct {
	Fetched    int    `json:"fetched"`
	Ingested   int    `json:"ingested"`
	Resolved   int    `json:"resolved"`
	Unresolved int    `json:"unresolved"`
	Skipped    int    `json:"skipped"`
	LastCursor int64  `json:"last_cursor"`
	Duration   string `json:"duration"`
}
