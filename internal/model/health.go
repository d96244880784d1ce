package model

import "time"

// Database connection states reported by the health endpoint
const (
	DBDisconnected = 0
	DBConnected    = 1
)

// ComponentHealth is the status of one dependency
type ComponentHealth struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DBHealth carries the connection state next to the ok flag
type DBHealth struct {
	OK    bool   `json:"ok"`
	State int    `json:"state"`
	Error string `json:"error,omitempty"`
}

// LLMHealth describes the configured answer provider
type LLMHealth struct {
	OK         bool      `json:"ok"`
	Provider   string    `json:"provider"`
	Configured bool      `json:"configured"`
	Model      string    `json:"model,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Health is the body of GET /api/health
type Health struct {
	Backend ComponentHealth `json:"backend"`
	DB      DBHealth `json:"db"`
	Cache   ComponentHealth `json:"cache"`
	LLM     LLMHealth       `json:"llm"`
}
