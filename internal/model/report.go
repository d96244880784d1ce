package model

import (
	"time"

	"csvinsights/internal/profile"
)

// Report is one uploaded CSV with its profile, narrative and Q&A history
type Report struct {
	ID          string                 `json:"id" bson:"_id,omitempty"`
	FileName    string                 `json:"fileName" bson:"fileName"`
	RowCount    int                    `json:"rowCount" bson:"rowCount"`
	ColumnCount int                    `json:"columnCount" bson:"columnCount"`
	Columns     []string               `json:"columns" bson:"columns"`
	SampleRows  []profile.Row          `json:"sampleRows" bson:"sampleRows"`
	Profile     profile.DatasetProfile `json:"profile" bson:"profile"`
	InsightsMd  string                 `json:"insightsMd" bson:"insightsMd"`
	Followups   []Followup             `json:"followups" bson:"followups"`
	CreatedAt   time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt" bson:"updatedAt"`
}

// ReportSummary is the list projection of a report
type ReportSummary struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	FileName    string    `json:"fileName" bson:"fileName"`
	RowCount    int       `json:"rowCount" bson:"rowCount"`
	ColumnCount int       `json:"columnCount" bson:"columnCount"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

// Followup is a question asked about a report and the generated answer
type Followup struct {
	ID        string    `json:"id" bson:"id"`
	Question  string    `json:"question" bson:"question"`
	Answer    string    `json:"answer" bson:"answer"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// FollowupRequest is the body of POST /api/reports/{id}/followups
type FollowupRequest struct {
	Question string `json:"question"`
}
