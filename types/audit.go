package types

import "time"

// AuditKind names an administrative action worth recording.
type AuditKind string

const (
	AuditLoginSucceeded    AuditKind = "login_succeeded"
	AuditLoginFailed       AuditKind = "login_failed"
	AuditLogout            AuditKind = "logout"
	AuditInsightsGenerated AuditKind = "insights_generated"
	AuditExportWritten     AuditKind = "export_written"
)

// AuditEvent is published to the audit channel. It is never stored by
// this service.
type AuditEvent struct {
	ID      string            `json:"id"`
	Kind    AuditKind         `json:"kind"`
	Actor   string            `json:"actor"`
	At      time.Time         `json:"at"`
	Details map[string]string `json:"details,omitempty"`
}

// ExportDataset names a table snapshot that can be exported.
type ExportDataset string

const (
	ExportUsers   ExportDataset = "users"
	ExportMeals   ExportDataset = "meals"
	ExportRecipes ExportDataset = "recipes"
	ExportStats   ExportDataset = "stats"
	ExportChats   ExportDataset = "chats"
)

// ExportDatasets lists every exportable dataset.
var ExportDatasets = []ExportDataset{ExportUsers, ExportMeals, ExportRecipes, ExportStats, ExportChats}

// Valid reports whether d is a known dataset.
func (d ExportDataset) Valid() bool {
	for _, known := range ExportDatasets {
		if d == known {
			return true
		}
	}
	return false
}

// ExportResult describes a written export object.
type ExportResult struct {
	Dataset   ExportDataset `json:"dataset"`
	Bucket    string        `json:"bucket"`
	Key       string        `json:"key"`
	Rows      int           `json:"rows"`
	Bytes     int           `json:"bytes"`
	CreatedAt time.Time     `json:"createdAt"`
}
