package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

type RunTrigger string

const (
	RunTriggerManual RunTrigger = "manual"
	RunTriggerCron   RunTrigger = "cron"
)

// IngestionRun records one batch refresh of news summaries.
type IngestionRun struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Trigger      RunTrigger     `gorm:"type:varchar(20);not null" json:"trigger"`
	Status       RunStatus      `gorm:"type:varchar(20);not null" json:"status"`
	DryRun       bool           `json:"dry_run"`
	Processed    int            `json:"processed"`
	Failed       int            `json:"failed"`
	Output       datatypes.JSON `json:"output"`
	ErrorMessage sql.NullString `json:"error_message"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
}

// TableName specifies the table name for the IngestionRun model.
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
