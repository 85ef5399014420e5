package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type RenderJob struct {
  ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  CustomizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"customization_id"`

  Kind   string `gorm:"column:kind;not null;index" json:"kind"`     // preview|production
  Status string `gorm:"column:status;not null;index" json:"status"` // queued|running|succeeded|failed

  Attempts    int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
  Error       string     `gorm:"column:error" json:"error"`
  LastErrorAt *time.Time `gorm:"column:last_error_at" json:"last_error_at,omitempty"`

  // Locking/health for workers
  LockedAt    *time.Time `gorm:"column:locked_at;index" json:"locked_at,omitempty"`
  HeartbeatAt *time.Time `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`

  OutputStorageKey string `gorm:"column:output_storage_key" json:"output_storage_key"`
  OutputURL        string `gorm:"column:output_url" json:"output_url"`
  Width            int    `gorm:"column:width" json:"width"`
  Height           int    `gorm:"column:height" json:"height"`

  Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`

  CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null;default:now();index" json:"updated_at"`
  DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (RenderJob) TableName() string {
  return "render_job"
}
