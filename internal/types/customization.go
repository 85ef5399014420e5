package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Customization struct {
  gorm.Model
  ID                uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
  Product           *Product        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
  TemplateID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"template_id"`
  Template          *LayoutTemplate `gorm:"constraint:OnDelete:CASCADE;foreignKey:TemplateID;references:ID" json:"template,omitempty"`
  CustomerEmail     string          `gorm:"column:customer_email;index" json:"customer_email"`
  GiftMessage       string          `gorm:"column:gift_message" json:"gift_message"`
  Assignments       datatypes.JSON  `gorm:"column:assignments;type:jsonb" json:"assignments"`
  Status            string          `gorm:"column:status;not null;default:'draft'" json:"status"` // draft|finalized
  PreviewStorageKey string          `gorm:"column:preview_storage_key" json:"preview_storage_key"`
  PreviewURL        string          `gorm:"column:preview_url" json:"preview_url"`
  CreatedAt         time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt         time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Customization) TableName() string {
  return "customization"
}

type Upload struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  CustomizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"customization_id"`
  Customization   *Customization  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomizationID;references:ID" json:"customization,omitempty"`
  OriginalName    string          `gorm:"column:original_name;not null" json:"original_name"`
  MimeType        string          `gorm:"column:mime_type" json:"mime_type"`
  SizeBytes       int64           `gorm:"column:size_bytes" json:"size_bytes"`
  Width           int             `gorm:"column:width" json:"width"`
  Height          int             `gorm:"column:height" json:"height"`
  StorageKey      string          `gorm:"column:storage_key;not null" json:"storage_key"`
  FileURL         string          `gorm:"column:file_url" json:"file_url"`
  Status          string          `gorm:"column:status;not null;default:'validated'" json:"status"`
  CreatedAt       time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Upload) TableName() string {
  return "upload"
}
