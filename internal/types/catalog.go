package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

type Product struct {
  gorm.Model
  ID              uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  Name            string          `gorm:"column:name;not null" json:"name"`
  Slug            string          `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
  Description     string          `gorm:"column:description" json:"description"`
  PriceCents      int             `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
  Active          bool            `gorm:"column:active;not null;default:true" json:"active"`
  ImageStorageKey string          `gorm:"column:image_storage_key" json:"image_storage_key"`
  ImageURL        string          `gorm:"column:image_url" json:"image_url"`
  Metadata        datatypes.JSON  `gorm:"column:metadata;type:jsonb" json:"metadata"`
  CreatedAt       time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt       time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (Product) TableName() string {
  return "product"
}

type LayoutTemplate struct {
  gorm.Model
  ID             uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ProductID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
  Product        *Product        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
  Name           string          `gorm:"column:name;not null" json:"name"`
  BaseStorageKey string          `gorm:"column:base_storage_key" json:"base_storage_key"`
  BaseWidth      int             `gorm:"column:base_width;not null" json:"base_width"`
  BaseHeight     int             `gorm:"column:base_height;not null" json:"base_height"`
  Slots          datatypes.JSON  `gorm:"column:slots;type:jsonb;not null" json:"slots"`
  Active         bool            `gorm:"column:active;not null;default:true" json:"active"`
  CreatedAt      time.Time       `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt      time.Time       `gorm:"not null;default:now()" json:"updated_at"`
}

func (LayoutTemplate) TableName() string {
  return "layout_template"
}
