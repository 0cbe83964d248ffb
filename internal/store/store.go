// Package store persists CVs: their rendered preview markup and the template
// they export with.
package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrCVNotFound is returned when no CV has the requested id
var ErrCVNotFound = errors.New("cv not found")

// CV is a saved CV
type CV struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	TemplateID  int    `gorm:"not null;default:1" json:"template_id"`
	PreviewHTML string `gorm:"type:text" json:"preview_html"`
}

// CVStore is implemented by the CV persistence backends
type CVStore interface {
	Create(ctx context.Context, cv *CV) error
	Get(ctx context.Context, id string) (*CV, error)
	Update(ctx context.Context, cv *CV) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]CV, error)
}
