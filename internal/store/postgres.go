package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore keeps CVs in a SQL database through gorm
type GormStore struct {
	DB *gorm.DB
}

// Connect opens a postgres database and migrates the CV table
func Connect(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open gorm database and migrates the CV table
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&CV{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Create(ctx context.Context, cv *CV) error {
	if cv.ID == "" {
		cv.ID = uuid.NewString()
	}
	return s.DB.WithContext(ctx).Create(cv).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*CV, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrCVNotFound
	}
	var cv CV
	err := s.DB.WithContext(ctx).First(&cv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCVNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (s *GormStore) Update(ctx context.Context, cv *CV) error {
	if _, err := s.Get(ctx, cv.ID); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&CV{ID: cv.ID}).
		Select("Title", "TemplateID", "PreviewHTML").
		Updates(cv).Error
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrCVNotFound
	}
	res := s.DB.WithContext(ctx).Delete(&CV{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCVNotFound
	}
	return nil
}

func (s *GormStore) List(ctx context.Context) ([]CV, error) {
	var cvs []CV
	if err := s.DB.WithContext(ctx).Order("created_at").Find(&cvs).Error; err != nil {
		return nil, err
	}
	return cvs, nil
}
