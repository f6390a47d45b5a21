package repositories

import (
	"context"
	"errors"
	"fmt"

	"paisa/internal/models"

	"gorm.io/gorm"
)

var ErrFlagNotFound = errors.New("flag not found")

// FlagRepository defines the interface for the append-only fraud flag
// store. Flags are advisory records for human review and are never
// consumed automatically.
type FlagRepository interface {
	// Create appends a flag
	Create(ctx context.Context, flag *models.Flag) error

	// List retrieves all flags, newest first
	List(ctx context.Context) ([]models.Flag, error)

	// SoftDelete marks a flag as deleted without removing the row
	SoftDelete(ctx context.Context, id uint) error
}

type flagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(ctx context.Context, flag *models.Flag) error {
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		return fmt.Errorf("failed to create flag: %w", err)
	}
	return nil
}

func (r *flagRepository) List(ctx context.Context) ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}
	return flags, nil
}

func (r *flagRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Flag{}).
		Where("id = ?", id).
		Update("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to soft delete flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFlagNotFound
	}
	return nil
}
