package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inkwell-io/backend/internal/models"
	"github.com/inkwell-io/backend/internal/storage"
)

type AccountRepository struct {
	db *storage.Postgres
}

func NewAccountRepository(db *storage.Postgres) *AccountRepository {
	return &AccountRepository{db: db}
}

// Inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.DB.WithContext(ctx).Create(account).Error
}

// Retrieves an account by id, deleted or not
func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&account).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &account, err
}

// Retrieves an account by email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.DB.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &account, err
}

// Sets or clears the soft-delete timestamp
func (r *AccountRepository) SetDeletedAt(ctx context.Context, id uuid.UUID, deletedAt *time.Time) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("deleted_at", deletedAt).Error
}

// Updates the profile fields synced from the identity token.
// Returns the matched row count.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id uuid.UUID, nickname, profileImageURL *string) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"nickname":          nickname,
			"profile_image_url": profileImageURL,
		})

	return result.RowsAffected, result.Error
}

// Retrieves the accounts matching the given ids
func (r *AccountRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&accounts).Error

	return accounts, err
}
