package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/errs"
	"catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db            *gorm.DB
	upsertByEmail bool
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
// With upsertByEmail set, saving a user whose email is already stored updates that row
// instead of failing on the unique index.
func NewGORMUserRepository(db *gorm.DB, upsertByEmail bool) *GORMUserRepository {
	return &GORMUserRepository{
		db:            db,
		upsertByEmail: upsertByEmail,
	}
}

// Save writes the user and sets user.ID from the generated key.
func (r *GORMUserRepository) Save(ctx context.Context, user *models.UserResponse) error {
	if user == nil {
		return errs.InvalidArgument("user must not be nil")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	var row models.User
	row.FromResponse(user)

	db := r.db.WithContext(ctx)
	if r.upsertByEmail && row.Email != nil {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "age", "status", "created_at"}),
		}).Create(&row).Error
		if err != nil {
			return errs.Persistence("upsert user", err)
		}

		// On conflict the generated key is not reliably reported by every driver.
		var stored models.User
		if err := db.Select("id").Where("email = ?", *row.Email).Take(&stored).Error; err != nil {
			return errs.Persistence("read back user id", err)
		}
		row.ID = stored.ID
	} else if err := db.Create(&row).Error; err != nil {
		if isDuplicateError(err) {
			return errs.Persistence("save user", fmt.Errorf("email '%s' already registered: %w", user.Email, err))
		}
		return errs.Persistence("save user", err)
	}

	id := row.ID
	user.ID = &id
	return nil
}

// FindByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) FindByEmail(ctx context.Context, email string) (*models.UserResponse, error) {
	if email == "" {
		return nil, errs.InvalidArgument("email must not be empty")
	}

	var row models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user", "email", email)
		}
		return nil, errs.Persistence(fmt.Sprintf("find user by email %s", email), err)
	}
	return row.ToResponse(), nil
}
