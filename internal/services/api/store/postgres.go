package store

import (
	"amiigo/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Store interface {
	// User

	GetUser(context.Context, int64) (*models.User, error)
	GetUserByEmail(context.Context, string) (*models.User, error)
	CreateUser(context.Context, *models.User) error
	UpdateUser(context.Context, *models.User) error
	DeleteUser(context.Context, int64) error
	TouchLastLogin(context.Context, int64, time.Time) error

	// Profile

	GetProfile(context.Context, int64) (*models.Profile, error)
	UpsertProfile(context.Context, *models.Profile) (*models.Profile, error)

	Ping(context.Context) error
}

// Storage is the gorm backed Store. The gorm.DB must be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
type Storage struct {
	DB *gorm.DB
}

func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	result := s.DB.WithContext(ctx).Model(user).
		Select("email", "password_hash", "last_login_at", "is_active", "is_verified").
		Updates(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("update user %d: %w", user.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the user together with its profile.
func (s *Storage) DeleteUser(ctx context.Context, userID int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
			return fmt.Errorf("delete profile of user %d: %w", userID, err)
		}

		result := tx.Delete(&models.User{}, userID)
		if result.Error != nil {
			return fmt.Errorf("delete user %d: %w", userID, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *Storage) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return s.DB.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("last_login_at", at).Error
}

func (s *Storage) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// UpsertProfile writes the profile of profile.UserID, replacing an existing
// one, and returns the stored row.
func (s *Storage) UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "bio", "birth_date", "gender", "interested_in", "city", "updated_at",
		}),
	}).Create(profile).Error
	if err != nil {
		return nil, fmt.Errorf("upsert profile of user %d: %w", profile.UserID, err)
	}

	return s.GetProfile(ctx, profile.UserID)
}

func (s *Storage) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
