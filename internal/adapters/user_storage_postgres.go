package adapters

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nzvirtual/api/internal/domain"
)

type UserStorageImpl struct {
	*GormRepository[domain.User, int64]
	db     *gorm.DB
	logger *zap.Logger
}

func NewUserStorage(db *gorm.DB, logger *zap.Logger) (*UserStorageImpl, error) {
	if err := db.AutoMigrate(&domain.Role{}, &domain.User{}); err != nil {
		logger.Error("migration error", zap.Error(err))
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return &UserStorageImpl{
		GormRepository: NewGormRepository[domain.User, int64](db, logger, domain.ErrUserNotExist, "Roles"),
		db:             db,
		logger:         logger,
	}, nil
}

func (s *UserStorageImpl) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	result := s.db.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.Join(domain.ErrUserNotExist, result.Error)
	} else if result.Error != nil {
		s.logger.Error("failed to get user by email", zap.String("email", email), zap.Error(result.Error))
		return nil, result.Error
	}
	return &user, nil
}

// Save stores the user and makes its role set match user.Roles, creating
// role rows by name as needed.
func (s *UserStorageImpl) Save(ctx context.Context, user *domain.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range user.Roles {
			role := &user.Roles[i]
			if err := tx.Where(domain.Role{Name: role.Name}).FirstOrCreate(role).Error; err != nil {
				return fmt.Errorf("resolve role %q: %w", role.Name, err)
			}
		}
		if err := tx.Omit("Roles").Save(user).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Roles").Replace(user.Roles)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(domain.ErrEmailTaken, err)
	} else if err != nil {
		s.logger.Error("failed to save user", zap.Error(err))
		return err
	}
	s.logger.Info("user saved successfully", zap.Int64("id", user.ID))
	return nil
}
