package stores

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/codewithus/ledgerbridge/ledger"
	"github.com/codewithus/ledgerbridge/models"
)

type UserRepository struct {
	BaseStore
}

func CreateUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{BaseStore: BaseStore{db: db}}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.GetDB(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.GetDB(ctx).Create(user).Error
}
