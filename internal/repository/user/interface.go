// File: internal/repository/user/interface.go
package user

import (
	"context"

	"github.com/bookmyseva/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByPhoneNumber(ctx context.Context, phone string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}
