package ports

import (
	"context"

	"github.com/nzvirtual/api/internal/domain"
)

// CrudRepository is a generic create/read/update/delete contract keyed by ID.
// Save inserts when the primary key is zero and updates otherwise.
type CrudRepository[T any, ID comparable] interface {
	Save(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id ID) (*T, error)
	ExistsByID(ctx context.Context, id ID) (bool, error)
	FindAll(ctx context.Context) ([]*T, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id ID) error
	Delete(ctx context.Context, entity *T) error
}

// RoleRepository stores principal records by numeric id.
type RoleRepository interface {
	CrudRepository[domain.User, int64]
}

type UserStorage interface {
	RoleRepository
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
