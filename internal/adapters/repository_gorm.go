package adapters

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository implements ports.CrudRepository on top of a gorm model
// whose primary key column is "id".
type GormRepository[T any, ID comparable] struct {
	db       *gorm.DB
	logger   *zap.Logger
	notFound error
	preloads []string
}

func NewGormRepository[T any, ID comparable](
	db *gorm.DB, logger *zap.Logger, notFound error, preloads ...string,
) *GormRepository[T, ID] {
	return &GormRepository[T, ID]{
		db:       db,
		logger:   logger,
		notFound: notFound,
		preloads: preloads,
	}
}

func (r *GormRepository[T, ID]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *GormRepository[T, ID]) Save(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		r.logger.Error("failed to save record", zap.Error(err))
		return err
	}
	return nil
}

func (r *GormRepository[T, ID]) FindByID(ctx context.Context, id ID) (*T, error) {
	var entity T
	err := r.query(ctx).Where("id = ?", id).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Join(r.notFound, err)
	} else if err != nil {
		r.logger.Error("failed to get record by ID", zap.Any("id", id), zap.Error(err))
		return nil, err
	}
	return &entity, nil
}

func (r *GormRepository[T, ID]) ExistsByID(ctx context.Context, id ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error
	if err != nil {
		r.logger.Error("failed to check record existence", zap.Any("id", id), zap.Error(err))
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository[T, ID]) FindAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	if err := r.query(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		r.logger.Error("failed to list records", zap.Error(err))
		return nil, err
	}
	return entities, nil
}

func (r *GormRepository[T, ID]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		r.logger.Error("failed to count records", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *GormRepository[T, ID]) DeleteByID(ctx context.Context, id ID) error {
	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return r.Delete(ctx, entity)
}

// Delete removes the record and its join-table rows. Deleting a record that
// no longer exists is not an error.
func (r *GormRepository[T, ID]) Delete(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(entity).Error; err != nil {
		r.logger.Error("failed to delete record", zap.Error(err))
		return err
	}
	return nil
}
