package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMediaRepository implements MediaRepository using GORM
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

func (r *GormMediaRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*catalog.Media, error) {
	return findOne[catalog.Media](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

// FindAll lists media of one owner ordered by sort order
func (r *GormMediaRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Media, error) {
	var out []catalog.Media
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Media{}), filter).
		Scopes(pageScope(filter, MediaSortFields, "sort_order")).
		Find(&out).Error
	return out, err
}

func (r *GormMediaRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Media{}), filter).Count(&count).Error
	return count, err
}

func (r *GormMediaRepository) Save(ctx context.Context, media *catalog.Media) error {
	return r.db.WithContext(ctx).Save(media).Error
}

func (r *GormMediaRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(managerScope(filter.Manager), searchScope(filter.Search, "file_name"))
	if table, ok := filter.Filters[catalog.FilterOwnerTable].(string); ok && table != "" {
		query = query.Where("owner_table = ?", table)
	}
	if ids := uuidList(filter.Filters[catalog.FilterOwnerID]); len(ids) > 0 {
		query = query.Where("owner_id IN ?", ids)
	}
	return query
}

var _ catalog.MediaRepository = (*GormMediaRepository)(nil)
