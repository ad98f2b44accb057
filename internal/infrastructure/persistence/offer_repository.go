package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOfferRepository implements OfferRepository using GORM
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID, manager shared.Manager) (*commerce.Offer, error) {
	return findOne[commerce.Offer](r.db.WithContext(ctx).Scopes(managerScope(manager)).Where("id = ?", id))
}

// FindByCode finds a non-deleted offer by its code
func (r *GormOfferRepository) FindByCode(ctx context.Context, code string) (*commerce.Offer, error) {
	return findOne[commerce.Offer](r.db.WithContext(ctx).
		Scopes(managerScope(shared.ManagerDefault)).
		Where("code = ?", code))
}

func (r *GormOfferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Offer, error) {
	var out []commerce.Offer
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Offer{}), filter).
		Scopes(pageScope(filter, NamedSortFields, "name")).
		Find(&out).Error
	return out, err
}

func (r *GormOfferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Offer{}), filter).Count(&count).Error
	return count, err
}

func (r *GormOfferRepository) Save(ctx context.Context, offer *commerce.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *GormOfferRepository) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.db, &commerce.Offer{})
}

// applyFilter keeps platform offers visible when filtering by store
func (r *GormOfferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(
		managerScope(filter.Manager),
		searchScope(filter.Search, "name", "code"),
	)
	if ids := uuidList(filter.Filters[commerce.FilterStoreID]); len(ids) > 0 {
		query = query.Where("(store_id IN ? OR store_id IS NULL)", ids)
	}
	return query
}

var _ commerce.OfferRepository = (*GormOfferRepository)(nil)
