package cache

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoriesTable is the aggregate type carried by category mutation events
const CategoriesTable = "categories"

// CategoryInvalidationHandler flushes the descendant cache whenever a category
// is saved, deleted or changes status. Any of those can reshape a subtree, so
// the whole cache goes rather than single keys.
type CategoryInvalidationHandler struct {
	cache  catalog.DescendantCache
	logger *zap.Logger
}

// NewCategoryInvalidationHandler creates the handler
func NewCategoryInvalidationHandler(cache catalog.DescendantCache, logger *zap.Logger) *CategoryInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes lists the mutation events the handler listens to
func (h *CategoryInvalidationHandler) EventTypes() []string {
	return []string{
		shared.EventTypeRecordSaved,
		shared.EventTypeRecordDeleted,
		shared.EventTypeStatusChanged,
	}
}

// Handle ignores events from other tables
func (h *CategoryInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if event.AggregateType() != CategoriesTable {
		return nil
	}
	h.cache.InvalidateAll(ctx)
	h.logger.Debug("category cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.Stringer("category_id", event.AggregateID()))
	return nil
}
