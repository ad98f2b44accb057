package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// managerScope restricts a soft-deletable table to the rows a manager sees.
func managerScope(manager shared.Manager) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch manager {
		case shared.ManagerAll:
			return db
		case shared.ManagerActive:
			return db.Where("status = ?", shared.StatusActive)
		case shared.ManagerDeleted:
			return db.Where("status = ?", shared.StatusDeleted)
		default:
			return db.Where("status <> ?", shared.StatusDeleted)
		}
	}
}

// searchScope ORs a case-insensitive contains match over columns.
func searchScope(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + search + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, "LOWER("+col+") LIKE LOWER(?)")
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// pageScope applies ordering and the offset/limit window of filter.
// An empty direction sorts ascending.
func pageScope(filter shared.Filter, allowed map[string]bool, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		dir := "ASC"
		if f.OrderDir != "" {
			dir = ValidateSortOrder(f.OrderDir)
		}
		return db.Order(field + " " + dir).Order("id ASC").Offset(f.Offset).Limit(f.Limit)
	}
}

// findOne loads a single row, mapping a missing row onto shared.ErrNotFound.
func findOne[T any](query *gorm.DB) (*T, error) {
	var out T
	if err := query.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// findByIDs loads non-deleted rows by id in no particular order.
func findByIDs[T any](ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]T, error) {
	var out []T
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Scopes(managerScope(shared.ManagerDefault)).
		Where("id IN ?", ids).
		Find(&out).Error
	return out, err
}

// existsWhere reports whether any row matches, optionally ignoring one id.
func existsWhere(ctx context.Context, db *gorm.DB, model any, excludeID uuid.UUID, query string, args ...any) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Model(model).Where(query, args...)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// lastCode returns the highest code of a table across every status.
// Codes share a prefix, so longer codes always sort after shorter ones.
func lastCode(ctx context.Context, db *gorm.DB, model any) (string, error) {
	var codes []string
	err := db.WithContext(ctx).
		Model(model).
		Order("LENGTH(code) DESC").
		Order("code DESC").
		Limit(1).
		Pluck("code", &codes).Error
	if err != nil || len(codes) == 0 {
		return "", err
	}
	return codes[0], nil
}

// uuidList reads a filter value holding one id or a list of ids.
func uuidList(v any) []uuid.UUID {
	switch ids := v.(type) {
	case []uuid.UUID:
		return ids
	case uuid.UUID:
		return []uuid.UUID{ids}
	case []string:
		out := make([]uuid.UUID, 0, len(ids))
		for _, s := range ids {
			if id, err := uuid.Parse(s); err == nil {
				out = append(out, id)
			}
		}
		return out
	}
	return nil
}
