package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// identified is satisfied by every model embedding shared.BaseEntity.
type identified interface {
	GetID() uuid.UUID
}

// replaceChildren makes the child rows of parentID exactly rows: rows missing
// from the slice are deleted, the rest are upserted.
func replaceChildren[T any, PT interface {
	*T
	identified
}](ctx context.Context, db *gorm.DB, foreignKey string, parentID uuid.UUID, rows []T) error {
	keep := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		keep = append(keep, PT(&rows[i]).GetID())
	}

	del := db.WithContext(ctx).Where(foreignKey+" = ?", parentID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(new(T)).Error; err != nil {
		return err
	}

	for i := range rows {
		if err := db.WithContext(ctx).Omit(clause.Associations).Save(&rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
