package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCascader applies status changes and deletes across the relation graph
type GormCascader struct {
	db        *gorm.DB
	relations Relations
}

// NewGormCascader creates a cascader over relations
func NewGormCascader(db *gorm.DB, relations Relations) *GormCascader {
	return &GormCascader{db: db, relations: relations}
}

// ChangeStatus sets status on ids of table. With cascade, CASCADE children
// follow: soft-delete children take the same status, other children are
// removed when the status is DELETED. PROTECT children block the change.
func (c *GormCascader) ChangeStatus(ctx context.Context, table string, ids []uuid.UUID, status shared.Status, cascade bool) error {
	if len(ids) == 0 {
		return nil
	}
	if cascade {
		if err := c.cascadeStatus(ctx, table, ids, status); err != nil {
			return err
		}
	}
	return c.db.WithContext(ctx).
		Table(table).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (c *GormCascader) cascadeStatus(ctx context.Context, table string, ids []uuid.UUID, status shared.Status) error {
	for _, rel := range c.relations[table] {
		switch rel.OnDelete {
		case Protect:
			if err := c.checkProtected(ctx, table, rel, ids); err != nil {
				return err
			}
		case Cascade:
			if rel.SoftDelete {
				childIDs, err := c.childIDs(ctx, rel, ids, true)
				if err != nil {
					return err
				}
				if err := c.ChangeStatus(ctx, rel.Table, childIDs, status, true); err != nil {
					return err
				}
			} else if status == shared.StatusDeleted {
				if err := c.deleteChildren(ctx, rel, ids); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Delete removes ids of table after resolving every relation pointing at it
func (c *GormCascader) Delete(ctx context.Context, table string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	for _, rel := range c.relations[table] {
		switch rel.OnDelete {
		case Protect:
			if err := c.checkProtected(ctx, table, rel, ids); err != nil {
				return err
			}
		case SetNull:
			err := c.db.WithContext(ctx).
				Table(rel.Table).
				Where(rel.ForeignKey+" IN ?", ids).
				Update(rel.ForeignKey, nil).Error
			if err != nil {
				return err
			}
		case Cascade:
			if err := c.deleteChildren(ctx, rel, ids); err != nil {
				return err
			}
		}
	}
	return c.db.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE id IN ?", ids).Error
}

func (c *GormCascader) deleteChildren(ctx context.Context, rel Relation, parentIDs []uuid.UUID) error {
	if len(c.relations[rel.Table]) == 0 {
		return c.db.WithContext(ctx).
			Exec("DELETE FROM "+rel.Table+" WHERE "+rel.ForeignKey+" IN ?", parentIDs).Error
	}
	childIDs, err := c.childIDs(ctx, rel, parentIDs, false)
	if err != nil {
		return err
	}
	return c.Delete(ctx, rel.Table, childIDs)
}

// childIDs lists the children of parentIDs, skipping deleted rows when visibleOnly is set
func (c *GormCascader) childIDs(ctx context.Context, rel Relation, parentIDs []uuid.UUID, visibleOnly bool) ([]uuid.UUID, error) {
	q := c.db.WithContext(ctx).Table(rel.Table).Where(rel.ForeignKey+" IN ?", parentIDs)
	if visibleOnly && rel.SoftDelete {
		q = q.Where("status <> ?", shared.StatusDeleted)
	}
	// self references must not revisit the parents
	q = q.Where("id NOT IN ?", parentIDs)
	var ids []uuid.UUID
	err := q.Pluck("id", &ids).Error
	return ids, err
}

func (c *GormCascader) checkProtected(ctx context.Context, table string, rel Relation, ids []uuid.UUID) error {
	var count int64
	q := c.db.WithContext(ctx).Table(rel.Table).Where(rel.ForeignKey+" IN ?", ids)
	if rel.SoftDelete {
		q = q.Where("status <> ?", shared.StatusDeleted)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.WrapDomainError(shared.ErrProtected.Code,
			fmt.Sprintf("Cannot change %s because %d %s row(s) reference it through %s.", table, count, rel.Table, rel.ForeignKey),
			shared.ErrProtected)
	}
	return nil
}
