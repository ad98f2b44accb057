package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Delete removes a node and resolves the relations pointing at it
type Delete[E Node] struct {
	Fetch FetchFunc[E]
	// CleanBeforeDelete may veto the delete by recording errors
	CleanBeforeDelete func(ctx context.Context, repos Repositories, inst E, errs *Errors) error
	Events            shared.EventPublisher
}

// Perform deletes the node with id and returns it as it was before removal
func (d *Delete[E]) Perform(ctx context.Context, scope TransactionScope, id string) (E, Errors, error) {
	var (
		zero E
		inst E
		errs Errors
	)
	err := scope.Execute(ctx, func(repos Repositories) error {
		var err error
		inst, err = resolve(ctx, repos, d.Fetch, id, shared.ManagerDefault)
		if err != nil {
			return err
		}
		if d.CleanBeforeDelete != nil {
			if err := d.CleanBeforeDelete(ctx, repos, inst, &errs); err != nil {
				return dbFailure(ctx, &errs, err)
			}
			if !errs.Empty() {
				return errAbort
			}
		}
		if err := repos.Cascader().Delete(ctx, inst.TableName(), []uuid.UUID{inst.GetID()}); err != nil {
			return dbFailure(ctx, &errs, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAbort) {
			return zero, errs, nil
		}
		return zero, nil, err
	}
	logger.L(ctx).Info("record deleted", zap.String("table", inst.TableName()), zap.Stringer("id", inst.GetID()))
	publish(ctx, d.Events, shared.NewRecordDeletedEvent(inst.TableName(), inst.GetID()))
	return inst, errs, nil
}
