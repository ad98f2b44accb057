package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// StatusChange sets the status of a soft-delete node, optionally cascading to its children
type StatusChange[E SoftNode] struct {
	Fetch FetchFunc[E]
	// Clean may veto the change by recording errors
	Clean  func(ctx context.Context, repos Repositories, inst E, status shared.Status, errs *Errors) error
	Events shared.EventPublisher
}

// Perform changes the status of the node with id. A nil cascade means true.
// Deleted rows are visible here so they can be restored.
func (s *StatusChange[E]) Perform(ctx context.Context, scope TransactionScope, id, rawStatus string, cascade *bool) (E, Errors, error) {
	var (
		zero E
		inst E
		errs Errors
	)
	doCascade := cascade == nil || *cascade
	var status shared.Status

	err := scope.Execute(ctx, func(repos Repositories) error {
		var err error
		inst, err = resolve(ctx, repos, s.Fetch, id, shared.ManagerAll)
		if err != nil {
			return err
		}
		status, err = shared.ParseStatus(rawStatus)
		if err != nil {
			errs.AddDomain("status", err)
			return errAbort
		}
		if s.Clean != nil {
			if err := s.Clean(ctx, repos, inst, status, &errs); err != nil {
				return dbFailure(ctx, &errs, err)
			}
			if !errs.Empty() {
				return errAbort
			}
		}
		err = repos.Cascader().ChangeStatus(ctx, inst.TableName(), []uuid.UUID{inst.GetID()}, status, doCascade)
		if err != nil {
			return dbFailure(ctx, &errs, err)
		}
		inst.SetStatus(status)
		return nil
	})
	if err != nil {
		if errors.Is(err, errAbort) {
			return zero, errs, nil
		}
		return zero, nil, err
	}
	logger.L(ctx).Info("status changed",
		zap.String("table", inst.TableName()),
		zap.Stringer("id", inst.GetID()),
		zap.String("status", string(status)),
		zap.Bool("cascade", doCascade))
	publish(ctx, s.Events, shared.NewStatusChangedEvent(inst.TableName(), inst.GetID(), status, doCascade))
	return inst, errs, nil
}
