package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BulkAction runs on the ids of a table that passed cleaning
type BulkAction func(ctx context.Context, repos Repositories, table string, ids []uuid.UUID) error

// Bulk applies one action to many nodes. Ids that cannot be resolved or whose
// instance fails Clean are reported under the id and left untouched.
type Bulk[E Node] struct {
	Fetch FetchFunc[E]
	// Clean records reasons an instance must be skipped
	Clean  func(ctx context.Context, repos Repositories, inst E, errs *Errors) error
	Events shared.EventPublisher
}

// Perform resolves ids through manager, cleans each instance and runs action on the clean ones.
// The count is the number of ids the action ran on.
func (b *Bulk[E]) Perform(ctx context.Context, scope TransactionScope, ids []string, manager shared.Manager, action BulkAction) (int, []E, Errors, error) {
	if len(ids) == 0 {
		return 0, nil, nil, nil
	}
	var (
		errs  Errors
		clean []E
	)
	err := scope.Execute(ctx, func(repos Repositories) error {
		for _, id := range ids {
			inst, err := resolve(ctx, repos, b.Fetch, id, manager)
			if err != nil {
				var nf *NodeNotFoundError
				if errors.As(err, &nf) {
					errs.AddRaw(id, nf.Error())
					continue
				}
				return dbFailure(ctx, &errs, err)
			}
			if b.Clean != nil {
				var instErrs Errors
				if err := b.Clean(ctx, repos, inst, &instErrs); err != nil {
					return dbFailure(ctx, &errs, err)
				}
				if !instErrs.Empty() {
					for _, e := range instErrs {
						errs.AddRaw(id, e.Message)
					}
					continue
				}
			}
			clean = append(clean, inst)
		}
		if len(clean) == 0 {
			return nil
		}
		cleanIDs := make([]uuid.UUID, 0, len(clean))
		for _, inst := range clean {
			cleanIDs = append(cleanIDs, inst.GetID())
		}
		if err := action(ctx, repos, clean[0].TableName(), cleanIDs); err != nil {
			return dbFailure(ctx, &errs, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAbort) {
			return 0, nil, errs, nil
		}
		return 0, nil, nil, err
	}
	return len(clean), clean, errs, nil
}

// Delete removes every clean node through the cascader
func (b *Bulk[E]) Delete(ctx context.Context, scope TransactionScope, ids []string) (int, Errors, error) {
	count, deleted, errs, err := b.Perform(ctx, scope, ids, shared.ManagerDefault,
		func(ctx context.Context, repos Repositories, table string, ids []uuid.UUID) error {
			return repos.Cascader().Delete(ctx, table, ids)
		})
	if err == nil {
		evts := make([]shared.DomainEvent, 0, len(deleted))
		for _, inst := range deleted {
			evts = append(evts, shared.NewRecordDeletedEvent(inst.TableName(), inst.GetID()))
		}
		publish(ctx, b.Events, evts...)
	}
	return count, errs, err
}

// ChangeStatus sets status on every clean node. A nil cascade means true.
func (b *Bulk[E]) ChangeStatus(ctx context.Context, scope TransactionScope, ids []string, rawStatus string, cascade *bool) (int, Errors, error) {
	status, err := shared.ParseStatus(rawStatus)
	if err != nil {
		var errs Errors
		errs.AddDomain("status", err)
		return 0, errs, nil
	}
	doCascade := cascade == nil || *cascade
	count, changed, errs, err := b.Perform(ctx, scope, ids, shared.ManagerAll,
		func(ctx context.Context, repos Repositories, table string, ids []uuid.UUID) error {
			return repos.Cascader().ChangeStatus(ctx, table, ids, status, doCascade)
		})
	if err == nil {
		evts := make([]shared.DomainEvent, 0, len(changed))
		for _, inst := range changed {
			evts = append(evts, shared.NewStatusChangedEvent(inst.TableName(), inst.GetID(), status, doCascade))
		}
		publish(ctx, b.Events, evts...)
	}
	return count, errs, err
}
