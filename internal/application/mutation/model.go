package mutation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// errAbort rolls back a transaction whose outcome is reported through Errors
var errAbort = errors.New("mutation aborted")

// Model performs create and update mutations of E from input I.
//
// A create builds the instance with New; an update loads it with Fetch through
// the default manager. Clean copies the input onto the instance and records rule
// violations, after which struct validation runs. Nothing is saved when any
// error was recorded.
type Model[E Node, I any] struct {
	Fetch FetchFunc[E]
	New   func(ctx context.Context, repos Repositories, input I, errs *Errors) (E, error)
	Clean func(ctx context.Context, repos Repositories, inst E, input I, errs *Errors) error
	Save  func(ctx context.Context, repos Repositories, inst E) error
	// AfterSave runs in the same transaction once the instance is stored
	AfterSave func(ctx context.Context, repos Repositories, inst E, input I) error
	Events    shared.EventPublisher
}

// Perform creates the node when id is empty and updates it otherwise
func (m *Model[E, I]) Perform(ctx context.Context, scope TransactionScope, id string, input I) (E, Errors, error) {
	var (
		zero E
		inst E
		errs Errors
	)

	err := scope.Execute(ctx, func(repos Repositories) error {
		var err error
		if id != "" {
			inst, err = resolve(ctx, repos, m.Fetch, id, shared.ManagerDefault)
			if err != nil {
				return err
			}
		} else {
			inst, err = m.New(ctx, repos, input, &errs)
			if err != nil {
				return dbFailure(ctx, &errs, err)
			}
			if !errs.Empty() {
				return errAbort
			}
		}

		if err := m.Clean(ctx, repos, inst, input, &errs); err != nil {
			return dbFailure(ctx, &errs, err)
		}
		if errs.Empty() {
			if err := ValidateStruct(inst, &errs); err != nil {
				return dbFailure(ctx, &errs, err)
			}
		}
		if !errs.Empty() {
			return errAbort
		}

		if err := m.Save(ctx, repos, inst); err != nil {
			return dbFailure(ctx, &errs, err)
		}
		if m.AfterSave != nil {
			if err := m.AfterSave(ctx, repos, inst, input); err != nil {
				return dbFailure(ctx, &errs, err)
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errAbort) {
			return zero, errs, nil
		}
		return zero, nil, err
	}

	logger.L(ctx).Info("record saved", zap.String("table", inst.TableName()), zap.Stringer("id", inst.GetID()))
	publish(ctx, m.Events, shared.NewRecordSavedEvent(inst.TableName(), inst.GetID()))
	return inst, errs, nil
}

// resolve parses id and loads the node, turning a miss into NodeNotFoundError
func resolve[E Node](ctx context.Context, repos Repositories, fetch FetchFunc[E], id string, manager shared.Manager) (E, error) {
	var zero E
	uid, err := uuid.Parse(id)
	if err != nil {
		return zero, &NodeNotFoundError{ID: id}
	}
	inst, err := fetch(ctx, repos, uid, manager)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return zero, &NodeNotFoundError{ID: id}
		}
		return zero, err
	}
	return inst, nil
}

// dbFailure records err as a Db error unless it must surface as a top-level error
func dbFailure(ctx context.Context, errs *Errors, err error) error {
	if isTopLevel(err) {
		return err
	}
	logger.L(ctx).Warn("mutation rolled back on database error", zap.Error(err))
	errs.AddDb(err)
	return errAbort
}

func isTopLevel(err error) bool {
	var nf *NodeNotFoundError
	var pe *PermissionError
	return errors.As(err, &nf) || errors.As(err, &pe) || errors.Is(err, shared.ErrForbidden)
}

func publish(ctx context.Context, events shared.EventPublisher, evts ...shared.DomainEvent) {
	if events == nil || len(evts) == 0 {
		return
	}
	if err := events.Publish(ctx, evts...); err != nil {
		logger.L(ctx).Warn("failed to publish mutation events", zap.Error(err))
	}
}
