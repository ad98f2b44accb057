package mutation

import (
	"context"
	"errors"
)

// Run executes a mutation that does not map onto a single model. fn runs in one
// transaction; recording any error in errs rolls it back.
func Run(ctx context.Context, scope TransactionScope, fn func(repos Repositories, errs *Errors) error) (Errors, error) {
	var errs Errors
	err := scope.Execute(ctx, func(repos Repositories) error {
		if err := fn(repos, &errs); err != nil {
			return dbFailure(ctx, &errs, err)
		}
		if !errs.Empty() {
			return errAbort
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errAbort) {
			return errs, nil
		}
		return nil, err
	}
	return errs, nil
}
