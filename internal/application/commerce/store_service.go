package commerce

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// StoreService handles store mutations and queries
type StoreService struct {
	Deps
}

// NewStoreService creates a new StoreService
func NewStoreService(deps Deps) *StoreService {
	return &StoreService{Deps: deps}
}

func fetchStore(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*commerce.Store, error) {
	return repos.Stores().FindByID(ctx, id, manager)
}

// Save creates a pending store when id is empty and updates it otherwise
func (s *StoreService) Save(ctx context.Context, id string, input StoreInput) (*commerce.Store, mutation.Errors, error) {
	m := mutation.Model[*commerce.Store, StoreInput]{
		Fetch: fetchStore,
		New: func(ctx context.Context, repos mutation.Repositories, _ StoreInput, errs *mutation.Errors) (*commerce.Store, error) {
			code, err := nextCode(ctx, shared.StoreCodes, repos.Stores().LastCode, errs)
			if err != nil || code == "" {
				return nil, err
			}
			return commerce.NewStore(code), nil
		},
		Clean: s.clean,
		Save: func(ctx context.Context, repos mutation.Repositories, st *commerce.Store) error {
			return repos.Stores().Save(ctx, st)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

func (s *StoreService) clean(ctx context.Context, repos mutation.Repositories, st *commerce.Store, in StoreInput, errs *mutation.Errors) error {
	if in.Name != nil {
		st.Rename(strings.TrimSpace(*in.Name))
		if st.Slug != "" {
			exists, err := repos.Stores().ExistsBySlug(ctx, st.Slug, st.ID)
			if err != nil {
				return err
			}
			if exists {
				errs.Add("name", "Store already exists with this name.")
			}
		}
	}
	if in.Mobile != nil {
		mobile := strings.TrimSpace(*in.Mobile)
		switch {
		case mobile == "":
			st.Mobile = nil
		case !identity.ValidMobile(mobile):
			errs.Add("mobile", "Invalid mobile.")
		default:
			st.Mobile = &mobile
		}
	}
	if in.Email != nil {
		if email := identity.NormalizeEmail(*in.Email); email != "" {
			st.Email = &email
		} else {
			st.Email = nil
		}
	}
	if in.Address != nil {
		st.Address = in.Address
	}
	if in.Country != nil {
		st.CountryCode = strings.ToUpper(strings.TrimSpace(*in.Country))
	}
	if in.BusinessType != nil {
		st.BusinessType = commerce.BusinessType(strings.ToUpper(*in.BusinessType))
	}
	return nil
}

// ChangeStatus sets the status of a store; cascading reaches its staff, listings and offers
func (s *StoreService) ChangeStatus(ctx context.Context, id, status string, cascade *bool) (*commerce.Store, mutation.Errors, error) {
	sc := mutation.StatusChange[*commerce.Store]{Fetch: fetchStore, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, cascade)
}

// Delete removes a store; stores with orders are protected
func (s *StoreService) Delete(ctx context.Context, id string) (*commerce.Store, mutation.Errors, error) {
	d := mutation.Delete[*commerce.Store]{Fetch: fetchStore, Events: s.Events}
	return d.Perform(ctx, s.Scope, id)
}

// Get returns a visible store
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*commerce.Store, error) {
	return s.Repos.Stores().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns stores ordered by name
func (s *StoreService) List(ctx context.Context, in ListInput) (shared.Page[commerce.Store], error) {
	repo := s.Repos.Stores()
	return page(ctx, in.filter(), repo.FindAll, repo.Count)
}
