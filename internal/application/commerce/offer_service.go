package commerce

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
)

// OfferService handles offer mutations and queries
type OfferService struct {
	Deps
}

// NewOfferService creates a new OfferService
func NewOfferService(deps Deps) *OfferService {
	return &OfferService{Deps: deps}
}

func fetchOffer(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*commerce.Offer, error) {
	return repos.Offers().FindByID(ctx, id, manager)
}

// Save creates an offer when id is empty and updates it otherwise
func (s *OfferService) Save(ctx context.Context, id string, input OfferInput) (*commerce.Offer, mutation.Errors, error) {
	m := mutation.Model[*commerce.Offer, OfferInput]{
		Fetch: fetchOffer,
		New: func(ctx context.Context, repos mutation.Repositories, _ OfferInput, errs *mutation.Errors) (*commerce.Offer, error) {
			code, err := nextCode(ctx, shared.OfferCodes, repos.Offers().LastCode, errs)
			if err != nil || code == "" {
				return nil, err
			}
			offer := commerce.NewOffer(code)
			offer.StartsAt = s.now()
			return offer, nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, o *commerce.Offer, in OfferInput, errs *mutation.Errors) error {
			if id != "" {
				if err := checkOptionalStore(ctx, o.StoreID); err != nil {
					return err
				}
			}
			return s.clean(ctx, repos, o, in, errs)
		},
		Save: func(ctx context.Context, repos mutation.Repositories, o *commerce.Offer) error {
			return repos.Offers().Save(ctx, o)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

func (s *OfferService) clean(ctx context.Context, repos mutation.Repositories, o *commerce.Offer, in OfferInput, errs *mutation.Errors) error {
	if in.Store != nil {
		raw := strings.TrimSpace(*in.Store)
		if raw == "" {
			o.StoreID = nil
		} else if id, ok := parseRef(raw, "store", "Store not found.", errs); ok {
			store, err := repos.Stores().FindByID(ctx, id, shared.ManagerDefault)
			if errors.Is(err, shared.ErrNotFound) {
				errs.Add("store", "Store not found.")
			} else if err != nil {
				return err
			} else {
				o.StoreID = &store.ID
			}
		}
	}
	if errs.Empty() {
		if err := checkOptionalStore(ctx, o.StoreID); err != nil {
			return err
		}
	}
	if in.Name != nil {
		o.Name = strings.TrimSpace(*in.Name)
	}
	if in.OfferType != nil {
		o.OfferType = commerce.OfferType(strings.ToUpper(*in.OfferType))
	}
	if in.OfferBy != nil {
		o.OfferBy = commerce.OfferBy(strings.ToUpper(*in.OfferBy))
	}
	if in.Value != nil {
		o.Value = *in.Value
	}
	if in.MinOrderValue != nil {
		o.MinOrderValue = *in.MinOrderValue
	}
	if in.StartsAt != nil {
		o.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		o.EndsAt = in.EndsAt
	}

	if !o.Value.IsPositive() {
		errs.Add("value", "Ensure this value is greater than 0.")
	} else if o.OfferBy == commerce.OfferByPercentage && o.Value.GreaterThan(decimal.NewFromInt(100)) {
		errs.Add("value", "Ensure this value is less than or equal to 100.")
	}
	if o.MinOrderValue.IsNegative() {
		errs.Add("min_order_value", "Ensure this value is greater than or equal to 0.")
	}
	return nil
}

// ChangeStatus sets the status of an offer
func (s *OfferService) ChangeStatus(ctx context.Context, id, status string) (*commerce.Offer, mutation.Errors, error) {
	sc := mutation.StatusChange[*commerce.Offer]{
		Fetch: fetchOffer,
		Clean: func(ctx context.Context, _ mutation.Repositories, o *commerce.Offer, _ shared.Status, _ *mutation.Errors) error {
			return checkOptionalStore(ctx, o.StoreID)
		},
		Events: s.Events,
	}
	return sc.Perform(ctx, s.Scope, id, status, nil)
}

// Get returns a visible offer
func (s *OfferService) Get(ctx context.Context, id uuid.UUID) (*commerce.Offer, error) {
	return s.Repos.Offers().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns offers ordered by name; a store filter keeps platform offers
func (s *OfferService) List(ctx context.Context, in ListInput) (shared.Page[commerce.Offer], error) {
	repo := s.Repos.Offers()
	return page(ctx, in.filter(), repo.FindAll, repo.Count)
}
