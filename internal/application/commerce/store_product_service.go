package commerce

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StoreProductService handles store listings and their stock ledger
type StoreProductService struct {
	Deps
}

// NewStoreProductService creates a new StoreProductService
func NewStoreProductService(deps Deps) *StoreProductService {
	return &StoreProductService{Deps: deps}
}

func fetchStoreProduct(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*commerce.StoreProduct, error) {
	return repos.StoreProducts().FindByID(ctx, id, manager)
}

// Save lists a product master in a store when id is empty and updates the listing otherwise
func (s *StoreProductService) Save(ctx context.Context, id string, input StoreProductInput) (*commerce.StoreProduct, mutation.Errors, error) {
	var opening *commerce.StockEntry
	m := mutation.Model[*commerce.StoreProduct, StoreProductInput]{
		Fetch: fetchStoreProduct,
		New:   s.newListing,
		Clean: func(ctx context.Context, repos mutation.Repositories, p *commerce.StoreProduct, in StoreProductInput, errs *mutation.Errors) error {
			if err := checkStore(ctx, p.StoreID); err != nil {
				return err
			}
			if in.Name != nil {
				p.Name = strings.TrimSpace(*in.Name)
			}
			if in.RetailPrice != nil {
				p.RetailPrice = *in.RetailPrice
			}
			if in.Mrp != nil {
				p.Mrp = *in.Mrp
			}
			if p.RetailPrice.IsNegative() {
				errs.Add("retail_price", "Ensure this value is greater than or equal to 0.")
			}
			if p.Mrp.IsNegative() {
				errs.Add("mrp", "Ensure this value is greater than or equal to 0.")
			}
			if p.Mrp.IsPositive() && p.Mrp.LessThan(p.RetailPrice) {
				errs.Add("mrp", "MRP cannot be less than retail price.")
			}
			if id == "" && in.InitialStock != nil && !in.InitialStock.IsZero() {
				entry, err := p.Adjust(*in.InitialStock, commerce.StockInitial, "")
				if err != nil {
					errs.AddDomain("initial_stock", err)
					return nil
				}
				opening = entry
			}
			return nil
		},
		Save: func(ctx context.Context, repos mutation.Repositories, p *commerce.StoreProduct) error {
			return repos.StoreProducts().Save(ctx, p)
		},
		AfterSave: func(ctx context.Context, repos mutation.Repositories, _ *commerce.StoreProduct, _ StoreProductInput) error {
			if opening == nil {
				return nil
			}
			return repos.StoreProducts().AddStockEntries(ctx, opening)
		},
		Events: s.Events,
	}
	return m.Perform(ctx, s.Scope, id, input)
}

// newListing resolves the store and product master of a new listing
func (s *StoreProductService) newListing(ctx context.Context, repos mutation.Repositories, in StoreProductInput, errs *mutation.Errors) (*commerce.StoreProduct, error) {
	var (
		store    *commerce.Store
		master   string
		masterID uuid.UUID
	)
	if in.Store == nil {
		errs.Add("store", "This field cannot be blank.")
	} else if id, ok := parseRef(*in.Store, "store", "Store not found.", errs); ok {
		st, err := repos.Stores().FindByID(ctx, id, shared.ManagerDefault)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			errs.Add("store", "Store not found.")
		case err != nil:
			return nil, err
		default:
			store = st
		}
	}
	if in.ProductMaster == nil {
		errs.Add("product_master", "This field cannot be blank.")
	} else if id, ok := parseRef(*in.ProductMaster, "product_master", "Product master not found.", errs); ok {
		pm, err := repos.Masters().FindByID(ctx, id, shared.ManagerDefault)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			errs.Add("product_master", "Product master not found.")
		case err != nil:
			return nil, err
		default:
			masterID, master = pm.ID, pm.DisplayName()
		}
	}
	if !errs.Empty() {
		return nil, nil
	}
	if err := checkStore(ctx, store.ID); err != nil {
		return nil, err
	}
	exists, err := repos.StoreProducts().Exists(ctx, store.ID, masterID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		errs.Add("product_master", "Product already exists in this store.")
		return nil, nil
	}
	return commerce.NewStoreProduct(store.ID, masterID, master), nil
}

// AdjustStock records a stock movement on a listing. The row is locked so
// concurrent movements and orders see each other's balance.
func (s *StoreProductService) AdjustStock(ctx context.Context, id string, input StockInput) (*commerce.StoreProduct, mutation.Errors, error) {
	var (
		product *commerce.StoreProduct
		entry   *commerce.StockEntry
	)
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		pid, ok := parseRef(id, "id", "Store product not found.", errs)
		if !ok {
			return nil
		}
		locked, err := repos.StoreProducts().FindByIDsForUpdate(ctx, []uuid.UUID{pid})
		if err != nil {
			return err
		}
		if len(locked) == 0 || locked[0].Status == shared.StatusDeleted {
			errs.Add("id", "Store product not found.")
			return nil
		}
		product = &locked[0]
		if err := checkStore(ctx, product.StoreID); err != nil {
			return err
		}

		stockType := commerce.StockType(strings.ToUpper(strings.TrimSpace(input.StockType)))
		if stockType == "" {
			stockType = commerce.StockAdjustment
		}
		switch stockType {
		case commerce.StockNew, commerce.StockReturn, commerce.StockAdjustment:
		default:
			errs.Add("stock_type", "Value '"+string(stockType)+"' is not a valid choice.")
			return nil
		}
		if input.Qty.IsZero() {
			errs.Add("qty", "Quantity cannot be zero.")
			return nil
		}
		entry, err = product.Adjust(input.Qty, stockType, strings.TrimSpace(input.Note))
		if err != nil {
			errs.AddDomain("qty", err)
			return nil
		}
		if err := repos.StoreProducts().Save(ctx, product); err != nil {
			return err
		}
		return repos.StoreProducts().AddStockEntries(ctx, entry)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Stock adjusted",
		zap.String("store_product_id", product.ID.String()),
		zap.String("qty", entry.Qty.String()),
		zap.String("balance", entry.Balance.String()))
	s.publish(ctx, commerce.NewStockAdjustedEvent(entry))
	return product, errs, nil
}

// ChangeStatus sets the status of a listing
func (s *StoreProductService) ChangeStatus(ctx context.Context, id, status string) (*commerce.StoreProduct, mutation.Errors, error) {
	sc := mutation.StatusChange[*commerce.StoreProduct]{
		Fetch: fetchStoreProduct,
		Clean: func(ctx context.Context, _ mutation.Repositories, p *commerce.StoreProduct, _ shared.Status, _ *mutation.Errors) error {
			return checkStore(ctx, p.StoreID)
		},
		Events: s.Events,
	}
	return sc.Perform(ctx, s.Scope, id, status, nil)
}

// Get returns a visible listing
func (s *StoreProductService) Get(ctx context.Context, id uuid.UUID) (*commerce.StoreProduct, error) {
	return s.Repos.StoreProducts().FindByID(ctx, id, shared.ManagerDefault)
}

// List returns listings ordered by name. Without an explicit manager only
// sellable listings are returned.
func (s *StoreProductService) List(ctx context.Context, in ListInput, manager *shared.Manager) (shared.Page[commerce.StoreProduct], error) {
	f := in.filter()
	f.Manager = shared.ManagerActive
	if manager != nil {
		f.Manager = *manager
	}
	repo := s.Repos.StoreProducts()
	return page(ctx, f, repo.FindAll, repo.Count)
}

// StockEntries returns the ledger of a listing, newest first
func (s *StoreProductService) StockEntries(ctx context.Context, product *commerce.StoreProduct, in ListInput) ([]commerce.StockEntry, error) {
	if err := checkStore(ctx, product.StoreID); err != nil {
		return nil, err
	}
	return s.Repos.StoreProducts().FindStockEntries(ctx, product.ID, in.filter())
}

// restock returns the quantities of items to their listings
func restock(ctx context.Context, repos mutation.Repositories, items []commerce.OrderItem, note string) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.StoreProductID)
	}
	products, err := repos.StoreProducts().FindByIDsForUpdate(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*commerce.StoreProduct, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	entries := make([]*commerce.StockEntry, 0, len(items))
	for _, it := range items {
		p, ok := byID[it.StoreProductID]
		if !ok {
			continue
		}
		entry, err := p.Adjust(it.Qty, commerce.StockReturn, note)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	for _, p := range byID {
		if err := repos.StoreProducts().Save(ctx, p); err != nil {
			return err
		}
	}
	return repos.StoreProducts().AddStockEntries(ctx, entries...)
}
