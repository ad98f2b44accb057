package graphql

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	commerceapp "github.com/storefront/backend/internal/application/commerce"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/commerce"
	"github.com/storefront/backend/internal/domain/shared"
)

func commerceList(p graphql.ResolveParams, manager shared.Manager) (commerceapp.ListInput, error) {
	l := readList(p.Args)
	store, err := argOptID(p.Args, "store")
	if err != nil {
		return commerceapp.ListInput{}, err
	}
	return commerceapp.ListInput{Search: l.Search, Offset: l.Offset, Limit: l.Limit, Manager: manager, Store: store}, nil
}

// staffViewer reports whether the viewer sees every customer's orders
func (b *builder) staffViewer(ctx context.Context) (bool, error) {
	user := viewerUser(ctx)
	if user == nil {
		return false, nil
	}
	return storeStaff(ctx, b.svc.Policy, user)
}

func (b *builder) commerce() {
	store := graphql.NewObject(graphql.ObjectConfig{
		Name: "Store",
		Fields: softFields(graphql.Fields{
			"name":         field(graphql.NewNonNull(graphql.String), func(s *commerce.Store) interface{} { return s.Name }),
			"slug":         field(graphql.NewNonNull(graphql.String), func(s *commerce.Store) interface{} { return s.Slug }),
			"code":         field(graphql.NewNonNull(graphql.String), func(s *commerce.Store) interface{} { return s.Code }),
			"mobile":       field(graphql.String, func(s *commerce.Store) interface{} { return str(s.Mobile) }),
			"email":        field(graphql.String, func(s *commerce.Store) interface{} { return str(s.Email) }),
			"address":      field(graphql.String, func(s *commerce.Store) interface{} { return str(s.Address) }),
			"country":      field(graphql.NewNonNull(graphql.String), func(s *commerce.Store) interface{} { return s.CountryCode }),
			"businessType": field(graphql.NewNonNull(graphql.String), func(s *commerce.Store) interface{} { return string(s.BusinessType) }),
		}),
	})
	stockEntry := graphql.NewObject(graphql.ObjectConfig{
		Name: "StockEntry",
		Fields: nodeFields(graphql.Fields{
			"qty":       field(graphql.NewNonNull(Decimal), func(e *commerce.StockEntry) interface{} { return e.Qty }),
			"balance":   field(graphql.NewNonNull(Decimal), func(e *commerce.StockEntry) interface{} { return e.Balance }),
			"stockType": field(graphql.NewNonNull(graphql.String), func(e *commerce.StockEntry) interface{} { return string(e.StockType) }),
			"note":      field(graphql.NewNonNull(graphql.String), func(e *commerce.StockEntry) interface{} { return e.Note }),
		}),
	})
	storeProducts := b.svc.StoreProducts
	storeProduct := graphql.NewObject(graphql.ObjectConfig{
		Name: "StoreProduct",
		Fields: softFields(graphql.Fields{
			"store":         field(graphql.NewNonNull(graphql.ID), func(sp *commerce.StoreProduct) interface{} { return sp.StoreID.String() }),
			"productMaster": field(graphql.NewNonNull(graphql.ID), func(sp *commerce.StoreProduct) interface{} { return sp.ProductMasterID.String() }),
			"name":          field(graphql.NewNonNull(graphql.String), func(sp *commerce.StoreProduct) interface{} { return sp.Name }),
			"stock":         field(graphql.NewNonNull(Decimal), func(sp *commerce.StoreProduct) interface{} { return sp.Stock }),
			"retailPrice":   field(graphql.NewNonNull(Decimal), func(sp *commerce.StoreProduct) interface{} { return sp.RetailPrice }),
			"mrp":           field(graphql.NewNonNull(Decimal), func(sp *commerce.StoreProduct) interface{} { return sp.Mrp }),
			"stockEntries": {
				Type:        nonNullList(stockEntry),
				Description: "Stock ledger, newest first. Visible to store staff only.",
				Args: graphql.FieldConfigArgument{
					"offset": {Type: graphql.Int, DefaultValue: 0},
					"limit":  {Type: graphql.Int, DefaultValue: shared.DefaultLimit},
				},
				Resolve: b.guard(storeStaff, func(p graphql.ResolveParams) (interface{}, error) {
					sp, ok := p.Source.(*commerce.StoreProduct)
					if !ok {
						return []*commerce.StockEntry{}, nil
					}
					entries, err := storeProducts.StockEntries(p.Context, sp, commerceapp.ListInput{
						Offset: argInt(p.Args, "offset"),
						Limit:  argInt(p.Args, "limit"),
					})
					if err != nil {
						return nil, b.public(p.Context, "stockEntries", err)
					}
					return ptrs(entries), nil
				}),
			},
		}),
	})
	offer := graphql.NewObject(graphql.ObjectConfig{
		Name: "Offer",
		Fields: softFields(graphql.Fields{
			"store":         field(graphql.ID, func(o *commerce.Offer) interface{} { return optID(o.StoreID) }),
			"name":          field(graphql.NewNonNull(graphql.String), func(o *commerce.Offer) interface{} { return o.Name }),
			"code":          field(graphql.NewNonNull(graphql.String), func(o *commerce.Offer) interface{} { return o.Code }),
			"offerType":     field(graphql.NewNonNull(graphql.String), func(o *commerce.Offer) interface{} { return string(o.OfferType) }),
			"offerBy":       field(graphql.NewNonNull(graphql.String), func(o *commerce.Offer) interface{} { return string(o.OfferBy) }),
			"value":         field(graphql.NewNonNull(Decimal), func(o *commerce.Offer) interface{} { return o.Value }),
			"minOrderValue": field(graphql.NewNonNull(Decimal), func(o *commerce.Offer) interface{} { return o.MinOrderValue }),
			"startsAt":      field(graphql.NewNonNull(graphql.DateTime), func(o *commerce.Offer) interface{} { return o.StartsAt }),
			"endsAt":        field(graphql.DateTime, func(o *commerce.Offer) interface{} { return optTime(o.EndsAt) }),
		}),
	})
	orderItem := graphql.NewObject(graphql.ObjectConfig{
		Name: "OrderItem",
		Fields: nodeFields(graphql.Fields{
			"storeProduct":  field(graphql.NewNonNull(graphql.ID), func(i *commerce.OrderItem) interface{} { return i.StoreProductID.String() }),
			"productMaster": field(graphql.NewNonNull(graphql.ID), func(i *commerce.OrderItem) interface{} { return i.ProductMasterID.String() }),
			"name":          field(graphql.NewNonNull(graphql.String), func(i *commerce.OrderItem) interface{} { return i.Name }),
			"qty":           field(graphql.NewNonNull(Decimal), func(i *commerce.OrderItem) interface{} { return i.Qty }),
			"price":         field(graphql.NewNonNull(Decimal), func(i *commerce.OrderItem) interface{} { return i.Price }),
			"total":         field(graphql.NewNonNull(Decimal), func(i *commerce.OrderItem) interface{} { return i.Total }),
		}),
	})
	order := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: nodeFields(graphql.Fields{
			"code":          field(graphql.NewNonNull(graphql.String), func(o *commerce.Order) interface{} { return o.Code }),
			"store":         field(graphql.NewNonNull(graphql.ID), func(o *commerce.Order) interface{} { return o.StoreID.String() }),
			"customer":      field(graphql.NewNonNull(graphql.ID), func(o *commerce.Order) interface{} { return o.CustomerUserID.String() }),
			"offer":         field(graphql.ID, func(o *commerce.Order) interface{} { return optID(o.OfferID) }),
			"status":        field(graphql.NewNonNull(graphql.String), func(o *commerce.Order) interface{} { return string(o.Status) }),
			"paymentOption": field(graphql.NewNonNull(graphql.String), func(o *commerce.Order) interface{} { return string(o.PaymentOption) }),
			"paymentStatus": field(graphql.NewNonNull(graphql.String), func(o *commerce.Order) interface{} { return string(o.PaymentStatus) }),
			"deliveryType":  field(graphql.NewNonNull(graphql.String), func(o *commerce.Order) interface{} { return string(o.DeliveryType) }),
			"address":       field(graphql.String, func(o *commerce.Order) interface{} { return str(o.Address) }),
			"note":          field(graphql.String, func(o *commerce.Order) interface{} { return str(o.Note) }),
			"subTotal":      field(graphql.NewNonNull(Decimal), func(o *commerce.Order) interface{} { return o.SubTotal }),
			"discount":      field(graphql.NewNonNull(Decimal), func(o *commerce.Order) interface{} { return o.Discount }),
			"total":         field(graphql.NewNonNull(Decimal), func(o *commerce.Order) interface{} { return o.Total }),
			"placedAt":      field(graphql.NewNonNull(graphql.DateTime), func(o *commerce.Order) interface{} { return o.PlacedAt }),
			"items":         field(nonNullList(orderItem), func(o *commerce.Order) interface{} { return ptrs(o.Items) }),
		}),
	})
	delivery := graphql.NewObject(graphql.ObjectConfig{
		Name: "Delivery",
		Fields: nodeFields(graphql.Fields{
			"order":         field(graphql.NewNonNull(graphql.ID), func(d *commerce.Delivery) interface{} { return d.OrderID.String() }),
			"deliveryAgent": field(graphql.NewNonNull(graphql.ID), func(d *commerce.Delivery) interface{} { return d.DeliveryAgentID.String() }),
			"status":        field(graphql.NewNonNull(graphql.String), func(d *commerce.Delivery) interface{} { return string(d.Status) }),
			"scheduledAt":   field(graphql.DateTime, func(d *commerce.Delivery) interface{} { return optTime(d.ScheduledAt) }),
			"completedAt":   field(graphql.DateTime, func(d *commerce.Delivery) interface{} { return optTime(d.CompletedAt) }),
			"note":          field(graphql.String, func(d *commerce.Delivery) interface{} { return str(d.Note) }),
		}),
	})

	storeInput := inputObject("StoreInput", graphql.InputObjectConfigFieldMap{
		"name":         {Type: graphql.String},
		"mobile":       {Type: graphql.String},
		"email":        {Type: graphql.String},
		"address":      {Type: graphql.String},
		"country":      {Type: graphql.String},
		"businessType": {Type: graphql.String},
	})
	storeProductInput := inputObject("StoreProductInput", graphql.InputObjectConfigFieldMap{
		"store":         {Type: graphql.ID, Description: "Only read when creating."},
		"productMaster": {Type: graphql.ID, Description: "Only read when creating."},
		"name":          {Type: graphql.String},
		"retailPrice":   {Type: Decimal},
		"mrp":           {Type: Decimal},
		"initialStock":  {Type: Decimal},
	})
	stockInput := inputObject("StockInput", graphql.InputObjectConfigFieldMap{
		"qty":       {Type: graphql.NewNonNull(Decimal), Description: "Signed quantity added to the stock."},
		"stockType": {Type: graphql.NewNonNull(graphql.String)},
		"note":      {Type: graphql.String},
	})
	offerInput := inputObject("OfferInput", graphql.InputObjectConfigFieldMap{
		"store":         {Type: graphql.ID},
		"name":          {Type: graphql.String},
		"offerType":     {Type: graphql.String},
		"offerBy":       {Type: graphql.String},
		"value":         {Type: Decimal},
		"minOrderValue": {Type: Decimal},
		"startsAt":      {Type: graphql.DateTime},
		"endsAt":        {Type: graphql.DateTime},
	})
	placeOrderInput := inputObject("PlaceOrderInput", graphql.InputObjectConfigFieldMap{
		"store": {Type: graphql.NewNonNull(graphql.ID)},
		"items": {Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(inputObject("OrderItemInput", graphql.InputObjectConfigFieldMap{
			"storeProduct": {Type: graphql.NewNonNull(graphql.ID)},
			"qty":          {Type: graphql.NewNonNull(Decimal)},
		}))))},
		"offer":         {Type: graphql.String, Description: "Offer code."},
		"paymentOption": {Type: graphql.String},
		"deliveryType":  {Type: graphql.String},
		"address":       {Type: graphql.String},
		"note":          {Type: graphql.String},
	})
	assignInput := inputObject("DeliveryAssignInput", graphql.InputObjectConfigFieldMap{
		"order":         {Type: graphql.NewNonNull(graphql.ID)},
		"deliveryAgent": {Type: graphql.NewNonNull(graphql.ID)},
		"scheduledAt":   {Type: graphql.DateTime},
		"note":          {Type: graphql.String},
	})

	storePayload := b.payload("Store", "store", store)
	storeProductPayload := b.payload("StoreProduct", "storeProduct", storeProduct)
	offerPayload := b.payload("Offer", "offer", offer)
	orderPayload := b.payload("Order", "order", order)
	deliveryPayload := b.payload("Delivery", "delivery", delivery)
	invoicePayload := b.payload("OrderInvoice", "invoice", graphql.NewObject(graphql.ObjectConfig{
		Name: "Invoice",
		Fields: graphql.Fields{
			"url":         field(graphql.NewNonNull(graphql.String), func(l *commerceapp.InvoiceLink) interface{} { return l.URL }),
			"contentType": field(graphql.NewNonNull(graphql.String), func(l *commerceapp.InvoiceLink) interface{} { return l.ContentType }),
			"expiresAt":   field(graphql.NewNonNull(graphql.DateTime), func(l *commerceapp.InvoiceLink) interface{} { return l.ExpiresAt }),
		},
	}))

	stores, offers, orders, deliveries := b.svc.Stores, b.svc.Offers, b.svc.Orders, b.svc.Deliveries

	b.query["stores"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Store", store)),
		Args: listArgs(nil),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			in, err := commerceList(p, shared.ManagerDefault)
			if err != nil {
				return nil, err
			}
			return pageResult(stores.List(p.Context, in))
		},
	}
	b.query["store"] = lookupField(b, nil, store, stores.Get)
	b.query["storeProducts"] = &graphql.Field{
		Type:        graphql.NewNonNull(connection("StoreProduct", storeProduct)),
		Description: "Listings of the stores. Without manager only listings in stock with a price are returned.",
		Args: listArgs(graphql.FieldConfigArgument{
			"store":   {Type: graphql.ID},
			"manager": {Type: b.managerEnum},
		}),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			in, err := commerceList(p, shared.ManagerDefault)
			if err != nil {
				return nil, err
			}
			var manager *shared.Manager
			if m, ok := p.Args["manager"].(shared.Manager); ok {
				manager = &m
			}
			return pageResult(storeProducts.List(p.Context, in, manager))
		},
	}
	b.query["storeProduct"] = lookupField(b, nil, storeProduct, storeProducts.Get)
	b.query["offers"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Offer", offer)),
		Args: listArgs(graphql.FieldConfigArgument{"store": {Type: graphql.ID}}),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			in, err := commerceList(p, shared.ManagerActive)
			if err != nil {
				return nil, err
			}
			return pageResult(offers.List(p.Context, in))
		},
	}
	b.query["offer"] = lookupField(b, nil, offer, offers.Get)
	b.query["orders"] = &graphql.Field{
		Type:        graphql.NewNonNull(connection("Order", order)),
		Description: "Orders, newest first. Customers only see their own.",
		Args: listArgs(graphql.FieldConfigArgument{
			"store":    {Type: graphql.ID},
			"customer": {Type: graphql.ID},
			"status":   {Type: graphql.String},
		}),
		Resolve: b.guard(authenticated(), func(p graphql.ResolveParams) (interface{}, error) {
			base, err := commerceList(p, shared.ManagerDefault)
			if err != nil {
				return nil, err
			}
			in := commerceapp.OrderListInput{
				ListInput: base,
				Customer:  argOptString(p.Args, "customer"),
				Status:    argOptString(p.Args, "status"),
			}
			staff, err := b.staffViewer(p.Context)
			if err != nil {
				return nil, err
			}
			if !staff {
				own := viewerUser(p.Context).ID.String()
				in.Customer = &own
			}
			return pageResult(orders.List(p.Context, in))
		}),
	}
	b.query["order"] = lookupField(b, authenticated(), order, func(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
		o, err := orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		staff, err := b.staffViewer(ctx)
		if err != nil {
			return nil, err
		}
		if !staff && o.CustomerUserID != viewerUser(ctx).ID {
			return nil, shared.ErrNotFound
		}
		return o, nil
	})
	b.query["deliveries"] = &graphql.Field{
		Type: graphql.NewNonNull(connection("Delivery", delivery)),
		Args: listArgs(graphql.FieldConfigArgument{
			"order":         {Type: graphql.ID},
			"deliveryAgent": {Type: graphql.ID},
		}),
		Resolve: b.guard(deliveryStaff, func(p graphql.ResolveParams) (interface{}, error) {
			in, err := commerceList(p, shared.ManagerDefault)
			if err != nil {
				return nil, err
			}
			orderID, err := argOptID(p.Args, "order")
			if err != nil {
				return nil, err
			}
			agentID, err := argOptID(p.Args, "deliveryAgent")
			if err != nil {
				return nil, err
			}
			return pageResult(deliveries.List(p.Context, in, orderID, agentID))
		}),
	}
	b.query["delivery"] = lookupField(b, deliveryStaff, delivery, deliveries.Get)

	b.mutation["storeCreate"] = saveField(b, storeAdmin, storePayload, "store", storeInput, false, stores.Save)
	b.mutation["storeUpdate"] = saveField(b, storeAdmin, storePayload, "store", storeInput, true, stores.Save)
	b.mutation["storeDelete"] = byIDField(b, storeAdmin, storePayload, "store", stores.Delete)
	b.mutation["storeStatusChange"] = statusField(b, storeAdmin, storePayload, "store", true, stores.ChangeStatus)

	b.mutation["storeProductCreate"] = saveField(b, storeStaff, storeProductPayload, "storeProduct", storeProductInput, false, storeProducts.Save)
	b.mutation["storeProductUpdate"] = saveField(b, storeStaff, storeProductPayload, "storeProduct", storeProductInput, true, storeProducts.Save)
	b.mutation["storeProductStock"] = saveField(b, storeStaff, storeProductPayload, "storeProduct", stockInput, true, storeProducts.AdjustStock)
	b.mutation["storeProductStatusChange"] = statusField(b, storeStaff, storeProductPayload, "storeProduct", false, withoutCascade(storeProducts.ChangeStatus))

	b.mutation["offerCreate"] = saveField(b, storeStaff, offerPayload, "offer", offerInput, false, offers.Save)
	b.mutation["offerUpdate"] = saveField(b, storeStaff, offerPayload, "offer", offerInput, true, offers.Save)
	b.mutation["offerStatusChange"] = statusField(b, storeStaff, offerPayload, "offer", false, withoutCascade(offers.ChangeStatus))

	b.mutation["placeOrder"] = &graphql.Field{
		Type: graphql.NewNonNull(orderPayload),
		Args: graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(placeOrderInput)}},
		Resolve: b.guard(customer, func(p graphql.ResolveParams) (interface{}, error) {
			var in commerceapp.PlaceOrderInput
			if err := decode(p.Args["input"], &in); err != nil {
				return nil, err
			}
			o, errs, err := orders.PlaceOrder(p.Context, viewerUser(p.Context).ID, in)
			return payloadResult("order", o, errs, err)
		}),
	}
	b.mutation["orderInvoice"] = &graphql.Field{
		Type:        graphql.NewNonNull(invoicePayload),
		Description: "Renders the invoice of a confirmed order and returns a signed download link.",
		Args:        graphql.FieldConfigArgument{"id": {Type: graphql.NewNonNull(graphql.ID)}},
		Resolve: b.guard(authenticated(), func(p graphql.ResolveParams) (interface{}, error) {
			if b.svc.Invoices == nil {
				return nil, errors.New("invoices are not configured")
			}
			staff, err := b.staffViewer(p.Context)
			if err != nil {
				return nil, err
			}
			var customer *uuid.UUID
			if !staff {
				customer = &viewerUser(p.Context).ID
			}
			link, errs, err := b.svc.Invoices.Generate(p.Context, argString(p.Args, "id"), customer)
			return payloadResult("invoice", link, errs, err)
		}),
	}
	b.mutation["orderStatusChange"] = statusField(b, storeStaff, orderPayload, "order", false, withoutCascade(orders.ChangeStatus))
	b.mutation["deliveryAssign"] = &graphql.Field{
		Type: graphql.NewNonNull(deliveryPayload),
		Args: graphql.FieldConfigArgument{"input": {Type: graphql.NewNonNull(assignInput)}},
		Resolve: b.guard(storeStaff, func(p graphql.ResolveParams) (interface{}, error) {
			var in commerceapp.DeliveryAssignInput
			if err := decode(p.Args["input"], &in); err != nil {
				return nil, err
			}
			d, errs, err := deliveries.Assign(p.Context, in)
			return payloadResult("delivery", d, errs, err)
		}),
	}
	b.mutation["deliveryStatusChange"] = statusField(b, deliveryStaff, deliveryPayload, "delivery", false, withoutCascade(deliveries.ChangeStatus))
}

// withoutCascade adapts a status change that never cascades
func withoutCascade[T any](change func(context.Context, string, string) (*T, mutation.Errors, error)) func(context.Context, string, string, *bool) (*T, mutation.Errors, error) {
	return func(ctx context.Context, id, status string, _ *bool) (*T, mutation.Errors, error) {
		return change(ctx, id, status)
	}
}
