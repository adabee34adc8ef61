package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// fakeRemote records calls and returns configured results.
type fakeRemote struct {
	mu sync.Mutex

	products []models.Product
	orders   []models.Order
	posts    []models.Post

	createProductErr error
	createOrderErr   error

	deletedProducts []string
	createdOrders   []models.Order
}

var _ clients.RemoteStore = (*fakeRemote)(nil)

func (f *fakeRemote) FetchProducts(context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeRemote) FetchOrders(context.Context) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeRemote) FetchPosts(context.Context) ([]models.Post, error) {
	return f.posts, nil
}

func (f *fakeRemote) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createProductErr != nil {
		return models.Product{}, f.createProductErr
	}
	p.ID = "64f1b2c3d4e5f6a7b8c9d0e1"
	return p, nil
}

func (f *fakeRemote) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedProducts = append(f.deletedProducts, id)
	return nil
}

func (f *fakeRemote) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createOrderErr != nil {
		return models.Order{}, f.createOrderErr
	}
	o.ID = "64f1b2c3d4e5f6a7b8c9d0f1"
	f.createdOrders = append(f.createdOrders, o)
	return o, nil
}

func (f *fakeRemote) UploadPost(_ context.Context, upload clients.PostUpload) (models.Post, error) {
	return models.Post{ID: "64f1b2c3d4e5f6a7b8c9d0c1", Caption: upload.Caption, User: upload.Owner}, nil
}

func (f *fakeRemote) DeletePost(context.Context, string, string) error { return nil }

func (f *fakeRemote) ToggleLike(context.Context, string, string) (models.Post, error) {
	return models.Post{}, nil
}

func (f *fakeRemote) AddComment(context.Context, string, string, string) (models.Post, error) {
	return models.Post{}, nil
}

func (f *fakeRemote) RecordView(context.Context, string) (models.Post, error) {
	return models.Post{}, nil
}

func (f *fakeRemote) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletedProducts...)
}

func newTestReconciler(remote clients.RemoteStore) (*Reconciler, *store.Store) {
	logger := zap.NewNop()
	st := store.New(logger)
	directory := seller.NewDirectory()
	linker := seller.NewPayoutLinker(directory, logger)
	r := NewReconciler(st, remote, linker, events.NoopPublisher{}, metrics.NewRegistry(), logger)
	return r, st
}

func newTestReconcilerWithDirectory(remote clients.RemoteStore, directory *seller.Directory) (*Reconciler, *store.Store) {
	logger := zap.NewNop()
	st := store.New(logger)
	linker := seller.NewPayoutLinker(directory, logger)
	r := NewReconciler(st, remote, linker, events.NoopPublisher{}, metrics.NewRegistry(), logger)
	return r, st
}

func TestCreateProduct_ConfirmsAfterRemote(t *testing.T) {
	remote := &fakeRemote{}
	r, st := newTestReconciler(remote)

	view, err := r.CreateProduct(context.Background(), models.Product{
		Title: "Used Bicycle", Price: "₹3500", Category: "Sports",
	})
	require.NoError(t, err)
	assert.Equal(t, store.StatePending, view.Sync)

	r.Flush()

	products := st.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "64f1b2c3d4e5f6a7b8c9d0e1", products[0].ID)
	assert.Equal(t, store.StateConfirmed, products[0].Sync)
}

func TestCreateProduct_FailureKeepsOptimisticEntry(t *testing.T) {
	remote := &fakeRemote{createProductErr: &apperrors.RemoteError{Status: 500, Message: "boom"}}
	r, st := newTestReconciler(remote)

	view, err := r.CreateProduct(context.Background(), models.Product{
		Title: "Bookshelf", Price: "₹1200", Category: "Furniture",
	})
	require.NoError(t, err)

	r.Flush()

	products := st.Products()
	require.Len(t, products, 1)
	assert.Equal(t, view.ID, products[0].ID)
	assert.Equal(t, store.StateFailed, products[0].Sync)
}

func TestCreateProduct_Validation(t *testing.T) {
	r, st := newTestReconciler(&fakeRemote{})

	tests := []struct {
		name    string
		product models.Product
	}{
		{name: "missing title", product: models.Product{Price: "₹10", Category: "Misc"}},
		{name: "missing price", product: models.Product{Title: "X", Category: "Misc"}},
		{name: "malformed price", product: models.Product{Title: "X", Price: "free", Category: "Misc"}},
		{name: "missing category", product: models.Product{Title: "X", Price: "₹10"}},
		{name: "negative stock", product: models.Product{Title: "X", Price: "₹10", Category: "Misc", Stock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.CreateProduct(context.Background(), tt.product)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
	assert.Empty(t, st.Products(), "rejected creates must not stage anything")
}

func TestDeleteProduct_DurableIDReachesUpstream(t *testing.T) {
	remote := &fakeRemote{}
	r, st := newTestReconciler(remote)

	st.ReplaceProducts([]models.Product{{ID: "64f1b2c3d4e5f6a7b8c9d0e1", Title: "Desk"}}, time.Now())

	_, ok := r.DeleteProduct(context.Background(), "64f1b2c3d4e5f6a7b8c9d0e1")
	require.True(t, ok)
	r.Flush()

	assert.Empty(t, st.Products())
	assert.Equal(t, []string{"64f1b2c3d4e5f6a7b8c9d0e1"}, remote.deleted())
}

func TestDeleteProduct_EphemeralIDStaysLocal(t *testing.T) {
	remote := &fakeRemote{createProductErr: errors.New("upstream down")}
	r, st := newTestReconciler(remote)

	view, err := r.CreateProduct(context.Background(), models.Product{
		Title: "Ghost", Price: "₹5", Category: "Misc",
	})
	require.NoError(t, err)
	r.Flush()

	_, ok := r.DeleteProduct(context.Background(), view.ID)
	require.True(t, ok)
	r.Flush()

	assert.Empty(t, st.Products())
	assert.Empty(t, remote.deleted(), "ephemeral ids must never reach the upstream delete")
}

func TestDeleteProduct_Missing(t *testing.T) {
	r, _ := newTestReconciler(&fakeRemote{})

	_, ok := r.DeleteProduct(context.Background(), "64f1b2c3d4e5f6a7b8c9d0ff")
	assert.False(t, ok)
}

func TestCheckout_AmountAndFanout(t *testing.T) {
	remote := &fakeRemote{}
	r, st := newTestReconciler(remote)

	views, err := r.Checkout(context.Background(), models.CheckoutRequest{
		Items: []models.CheckoutItem{
			{Title: "Notebook", Price: "₹120", Quantity: 2},
			{Title: "Pen", Price: "₹30"},
		},
		Buyer:         "asha",
		Address:       "Hostel B, Room 12",
		PaymentMethod: models.PaymentMethodCOD,
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.True(t, views[0].Amount.Equal(decimal.NewFromInt(240)), "120 x 2 = 240, got %s", views[0].Amount)
	assert.True(t, views[1].Amount.Equal(decimal.NewFromInt(30)), "quantity defaults to 1, got %s", views[1].Amount)

	r.Flush()
	orders := st.Orders()
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, store.StateConfirmed, o.Sync)
		assert.Equal(t, "asha", o.Buyer)
	}
}

func TestCheckout_Validation(t *testing.T) {
	r, st := newTestReconciler(&fakeRemote{})
	ctx := context.Background()

	_, err := r.Checkout(ctx, models.CheckoutRequest{
		Address: "somewhere", PaymentMethod: models.PaymentMethodCOD,
	})
	assert.True(t, apperrors.IsValidation(err), "empty cart: %v", err)

	_, err = r.Checkout(ctx, models.CheckoutRequest{
		Items:         []models.CheckoutItem{{Title: "Pen", Price: "₹30"}},
		PaymentMethod: models.PaymentMethodCOD,
	})
	assert.True(t, apperrors.IsValidation(err), "missing address: %v", err)

	_, err = r.Checkout(ctx, models.CheckoutRequest{
		Items:         []models.CheckoutItem{{Title: "Pen", Price: "₹30"}},
		Address:       "somewhere",
		PaymentMethod: "CARD",
	})
	assert.True(t, apperrors.IsValidation(err), "bad payment method: %v", err)

	_, err = r.Checkout(ctx, models.CheckoutRequest{
		Items:         []models.CheckoutItem{{Title: "Pen", Price: "₹0"}},
		Address:       "somewhere",
		PaymentMethod: models.PaymentMethodCOD,
	})
	assert.True(t, apperrors.IsValidation(err), "zero amount: %v", err)

	assert.Empty(t, st.Orders(), "rejected carts must not stage anything")
}

func TestCheckout_PayoutSnapshot(t *testing.T) {
	directory := seller.NewDirectory()
	directory.Upsert(models.SellerProfile{
		UserID: "seller_1",
		Email:  "seller@campus.edu",
		BankDetails: &models.BankDetails{
			AccountName:   "Campus Seller",
			AccountNumber: "9876543210",
			IFSCCode:      "SBIN0001",
		},
	})

	r, st := newTestReconcilerWithDirectory(&fakeRemote{}, directory)

	_, err := r.Checkout(context.Background(), models.CheckoutRequest{
		Items: []models.CheckoutItem{
			{Title: "Calculator", Price: "₹600", SellerEmail: "seller@campus.edu"},
			{Title: "Mystery Item", Price: "₹100", SellerEmail: "unknown@campus.edu"},
		},
		Address:       "Library Annex",
		PaymentMethod: models.PaymentMethodOnline,
		PaymentID:     "pay_123",
	})
	require.NoError(t, err)

	orders := st.Orders()
	require.Len(t, orders, 2)

	// Staged newest first, so the mystery item is at the head.
	assert.Nil(t, orders[0].SellerBankDetails)
	assert.Empty(t, orders[0].PayoutStatus)

	require.NotNil(t, orders[1].SellerBankDetails)
	assert.Equal(t, "9876543210", orders[1].SellerBankDetails.AccountNumber)
	assert.Equal(t, models.PayoutStatusPending, orders[1].PayoutStatus)
}

func TestCheckout_SnapshotImmutableAfterProfileEdit(t *testing.T) {
	directory := seller.NewDirectory()
	directory.Upsert(models.SellerProfile{
		UserID:      "seller_1",
		Email:       "seller@campus.edu",
		BankDetails: &models.BankDetails{AccountNumber: "1111"},
	})

	r, st := newTestReconcilerWithDirectory(&fakeRemote{}, directory)

	_, err := r.Checkout(context.Background(), models.CheckoutRequest{
		Items:         []models.CheckoutItem{{Title: "Calculator", Price: "₹600", SellerEmail: "seller@campus.edu"}},
		Address:       "Library Annex",
		PaymentMethod: models.PaymentMethodCOD,
	})
	require.NoError(t, err)

	directory.Upsert(models.SellerProfile{
		UserID:      "seller_1",
		Email:       "seller@campus.edu",
		BankDetails: &models.BankDetails{AccountNumber: "2222"},
	})

	orders := st.Orders()
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].SellerBankDetails)
	assert.Equal(t, "1111", orders[0].SellerBankDetails.AccountNumber)
}
