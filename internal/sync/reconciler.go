// Package sync applies create/delete intents to the local view immediately
// and reconciles them against the upstream store as responses arrive, in
// whatever order they arrive.
package sync

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// Reconciler owns the optimistic mutation flow: stage locally, return the
// optimistic view synchronously, reconcile the remote response later.
type Reconciler struct {
	store     *store.Store
	remote    clients.RemoteStore
	linker    *seller.PayoutLinker
	publisher events.Publisher
	metrics   *metrics.Registry
	logger    *zap.Logger

	inflight sync.WaitGroup
}

func NewReconciler(
	st *store.Store,
	remote clients.RemoteStore,
	linker *seller.PayoutLinker,
	publisher events.Publisher,
	reg *metrics.Registry,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		store:     st,
		remote:    remote,
		linker:    linker,
		publisher: publisher,
		metrics:   reg,
		logger:    logger.Named("reconciler"),
	}
}

// Flush blocks until every in-flight reconciliation has completed. Used at
// shutdown and by tests.
func (r *Reconciler) Flush() {
	r.inflight.Wait()
}

// CreateProduct stages the product under an ephemeral identity and returns
// the optimistic view at once; the remote create runs in the background.
func (r *Reconciler) CreateProduct(ctx context.Context, p models.Product) (store.ProductView, error) {
	if err := validateProduct(&p); err != nil {
		return store.ProductView{}, err
	}
	if p.Status == "" {
		p.Status = "Active"
	}

	view, ticket := r.store.StageProduct(p)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		// The caller's request context ends when the optimistic response is
		// written; the reconciliation outlives it.
		confirmed, err := r.remote.CreateProduct(context.Background(), p)
		if err != nil {
			r.metrics.CreatesFailed.Inc()
			r.logger.Warn("product create failed upstream, keeping optimistic entry",
				zap.String("local_id", view.ID), zap.Error(err))
			r.failProduct(ticket)
			return
		}
		r.confirmProduct(ticket, confirmed)
	}()

	return view, nil
}

// DeleteProduct removes the entry locally at once. The remote delete is
// issued only for identities that plausibly exist upstream; entries that
// never left the optimistic state are removed locally only.
func (r *Reconciler) DeleteProduct(ctx context.Context, id string) (models.Product, bool) {
	removed, ok := r.store.RemoveProduct(id)
	if !ok {
		return models.Product{}, false
	}

	if models.IsDurableID(id) {
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			if err := r.remote.DeleteProduct(context.Background(), id); err != nil {
				// Best-effort: the local removal stands either way.
				r.logger.Warn("product delete failed upstream",
					zap.String("id", id), zap.Error(err))
			}
		}()
	}
	return removed, true
}

// CreateOrder stages a single order with its payout snapshot attached and
// reconciles the remote create in the background.
func (r *Reconciler) CreateOrder(ctx context.Context, o models.Order) (store.OrderView, error) {
	if err := validateOrder(&o); err != nil {
		return store.OrderView{}, err
	}

	r.linker.Attach(&o)
	view, ticket := r.store.StageOrder(o)

	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		confirmed, err := r.remote.CreateOrder(context.Background(), o)
		if err != nil {
			r.metrics.CreatesFailed.Inc()
			r.logger.Warn("order create failed upstream, keeping optimistic entry",
				zap.String("local_id", view.ID), zap.Error(err))
			if ferr := r.store.FailOrder(ticket); ferr != nil && ferr != store.ErrStale {
				r.logger.Debug("order fail-mark skipped", zap.Error(ferr))
			}
			return
		}
		if err := r.store.ConfirmOrder(ticket, confirmed); err != nil {
			r.dropReconcile("order", ticket.Handle, err)
			return
		}
		r.metrics.ReconcileApplied.Inc()
		if err := r.publisher.PublishOrderCreated(context.Background(), confirmed); err != nil {
			r.logger.Warn("order created event not published", zap.Error(err))
		}
	}()

	return view, nil
}

func (r *Reconciler) confirmProduct(ticket store.Ticket, confirmed models.Product) {
	if err := r.store.ConfirmProduct(ticket, confirmed); err != nil {
		r.dropReconcile("product", ticket.Handle, err)
		return
	}
	r.metrics.ReconcileApplied.Inc()
	r.logger.Debug("product confirmed",
		zap.String("local_id", ticket.Handle),
		zap.String("durable_id", confirmed.ID))
}

func (r *Reconciler) failProduct(ticket store.Ticket) {
	if err := r.store.FailProduct(ticket); err != nil && err != store.ErrStale {
		r.logger.Debug("product fail-mark skipped", zap.Error(err))
	}
}

func (r *Reconciler) dropReconcile(kind, handle string, err error) {
	if err == store.ErrStale {
		r.metrics.ReconcileStale.Inc()
	}
	r.logger.Debug("reconciliation dropped",
		zap.String("kind", kind),
		zap.String("handle", handle),
		zap.Error(err))
}
