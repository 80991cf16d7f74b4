package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	v1 "github.com/supplydesk/desk/api/v1"
	"github.com/supplydesk/desk/internal/client"
	"github.com/supplydesk/desk/internal/store"
	"github.com/supplydesk/desk/pkg/metrics"
	"go.uber.org/zap"
)

const requestsKind = "requests"

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// RequestRepository keeps the canonical list of requests and the open request detail.
type RequestRepository struct {
	client   client.Desk
	requests *store.Collection[int64, v1.Request]
	detail   *store.Slot[int64, v1.RequestDetail]
	log      *zap.SugaredLogger
}

func NewRequestRepository(c client.Desk) *RequestRepository {
	return &RequestRepository{
		client:   c,
		requests: store.NewCollection(func(r v1.Request) int64 { return r.Id }),
		detail:   store.NewSlot[int64, v1.RequestDetail](),
		log:      zap.S().Named("requests"),
	}
}

// Refresh replaces the canonical list with the server's. On failure the previous list stays.
func (r *RequestRepository) Refresh(ctx context.Context) error {
	requests, err := r.client.ListRequests(ctx)
	if err != nil {
		metrics.IncreaseRefreshTotalMetric(requestsKind, metrics.ResultError)
		return fmt.Errorf("refreshing requests: %w", err)
	}

	for _, fresh := range requests {
		if known, err := r.requests.Get(fresh.Id); err == nil && fresh.Status.Before(known.Status) {
			r.log.Debugw("request status went back", "id", fresh.Id, "known", known.Status, "received", fresh.Status)
		}
	}

	r.requests.Replace(requests)
	metrics.IncreaseRefreshTotalMetric(requestsKind, metrics.ResultSuccess)
	metrics.UpdateCanonicalItemsMetric(requestsKind, len(requests))
	return nil
}

func (r *RequestRepository) List() []v1.Request {
	return r.requests.List()
}

func (r *RequestRepository) Get(id int64) (v1.Request, error) {
	return r.requests.Get(id)
}

// Loaded reports whether the list was fetched at least once.
func (r *RequestRepository) Loaded() bool {
	return r.requests.Loaded()
}

// Open fetches the detail of id. The detail is kept as the open one only if id is still
// open when the response arrives.
func (r *RequestRepository) Open(ctx context.Context, id int64) (*v1.RequestDetail, error) {
	return r.load(ctx, id, r.detail.Open(id))
}

func (r *RequestRepository) load(ctx context.Context, id int64, generation uint64) (*v1.RequestDetail, error) {
	detail, err := r.client.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.detail.Store(generation, detail); err != nil {
		r.log.Debugw("dropping request detail", "id", id, "error", err)
		return nil, err
	}
	return detail, nil
}

// Detail returns the open request detail. It is nil while the first fetch is in flight.
func (r *RequestRepository) Detail() (int64, *v1.RequestDetail, bool) {
	return r.detail.Current()
}

func (r *RequestRepository) Close() {
	r.detail.Close()
}

// Upload sends a document to create a draft request and refreshes the list.
func (r *RequestRepository) Upload(ctx context.Context, filename string, content io.Reader) (v1.UploadResult, error) {
	if !client.AllowedUpload(filename) {
		return v1.UploadResult{}, client.NewErrUpload("unsupported file format: %s", filename)
	}
	result, err := r.client.UploadDocument(ctx, filename, content)
	if err != nil {
		return v1.UploadResult{}, err
	}
	r.log.Infow("document uploaded", "request_id", result.RequestId, "items", result.Items)

	if err := r.Refresh(ctx); err != nil {
		r.log.Warnw("refresh after upload failed", "error", err)
	}
	return result, nil
}

// Submit asks the server to move a draft forward. The list is re-read afterwards, and the
// detail too when the request is open.
func (r *RequestRepository) Submit(ctx context.Context, id int64) (v1.SubmitResult, error) {
	if known, err := r.requests.Get(id); err == nil && !known.Status.Submittable() {
		return v1.SubmitResult{}, client.NewErrInvalidState("request %d is %s: only drafts can be submitted", id, known.Status)
	}

	result, err := r.client.SubmitRequest(ctx, id)
	if err != nil {
		return v1.SubmitResult{}, err
	}
	r.log.Infow("request submitted", "id", id, "status", result.NewStatus)

	r.refreshAfterAction(ctx, id)
	return result, nil
}

// Delete removes a draft once c confirms it. A declined confirmation returns false and
// no error.
func (r *RequestRepository) Delete(ctx context.Context, id int64, c Confirmer) (bool, error) {
	if c == nil {
		return false, client.NewErrValidation("deleting request %d requires a confirmation", id)
	}
	if known, err := r.requests.Get(id); err == nil && !known.Status.Deletable() {
		return false, client.NewErrInvalidState("request %d is %s: only drafts can be deleted", id, known.Status)
	}

	confirmed, err := c.Confirm(ctx, fmt.Sprintf("Delete request %d?", id))
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	if _, err := r.client.DeleteRequest(ctx, id); err != nil {
		return false, err
	}
	r.log.Infow("request deleted", "id", id)

	if r.detail.IsOpen(id) {
		r.detail.Close()
	}
	if err := r.Refresh(ctx); err != nil {
		r.log.Warnw("refresh after delete failed", "error", err)
	}
	return true, nil
}

// refreshAfterAction re-reads the list right away. It does not go through the poller, so it
// may overlap a poll of the requests; whichever result lands last is kept.
func (r *RequestRepository) refreshAfterAction(ctx context.Context, id int64) {
	if err := r.Refresh(ctx); err != nil {
		r.log.Warnw("refresh after action failed", "id", id, "error", err)
	}
	generation, open := r.detail.Reload(id)
	if !open {
		return
	}
	if _, err := r.load(ctx, id, generation); err != nil && !errors.Is(err, store.ErrStale) {
		r.log.Warnw("detail reload failed", "id", id, "error", err)
	}
}
