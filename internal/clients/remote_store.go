package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// RemoteStore is the authoritative document store the sync layer reconciles
// against.
type RemoteStore interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
	FetchPosts(ctx context.Context) ([]models.Post, error)

	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)

	UploadPost(ctx context.Context, upload PostUpload) (models.Post, error)
	DeletePost(ctx context.Context, id, requesterID string) error
	ToggleLike(ctx context.Context, postID, viewerID string) (models.Post, error)
	AddComment(ctx context.Context, postID, author, text string) (models.Post, error)
	RecordView(ctx context.Context, postID string) (models.Post, error)
}

// PostUpload is the multipart payload of a post creation: binary media plus
// the caption and the owner identity bundle.
type PostUpload struct {
	Media     io.Reader
	Filename  string
	Caption   string
	Owner     models.PostOwner
	Promotion *models.Promotion
}

// HTTPRemoteStore implements RemoteStore over the upstream JSON API.
type HTTPRemoteStore struct {
	baseURL    string
	httpClient *http.Client
	latency    prometheus.Histogram
	logger     *zap.Logger
}

func NewHTTPRemoteStore(cfg config.UpstreamConfig, logger *zap.Logger) *HTTPRemoteStore {
	return &HTTPRemoteStore{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("remote-store"),
	}
}

// WithLatencyObserver records upstream round-trip durations on the given
// histogram.
func (c *HTTPRemoteStore) WithLatencyObserver(h prometheus.Histogram) *HTTPRemoteStore {
	c.latency = h
	return c
}

func (c *HTTPRemoteStore) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.getJSON(ctx, "/api/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPRemoteStore) FetchOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := c.getJSON(ctx, "/api/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPRemoteStore) FetchPosts(ctx context.Context) ([]models.Post, error) {
	var out []models.Post
	if err := c.getJSON(ctx, "/api/reels", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPRemoteStore) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	// The ephemeral id never leaves the process; the store assigns the
	// durable one.
	p.ID = ""
	var saved models.Product
	if err := c.postJSON(ctx, "/api/products", p, &saved); err != nil {
		return models.Product{}, err
	}
	return saved, nil
}

func (c *HTTPRemoteStore) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

func (c *HTTPRemoteStore) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	o.ID = ""
	var saved models.Order
	if err := c.postJSON(ctx, "/api/orders", o, &saved); err != nil {
		return models.Order{}, err
	}
	return saved, nil
}

// UploadPost sends the multipart creation request. Upload is a single
// synchronous call; the response is already durable.
func (c *HTTPRemoteStore) UploadPost(ctx context.Context, upload PostUpload) (models.Post, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("video", upload.Filename)
	if err != nil {
		return models.Post{}, err
	}
	if _, err := io.Copy(part, upload.Media); err != nil {
		return models.Post{}, err
	}

	fields := map[string]string{
		"caption":    upload.Caption,
		"userId":     upload.Owner.UserID,
		"userName":   upload.Owner.Name,
		"userEmail":  upload.Owner.Email,
		"storeName":  upload.Owner.StoreName,
		"userAvatar": upload.Owner.Avatar,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return models.Post{}, err
		}
	}
	if upload.Promotion != nil {
		promo, err := json.Marshal(upload.Promotion)
		if err != nil {
			return models.Post{}, err
		}
		if err := w.WriteField("promotion", string(promo)); err != nil {
			return models.Post{}, err
		}
	}
	if err := w.Close(); err != nil {
		return models.Post{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/reels", &body)
	if err != nil {
		return models.Post{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var saved models.Post
	if err := c.send(req, http.StatusCreated, &saved); err != nil {
		return models.Post{}, err
	}
	return saved, nil
}

func (c *HTTPRemoteStore) DeletePost(ctx context.Context, id, requesterID string) error {
	payload := map[string]string{"userId": requesterID}
	return c.do(ctx, http.MethodDelete, "/api/reels/"+id, payload, nil)
}

func (c *HTTPRemoteStore) ToggleLike(ctx context.Context, postID, viewerID string) (models.Post, error) {
	payload := map[string]string{"userId": viewerID}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/reels/"+postID+"/like", payload, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (c *HTTPRemoteStore) AddComment(ctx context.Context, postID, author, text string) (models.Post, error) {
	payload := map[string]string{"user": author, "text": text}
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/reels/"+postID+"/comment", payload, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (c *HTTPRemoteStore) RecordView(ctx context.Context, postID string) (models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, "/api/reels/"+postID+"/view", nil, &post); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (c *HTTPRemoteStore) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPRemoteStore) postJSON(ctx context.Context, path string, in, out any) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, in)
	if err != nil {
		return err
	}
	return c.send(req, http.StatusCreated, out)
}

func (c *HTTPRemoteStore) do(ctx context.Context, method, path string, in, out any) error {
	req, err := c.newJSONRequest(ctx, method, path, in)
	if err != nil {
		return err
	}
	return c.send(req, http.StatusOK, out)
}

func (c *HTTPRemoteStore) newJSONRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPRemoteStore) send(req *http.Request, wantStatus int, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.latency != nil {
		c.latency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return &apperrors.RemoteError{Message: err.Error()}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case wantStatus:
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusForbidden:
		return apperrors.ErrUnauthorized
	default:
		// The upstream surface has no machine-readable error taxonomy;
		// carry the raw message through.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &apperrors.RemoteError{Status: resp.StatusCode, Message: string(msg)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
