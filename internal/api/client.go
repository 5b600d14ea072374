// Package api is the HTTP client of the strategy backend. Writes always go
// through the transformer's payload check; reads come back in form shape.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/logging"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strategy"
)

// ClientConfig holds backend connection settings.
type ClientConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	Retries  int
	CacheTTL time.Duration // 0 disables caching of fetched strategies
	Breaker  BreakerConfig
}

// Client talks to the strategy backend.
type Client struct {
	http        *resty.Client
	transformer *strategy.Transformer
	cache       *cache.Cache
	breaker     *breaker
	logger      zerolog.Logger
}

// errorBody covers the error shapes the backend returns.
type errorBody struct {
	Detail  interface{} `json:"detail"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
}

func (e *errorBody) text() string {
	switch {
	case e == nil:
		return ""
	case e.Message != "":
		return e.Message
	case e.Error != "":
		return e.Error
	case e.Detail != nil:
		if s, ok := e.Detail.(string); ok {
			return s
		}
		return fmt.Sprint(e.Detail)
	}
	return ""
}

// NewClient creates a backend client. The transformer is used to build
// payloads on write and form data on read.
func NewClient(cfg ClientConfig, t *strategy.Transformer, logger zerolog.Logger) *Client {
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.Token != "" {
		httpClient.SetAuthToken(cfg.Token)
	}

	c := &Client{
		http:        httpClient,
		transformer: t,
		breaker:     newBreaker(cfg.Breaker),
		logger:      logging.WithComponent(logger, "api"),
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

// BreakerState returns the state of the backend circuit.
func (c *Client) BreakerState() CircuitState {
	return c.breaker.State()
}

// CreateStrategy validates data, converts it and stores it under basketID.
// It returns the stored strategy including its server assigned ID.
func (c *Client) CreateStrategy(ctx context.Context, basketID string, data *models.StrategyFormData, index string, expiryType models.ExpiryType) (*models.BackendStrategy, error) {
	payload, err := c.transformer.CreateAPIPayload(basketID, data, index, expiryType)
	if err != nil {
		return nil, err
	}

	var saved models.BackendStrategy
	if err := c.do(ctx, http.MethodPost, "/strategies", payload, &saved); err != nil {
		return nil, err
	}
	c.forgetBasket(payload.BasketID)
	return &saved, nil
}

// UpdateStrategy replaces the strategy with the given ID.
func (c *Client) UpdateStrategy(ctx context.Context, id, basketID string, data *models.StrategyFormData, index string, expiryType models.ExpiryType) (*models.BackendStrategy, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", id, "strategy ID is required")
	}

	payload, err := c.transformer.CreateAPIPayload(basketID, data, index, expiryType)
	if err != nil {
		return nil, err
	}
	payload.ID = id

	var saved models.BackendStrategy
	if err := c.do(ctx, http.MethodPut, strategyPath(id), payload, &saved); err != nil {
		return nil, err
	}
	c.forget(id)
	c.forgetBasket(payload.BasketID)
	return &saved, nil
}

// GetStrategy fetches a strategy and converts it into form data. Fetched
// strategies are cached for the configured TTL.
func (c *Client) GetStrategy(ctx context.Context, id, basketID string) (*models.StrategyFormData, error) {
	if id == "" {
		return nil, errors.NewValidationError("id", id, "strategy ID is required")
	}

	key := strategyKey(id)
	if b, ok := c.cached(key); ok {
		c.logger.Debug().Str("id", id).Msg("Strategy served from cache")
		return c.transformer.ToFrontend(b, basketID), nil
	}

	var b models.BackendStrategy
	if err := c.do(ctx, http.MethodGet, strategyPath(id), nil, &b); err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.Set(key, &b, cache.DefaultExpiration)
	}
	return c.transformer.ToFrontend(&b, basketID), nil
}

// DeleteStrategy removes the strategy with the given ID.
func (c *Client) DeleteStrategy(ctx context.Context, id string) error {
	if id == "" {
		return errors.NewValidationError("id", id, "strategy ID is required")
	}
	if err := c.do(ctx, http.MethodDelete, strategyPath(id), nil, nil); err != nil {
		return err
	}
	c.forget(id)
	if c.cache != nil {
		// The basket of a deleted strategy is unknown here.
		for key := range c.cache.Items() {
			if strings.HasPrefix(key, "basket:") {
				c.cache.Delete(key)
			}
		}
	}
	return nil
}

// ListStrategies returns every strategy of a basket in form shape.
func (c *Client) ListStrategies(ctx context.Context, basketID string) ([]*models.StrategyFormData, error) {
	if basketID == "" {
		return nil, errors.NewValidationError("basket_id", basketID, "basket ID is required")
	}

	key := basketKey(basketID)
	var list []models.BackendStrategy
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			list, _ = v.([]models.BackendStrategy)
		}
	}
	if list == nil {
		path := "/baskets/" + url.PathEscape(basketID) + "/strategies"
		if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
			return nil, err
		}
		if list == nil {
			list = []models.BackendStrategy{}
		}
		if c.cache != nil {
			c.cache.Set(key, list, cache.DefaultExpiration)
		}
	}

	out := make([]*models.StrategyFormData, 0, len(list))
	for i := range list {
		out = append(out, c.transformer.ToFrontend(&list[i], basketID))
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	if err := c.breaker.allow(); err != nil {
		return errors.NewAPIError(method, path, 0, "backend skipped", err)
	}

	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	err = classify(method, path, resp, err)
	c.breaker.record(err)
	logging.LogAPICall(c.logger, method, path, time.Since(start), err)
	return err
}

// classify maps a resty outcome onto the package's sentinel errors.
func classify(method, path string, resp *resty.Response, err error) error {
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errors.NewAPIError(method, path, 0, "request aborted", err)
		}
		return errors.NewAPIError(method, path, 0, "request failed", fmt.Errorf("%w: %v", errors.ErrBackendUnavailable, err))
	}
	if !resp.IsError() {
		return nil
	}

	status := resp.StatusCode()
	msg, _ := resp.Error().(*errorBody)
	text := msg.text()
	if text == "" {
		text = http.StatusText(status)
	}

	var cause error
	switch {
	case status == http.StatusNotFound:
		cause = errors.ErrStrategyNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		cause = errors.ErrNotAuthenticated
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		cause = errors.ErrPayloadSchema
	case status >= http.StatusInternalServerError:
		cause = errors.ErrBackendUnavailable
	default:
		cause = fmt.Errorf("unexpected status %d", status)
	}
	return errors.NewAPIError(method, path, status, text, cause)
}

func (c *Client) cached(key string) (*models.BackendStrategy, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	b, ok := v.(*models.BackendStrategy)
	return b, ok
}

func (c *Client) forget(id string) {
	if c.cache != nil {
		c.cache.Delete(strategyKey(id))
	}
}

func (c *Client) forgetBasket(basketID string) {
	if c.cache != nil {
		c.cache.Delete(basketKey(basketID))
	}
}

func strategyPath(id string) string {
	return "/strategies/" + url.PathEscape(id)
}

func strategyKey(id string) string {
	return "strategy:" + id
}

func basketKey(basketID string) string {
	return "basket:" + basketID
}
