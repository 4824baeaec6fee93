package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ecoscan/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client handles communication with the Open Food Facts product API.
// One scan is exactly one GET {baseURL}/{barcode}.json; there are no retries
// and no caching, each scan sees a fresh lookup.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new Open Food Facts client. The limiter is a courtesy
// cap for the public API (it asks clients to stay under ~100 product reads
// per minute), generous enough that a single device never waits on it.
func NewClient(baseURL, userAgent string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Limit(100.0/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// FetchProduct looks up a single product by barcode. It returns
// domain.ErrInvalidBarcode for an empty barcode (before any I/O),
// domain.ErrProductNotFound when the database has no product body for the
// code, and domain.ErrLookupFailed for transport failures and unexpected
// statuses.
func (c *Client) FetchProduct(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidBarcode
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(barcode))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("product lookup transport error",
			zap.String("barcode", barcode),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("product lookup unexpected status",
			zap.String("barcode", barcode),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, resp.StatusCode)
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrLookupFailed, err)
	}

	// The v0 API answers 200 with status 0 and no product body for
	// unknown barcodes.
	if payload.Product == nil || payload.Status == 0 {
		return nil, domain.ErrProductNotFound
	}

	record := mapToProductRecord(barcode, payload.Product)
	c.logger.Debug("product lookup succeeded",
		zap.String("barcode", barcode),
		zap.String("product_name", record.ProductName))
	return record, nil
}
