package tokopedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marketlens/backend/internal/domain"
	"golang.org/x/time/rate"
)

// SearchFilters narrows an upstream product search. Zero values mean "no filter".
type SearchFilters struct {
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
}

// FetchOptions controls per-record augmentation of search results.
type FetchOptions struct {
	MaxResults        int
	IncludeDetails    bool
	IncludeReviews    bool
	MaxReviewsPerItem int
}

// Client fetches product listings, per-product detail, and reviews from the upstream
// marketplace API. Detail and review augmentation is best effort: a record whose
// augmentation fails stays in the batch un-augmented, because the pipeline treats a
// partially populated batch as fully valid input.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a marketplace API client.
func NewClient(baseURL string) *Client {
	// Keep well under the upstream's informal ~2 req/s tolerance, with a small burst
	// for the augmentation fan-out.
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug enables verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Search returns raw product records matching the keyword, augmented per opts.
func (c *Client) Search(ctx context.Context, keyword string, filters *SearchFilters, opts FetchOptions) ([]domain.RawRecord, error) {
	if keyword == "" {
		return nil, domain.ErrInvalidRequest
	}

	records, err := c.search(ctx, keyword, filters, opts.MaxResults)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNoResults
	}

	if opts.IncludeDetails || opts.IncludeReviews {
		c.augment(ctx, records, opts)
	}

	return records, nil
}

func (c *Client) search(ctx context.Context, keyword string, filters *SearchFilters, maxResults int) ([]domain.RawRecord, error) {
	if c.debug {
		log.Printf("[FETCH] searching for %q (max %d)", keyword, maxResults)
	}

	params := url.Values{}
	params.Add("q", keyword)
	if maxResults > 0 {
		params.Add("limit", strconv.Itoa(maxResults))
	}
	if filters != nil {
		if filters.MinPrice > 0 {
			params.Add("pmin", strconv.FormatFloat(filters.MinPrice, 'f', -1, 64))
		}
		if filters.MaxPrice > 0 {
			params.Add("pmax", strconv.FormatFloat(filters.MaxPrice, 'f', -1, 64))
		}
		if filters.MinRating > 0 {
			params.Add("rt", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
		}
	}
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	// Retry up to 3 times for transient failures.
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[FETCH] request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[FETCH] search status %d (attempt %d)", resp.StatusCode, attempt)
			}
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrNoResults
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrSearchFailure, resp.StatusCode)
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp struct {
			Products []domain.RawRecord `json:"products"`
		}
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("failed to decode search response: %w", err)
		}
		return searchResp.Products, nil
	}

	log.Printf("[FETCH] all retries failed for keyword %q", keyword)
	return nil, lastErr
}

// augment merges per-product detail fields and reviews into each record in place.
// Records without a product_id, and records whose detail or review fetch fails, are
// left as the search returned them.
func (c *Client) augment(ctx context.Context, records []domain.RawRecord, opts FetchOptions) {
	for _, record := range records {
		id, ok := productID(record)
		if !ok {
			continue
		}

		if opts.IncludeDetails {
			detail, err := c.productDetail(ctx, id)
			if err != nil {
				log.Printf("[FETCH] detail fetch failed for product %s: %v", id, err)
			} else {
				for key, value := range detail {
					if _, exists := record[key]; !exists {
						record[key] = value
					}
				}
			}
		}

		if opts.IncludeReviews {
			reviews, err := c.productReviews(ctx, id, opts.MaxReviewsPerItem)
			if err != nil {
				log.Printf("[FETCH] review fetch failed for product %s: %v", id, err)
			} else if len(reviews) > 0 {
				record["product_reviews"] = reviews
			}
		}
	}
}

func (c *Client) productDetail(ctx context.Context, id string) (map[string]any, error) {
	reqURL := fmt.Sprintf("%s/product/%s", c.baseURL, url.PathEscape(id))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var detail map[string]any
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode product detail: %w", err)
	}
	return detail, nil
}

func (c *Client) productReviews(ctx context.Context, id string, maxReviews int) ([]any, error) {
	params := url.Values{}
	if maxReviews > 0 {
		params.Add("limit", strconv.Itoa(maxReviews))
	}
	reqURL := fmt.Sprintf("%s/product/%s/reviews?%s", c.baseURL, url.PathEscape(id), params.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var reviewResp struct {
		Reviews []any `json:"reviews"`
	}
	if err := json.Unmarshal(body, &reviewResp); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviewResp.Reviews, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrSearchFailure, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MarketLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailure, err)
	}
	return resp, nil
}

// exponentialBackoff returns the wait before retry n: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// productID extracts the record's product identifier, tolerating numeric ids.
func productID(record domain.RawRecord) (string, bool) {
	value, ok := record.Lookup("product_id")
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
