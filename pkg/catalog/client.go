// Package catalog is a read-only client for the product catalog
// provider. The storefront never writes to the catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/a1-en/E-Shoe-Store/config"
	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

// Client talks to the catalog provider over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client from config.
func NewClient(cfg *config.CatalogConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ProductsByCategory lists the products in a category. An unknown
// category comes back as an empty list, not an error.
func (c *Client) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	endpoint := fmt.Sprintf("%s/products/category/%s", c.baseURL, url.PathEscape(category))

	var resp productsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (*Product, error) {
	endpoint := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	var p Product
	if err := c.getJSON(ctx, endpoint, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search queries the whole catalog by free text.
func (c *Client) Search(ctx context.Context, query string) ([]Product, error) {
	endpoint := fmt.Sprintf("%s/products/search?q=%s", c.baseURL, url.QueryEscape(query))

	var resp productsResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to create catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "catalog request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrProductNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(err, "failed to decode catalog response")
	}
	return nil
}
