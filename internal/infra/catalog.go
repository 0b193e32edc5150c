package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/marcadamcarter/pantry-scanner/internal/dto"
)

// catalogResponse mirrors the Open Food Facts v2 product payload — the subset
// the scanner needs to prefill an item draft.
type catalogResponse struct {
	Status  int `json:"status"` // 1 = found, 0 = unknown code
	Product struct {
		ProductName string `json:"product_name"`
		Brands      string `json:"brands"`
		Quantity    string `json:"quantity"` // package size as printed, e.g. "500 g"
	} `json:"product"`
}

// CatalogClient fetches product metadata for a barcode from the external
// catalog service. It carries no cache and no retry policy of its own — the
// lookup service layers memoization and the circuit breaker on top.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch returns the product for code, or (nil, nil) when the catalog does not
// know the code. Only transport and server failures are errors.
func (c *CatalogClient) Fetch(ctx context.Context, code string) (*dto.ProductInfo, error) {
	url := fmt.Sprintf("%s/product/%s.json", c.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: returned %d", resp.StatusCode)
	}

	var result catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}
	if result.Status != 1 || result.Product.ProductName == "" {
		return nil, nil
	}

	info := &dto.ProductInfo{Name: result.Product.ProductName}
	if result.Product.Brands != "" {
		brand := result.Product.Brands
		info.Brand = &brand
	}
	if result.Product.Quantity != "" {
		size := result.Product.Quantity
		info.Size = &size
	}
	return info, nil
}
