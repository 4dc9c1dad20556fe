// Package catalog is a REST client for the product search API behind the
// packing list and product search handlers. Malformed items in a response
// are skipped per item rather than failing the whole search.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/voyagent/voyagent/agent/contract"
	logx "github.com/voyagent/voyagent/pkg/logger"
)

type Config struct {
	URL        string        `split_words:"true"`
	AccessKey  string        `split_words:"true"`
	SecretKey  string        `split_words:"true"`
	PartnerTag string        `split_words:"true"`
	Timeout    time.Duration `split_words:"true" default:"10s"`
}

// Enabled reports whether the credential set is complete. An incomplete set
// means the catalog-backed handlers get their fallback variants.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != "" &&
		strings.TrimSpace(c.PartnerTag) != ""
}

type Client struct {
	baseURL    string
	accessKey  string
	secretKey  string
	partnerTag string
	httpClient *http.Client
}

var _ contractx.CatalogSearcher = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("catalog credentials are incomplete")
	}

	baseURL := strings.TrimSpace(cfg.URL)
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accessKey:  strings.TrimSpace(cfg.AccessKey),
		secretKey:  strings.TrimSpace(cfg.SecretKey),
		partnerTag: strings.TrimSpace(cfg.PartnerTag),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type searchRequest struct {
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Keywords    string   `json:"Keywords"`
	SearchIndex string   `json:"SearchIndex"`
	ItemCount   int      `json:"ItemCount"`
	Resources   []string `json:"Resources"`
}

type searchResponse struct {
	SearchResult struct {
		Items []struct {
			ASIN          string `json:"ASIN"`
			DetailPageURL string `json:"DetailPageURL"`
			ItemInfo      struct {
				Title struct {
					DisplayValue string `json:"DisplayValue"`
				} `json:"Title"`
			} `json:"ItemInfo"`
			Offers struct {
				Listings []struct {
					Price struct {
						Amount float64 `json:"Amount"`
					} `json:"Price"`
				} `json:"Listings"`
			} `json:"Offers"`
			CustomerReviews struct {
				StarRating struct {
					Value float64 `json:"Value"`
				} `json:"StarRating"`
				Count int `json:"Count"`
			} `json:"CustomerReviews"`
		} `json:"Items"`
	} `json:"SearchResult"`
}

// Search runs one keyword query against the catalog. Items missing a title
// or price are dropped individually.
func (c *Client) Search(ctx context.Context, keywords string, itemCount int) ([]contractx.CatalogItem, error) {
	body := searchRequest{
		PartnerTag:  c.partnerTag,
		PartnerType: "Associates",
		Keywords:    keywords,
		SearchIndex: "All",
		ItemCount:   itemCount,
		Resources: []string{
			"ItemInfo.Title",
			"Offers.Listings.Price",
			"CustomerReviews.StarRating",
			"CustomerReviews.Count",
		},
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/searchitems", bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Key", c.accessKey)
	req.Header.Set("X-Secret-Key", c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("catalog: unexpected status %d", resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("catalog: decode response: %w", err)
	}

	items := make([]contractx.CatalogItem, 0, len(decoded.SearchResult.Items))
	for _, raw := range decoded.SearchResult.Items {
		if raw.ASIN == "" || raw.ItemInfo.Title.DisplayValue == "" || len(raw.Offers.Listings) == 0 {
			logx.Debug().Str("asin", raw.ASIN).Msg("skipping incomplete catalog item")
			continue
		}
		item := contractx.CatalogItem{
			ASIN:          raw.ASIN,
			Title:         raw.ItemInfo.Title.DisplayValue,
			Price:         fmt.Sprintf("%.2f", raw.Offers.Listings[0].Price.Amount),
			DetailPageURL: raw.DetailPageURL,
			ReviewCount:   raw.CustomerReviews.Count,
		}
		if raw.CustomerReviews.StarRating.Value > 0 {
			item.Rating = fmt.Sprintf("%.1f", raw.CustomerReviews.StarRating.Value)
		}
		items = append(items, item)
	}
	return items, nil
}
