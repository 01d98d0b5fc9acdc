// Package registry is the client for the national tax registry (ANAF) balance
// sheet endpoint.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"onghub/internal/core/types"
	"onghub/internal/domain/organization"
	"onghub/pkg/logger"
)

// Sentinel errors. Callers do not translate them; they surface as internal errors.
var (
	ErrUnavailable     = errors.New("registry unavailable")
	ErrInvalidResponse = errors.New("registry returned an invalid response")
)

// Balance sheet indicator codes.
const (
	IndicatorTotalIncome  = "I38"
	IndicatorTotalExpense = "I40"
	IndicatorEmployees    = "I46"
)

// DefaultURL is the public balance sheet endpoint.
const DefaultURL = "https://webservicesp.anaf.ro/bilant"

const maxBodyBytes = 1 << 20

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default caching client. Used by tests.
	HTTPClient *http.Client
}

// Client fetches balance sheet data.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ organization.RegistryClient = (*Client)(nil)

// NewClient creates a registry client. Responses are cached in memory
// according to their Cache-Control headers.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Transport: httpcache.NewTransport(httpcache.NewMemoryCache()),
			Timeout:   cfg.Timeout,
		}
	}
	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), http: hc}
}

type balanceSheet struct {
	Year       int         `json:"an"`
	CUI        json.Number `json:"cui"`
	Name       string      `json:"deni"`
	Indicators []indicator `json:"i"`
}

type indicator struct {
	Code  string      `json:"indicator"`
	Value json.Number `json:"val_indicator"`
	Label string      `json:"val_den_indicator"`
}

// GetFinancialInformation returns income, expense and employee count for cui
// in year. Indicators absent from the response read as zero.
func (c *Client) GetFinancialInformation(ctx context.Context, cui string, year int) (organization.FinancialInformation, error) {
	var out organization.FinancialInformation

	q := url.Values{}
	q.Set("an", strconv.Itoa(year))
	q.Set("cui", cui)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return out, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	logger.Debug(ctx, "registry response",
		"cui", cui,
		"year", year,
		"status", resp.StatusCode,
		"cached", resp.Header.Get(httpcache.XFromCache) == "1",
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return out, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	// Read to EOF so the caching transport stores the response.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var sheet balanceSheet
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&sheet); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for _, ind := range sheet.Indicators {
		switch ind.Code {
		case IndicatorTotalIncome:
			v, err := types.ParseMoney(ind.Value.String())
			if err != nil {
				return out, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, ind.Code, err)
			}
			out.TotalIncome = v
		case IndicatorTotalExpense:
			v, err := types.ParseMoney(ind.Value.String())
			if err != nil {
				return out, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, ind.Code, err)
			}
			out.TotalExpense = v
		case IndicatorEmployees:
			v, err := ind.Value.Int64()
			if err != nil {
				return out, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, ind.Code, err)
			}
			out.NumberOfEmployees = int(v)
		}
	}
	return out, nil
}
