// Package cep looks up Brazilian postal codes against the ViaCEP public
// service. Lookups pass through a client-side rate limiter because the
// provider throttles aggressive callers.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mauandrade99/gerenciador-cli/internal/model"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Result carries the fields the address form autofills. Localidade is the
// city and UF the state, following the provider's naming.
type Result struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Localidade  string `json:"localidade"`
	UF          string `json:"uf"`
	Erro        bool   `json:"erro"`
}

func New(baseURL string, timeout time.Duration, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
	}
}

// Normalize strips punctuation and validates that exactly eight digits
// remain, the format the provider and the backend both expect.
func Normalize(cep string) (string, error) {
	var digits strings.Builder
	for _, r := range cep {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() != 8 {
		return "", fmt.Errorf("cep must have 8 digits, got %q", cep)
	}

	return digits.String(), nil
}

func (c *Client) Lookup(ctx context.Context, cep string) (*Result, error) {
	normalized, err := Normalize(cep)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("cep lookup throttled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/ws/%s/json/", c.baseURL, normalized), nil)
	if err != nil {
		return nil, fmt.Errorf("build cep request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cep lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cep lookup failed with status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode cep response: %w", err)
	}

	// The provider answers 200 with {"erro": true} for unknown codes.
	if result.Erro {
		return nil, model.ErrCEPNotFound
	}

	return &result, nil
}
