// Package viacep consumes the public postal-code lookup API.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rede-backend/internal/metrics"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// cepLength is the digit count of a complete postal code.
const cepLength = 8

// Address is the subset of the lookup response the profile form consumes.
type Address struct {
	Street string
	City   string
	Region string
}

// lookupResponse is the upstream wire format.
type lookupResponse struct {
	Logradouro string `json:"logradouro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Client performs postal-code lookups.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    metrics.Recorder
}

// NewClient creates a new postal lookup client.
func NewClient(baseURL string, log *logger.Logger, rec metrics.Recorder) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  log,
		metrics: rec,
	}
}

// Normalize strips every non-digit from a raw postal code.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup resolves a postal code into an address. The raw value is
// normalized first; anything other than exactly 8 digits fails validation
// before any request is issued. An upstream error flag becomes
// NotFoundError so callers clear stale address fields.
func (c *Client) Lookup(ctx context.Context, raw string) (*Address, error) {
	cep := Normalize(raw)
	if len(cep) != cepLength {
		return nil, errors.NewValidationError("CEP inválido.", map[string]interface{}{
			"digits": len(cep),
		})
	}

	start := time.Now()

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewNetworkError("Falha ao buscar CEP.", err)
	}

	resp, err := c.httpClient.Do(req)
	c.record(start, err)
	if err != nil {
		c.logger.WithError(err).Error("Postal lookup transport failure")
		return nil, errors.NewNetworkError("Falha ao buscar CEP.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("Falha ao buscar CEP.", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError("Falha ao buscar CEP.", fmt.Errorf("lookup returned status %d", resp.StatusCode))
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, errors.NewNetworkError("Falha ao buscar CEP.", err)
	}

	if lr.Erro {
		return nil, errors.NewNotFoundError("CEP não encontrado.")
	}

	return &Address{
		Street: lr.Logradouro,
		City:   lr.Localidade,
		Region: lr.UF,
	}, nil
}

func (c *Client) record(start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.RecordExternalCall("viacep", err == nil, time.Since(start))
	}
}
