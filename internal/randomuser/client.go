// Package randomuser consumes the public random-user-generation API that
// supplies the feed's suggested profiles.
package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"rede-backend/internal/domain"
	"rede-backend/internal/metrics"
	"rede-backend/pkg/errors"
	"rede-backend/pkg/logger"
)

// resultCount is the batch size rendered per feed load.
const resultCount = 5

// Client fetches batches of suggested profiles.
type Client struct {
	baseURL     string
	proxyURL    string
	nationality string
	httpClient  *http.Client
	logger      *logger.Logger
	metrics     metrics.Recorder
}

// NewClient creates a suggested-users client. When proxyURL is non-empty
// the request is relayed through the CORS proxy the hosted frontend used.
func NewClient(baseURL, proxyURL, nationality string, log *logger.Logger, rec metrics.Recorder) *Client {
	return &Client{
		baseURL:     baseURL,
		proxyURL:    proxyURL,
		nationality: nationality,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  log,
		metrics: rec,
	}
}

// response is the upstream envelope.
type response struct {
	Results []domain.SuggestedProfile `json:"results"`
}

// Suggested fetches one regionally-filtered batch of suggested profiles.
// Entries missing a generator UUID get a fresh one so each profile stays
// addressable for the lifetime of the page load.
func (c *Client) Suggested(ctx context.Context) ([]domain.SuggestedProfile, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(), nil)
	if err != nil {
		return nil, errors.NewNetworkError("Erro ao buscar sugestões.", err)
	}

	resp, err := c.httpClient.Do(req)
	c.record(start, err)
	if err != nil {
		c.logger.WithError(err).Error("Suggested-users request failed")
		return nil, errors.NewNetworkError("Erro ao buscar sugestões.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("Erro ao buscar sugestões.", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError("Erro ao buscar sugestões.", fmt.Errorf("generator returned status %d", resp.StatusCode))
	}

	var envelope response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.NewNetworkError("Erro ao buscar sugestões.", err)
	}

	for i := range envelope.Results {
		if envelope.Results[i].Login.UUID == "" {
			envelope.Results[i].Login.UUID = uuid.NewString()
		}
	}

	c.logger.WithField("count", len(envelope.Results)).Debug("Suggested profiles fetched")
	return envelope.Results, nil
}

// requestURL builds the generator URL, optionally wrapped in the relay.
func (c *Client) requestURL() string {
	target := fmt.Sprintf("%s/api/?results=%d&nat=%s", c.baseURL, resultCount, c.nationality)
	if c.proxyURL == "" {
		return target
	}
	return fmt.Sprintf("%s?url=%s", c.proxyURL, url.QueryEscape(target))
}

func (c *Client) record(start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.RecordExternalCall("randomuser", err == nil, time.Since(start))
	}
}
