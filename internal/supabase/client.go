// Package supabase holds hand-rolled HTTP clients for the three hosted
// service boundaries this application consumes: GoTrue auth, object
// storage, and the PostgREST row store.
package supabase

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rede-backend/internal/metrics"
	"rede-backend/pkg/logger"
)

// Client carries the connection details shared by the three boundary
// clients.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *logger.Logger
	metrics    metrics.Recorder
}

// NewClient creates the shared Supabase client.
func NewClient(baseURL, anonKey string, log *logger.Logger, rec metrics.Recorder) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:  log,
		metrics: rec,
	}
}

// Auth returns the GoTrue auth boundary client.
func (c *Client) Auth() *AuthClient {
	return &AuthClient{c}
}

// Storage returns the object storage boundary client.
func (c *Client) Storage() *StorageClient {
	return &StorageClient{c}
}

// Rest returns the PostgREST row-store boundary client.
func (c *Client) Rest() *RestClient {
	return &RestClient{c}
}

// setAuthHeaders sets the apikey and bearer headers. An empty accessToken
// falls back to the anon key, matching how the hosted client libraries
// authorize unauthenticated calls.
func (c *Client) setAuthHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.anonKey)
	if accessToken == "" {
		accessToken = c.anonKey
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
}

// record reports the call outcome to the metrics collector.
func (c *Client) record(service string, start time.Time, err error) {
	if c.metrics != nil {
		c.metrics.RecordExternalCall(service, err == nil, time.Since(start))
	}
}

// errorBody is the common error envelope the hosted services return.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// remoteMessage extracts the most specific error message from a non-2xx
// response body, falling back to the raw body.
func remoteMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
			if m != "" {
				return m
			}
		}
	}
	return string(body)
}

// readBody drains and returns the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
