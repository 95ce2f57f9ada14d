package tokenizer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Counter supplies the two operations chunk sizing needs: an approximate
// token count for a piece of text and the maximum token budget per chunk.
type Counter interface {
	CountTokens(text string) int
	MaxTokens() int
}

// reachability is the cached result of the one-time endpoint probe.
type reachability int

const (
	reachabilityUnknown reachability = iota
	reachabilityReachable
	reachabilityUnreachable
)

const minConnectTimeout = 250 * time.Millisecond

// Remote counts tokens via a remote tokenize API. Before any request traffic
// it probes the endpoint once with short timeouts; if the endpoint is
// unreachable, times out, or fails at the transport level, it degrades to
// whitespace word counting and stays degraded for the lifetime of the
// instance so a dead endpoint is paid for at most once per run.
//
// A Remote is scoped to one document-processing run and is not safe for
// concurrent use; the reachability cell is deliberately unsynchronized.
type Remote struct {
	apiURL    string
	apiKey    string
	model     string
	maxTokens int

	client    *http.Client
	reachable reachability
	logger    *slog.Logger
}

// NewRemote creates a tokenizer backed by the tokenize endpoint at apiURL.
// The connect timeout is floored at 250ms and the read timeout at the
// connect timeout, so a misconfigured zero never disables the bound.
func NewRemote(apiURL, apiKey, model string, maxTokens int, connectTimeout, readTimeout time.Duration) *Remote {
	if connectTimeout < minConnectTimeout {
		connectTimeout = minConnectTimeout
	}
	if readTimeout < connectTimeout {
		readTimeout = connectTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}

	return &Remote{
		apiURL:    apiURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		client: &http.Client{
			Transport: transport,
			Timeout:   readTimeout,
		},
		logger: slog.Default(),
	}
}

// MaxTokens returns the configured per-chunk token budget.
func (r *Remote) MaxTokens() int {
	return r.maxTokens
}

// CountTokens returns the number of tokens in text. Remote failures never
// propagate to the caller: they are logged and converted into a whitespace
// word-count estimate, and the endpoint is not retried within this instance.
func (r *Remote) CountTokens(text string) int {
	if !r.endpointReachable() {
		return wordCount(text)
	}

	n, err := r.countViaAPI(text)
	if err != nil {
		r.logger.Warn("tokenize request failed, disabling token API for this run",
			"url", r.apiURL, "error", err)
		r.reachable = reachabilityUnreachable
		return wordCount(text)
	}
	if n == 0 {
		return wordCount(text)
	}
	return n
}

// endpointReachable performs the one-time probe, caching the outcome. Any
// response below 500, including client errors such as 405, proves the
// network path and process are alive, which is all the probe needs.
func (r *Remote) endpointReachable() bool {
	switch r.reachable {
	case reachabilityReachable:
		return true
	case reachabilityUnreachable:
		return false
	}

	resp, err := r.client.Get(r.apiURL)
	if err != nil {
		r.logger.Warn("tokenize endpoint unreachable, using word-count fallback",
			"url", r.apiURL, "error", err)
		r.reachable = reachabilityUnreachable
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode >= 500 {
		r.logger.Warn("tokenize endpoint unhealthy, using word-count fallback",
			"url", r.apiURL, "status", resp.StatusCode)
		r.reachable = reachabilityUnreachable
		return false
	}

	r.reachable = reachabilityReachable
	return true
}

type tokenizeRequest struct {
	ModelURI string `json:"modelUri"`
	Text     string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []json.RawMessage `json:"tokens"`
}

func (r *Remote) countViaAPI(text string) (int, error) {
	if r.model == "" {
		// No model configured means the API cannot be called meaningfully;
		// the zero return routes the caller to the word-count estimate.
		return 0, nil
	}

	body, err := json.Marshal(tokenizeRequest{ModelURI: r.model, Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, r.apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var tr tokenizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return len(tr.Tokens), nil
}

// wordCount is the degraded estimate: whitespace-delimited words.
func wordCount(text string) int {
	return len(strings.Fields(text))
}
