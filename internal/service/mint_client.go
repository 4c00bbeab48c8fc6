package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"batch-custody-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// mintRetryIntervals bounds the synchronous retry schedule for the mint
// collaborator. The claim is already committed when Mint runs, so retries
// stay short and the caller learns about a hard failure quickly.
var mintRetryIntervals = []time.Duration{
	500 * time.Millisecond,
	2 * time.Second,
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// mintRequest is the JSON body posted to the minting collaborator.
type mintRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// HTTPTokenMinter implements ports.TokenMinter against an external minting
// endpoint. Each request is signed with the capability key the core holds;
// the collaborator owns balances and supply.
type HTTPTokenMinter struct {
	endpoint      string
	capabilityKey string
	signer        ports.RequestSigner
	httpClient    HTTPClient
	log           zerolog.Logger
}

// NewHTTPTokenMinter creates a new HTTPTokenMinter.
func NewHTTPTokenMinter(endpoint, capabilityKey string, signer ports.RequestSigner, httpClient HTTPClient, log zerolog.Logger) *HTTPTokenMinter {
	return &HTTPTokenMinter{
		endpoint:      endpoint,
		capabilityKey: capabilityKey,
		signer:        signer,
		httpClient:    httpClient,
		log:           log,
	}
}

// Mint requests issuance of amount tokens to identity.
func (m *HTTPTokenMinter) Mint(ctx context.Context, identity string, amount int64) error {
	body := mintRequest{
		Recipient: identity,
		Amount:    amount,
		Timestamp: time.Now().Unix(),
	}
	body.Signature = m.signer.Sign(m.capabilityKey, fmt.Sprintf("mint|%s|%d|%d", body.Recipient, body.Amount, body.Timestamp))

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal mint request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= len(mintRetryIntervals); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(mintRetryIntervals[attempt-1]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("create mint request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := m.httpClient.Do(req)
		if err != nil {
			lastErr = err
			m.log.Warn().Err(err).Str("recipient", identity).Int("attempt", attempt+1).Msg("mint: request failed")
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			resp.Body.Close()
			m.log.Info().Str("recipient", identity).Int64("amount", amount).Int("attempt", attempt+1).Msg("mint: issued")
			return nil
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		lastErr = fmt.Errorf("mint endpoint returned %d: %s", resp.StatusCode, string(respBody))

		// 4xx means the request itself is bad; retrying cannot help.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
		m.log.Warn().Int("status", resp.StatusCode).Str("recipient", identity).Int("attempt", attempt+1).Msg("mint: non-2xx response, retrying")
	}

	return fmt.Errorf("mint attempts exhausted: %w", lastErr)
}

// NoopTokenMinter is used when no minting endpoint is configured. Claims
// still commit; issuance is a no-op.
type NoopTokenMinter struct {
	log zerolog.Logger
}

// NewNoopTokenMinter creates a NoopTokenMinter.
func NewNoopTokenMinter(log zerolog.Logger) *NoopTokenMinter {
	return &NoopTokenMinter{log: log}
}

// Mint logs and succeeds.
func (m *NoopTokenMinter) Mint(_ context.Context, identity string, amount int64) error {
	m.log.Info().Str("recipient", identity).Int64("amount", amount).Msg("mint: no endpoint configured, skipping issuance")
	return nil
}
