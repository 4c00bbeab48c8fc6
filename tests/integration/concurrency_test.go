package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentClaims races many consumers for one batch's reward. The
// claim gate runs inside a serialized ledger transaction, so exactly one
// claimant wins and the rest see the already-claimed conflict.
func TestConcurrentClaims(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "race_user")
	token := loginToken(t, app, "race_user", "StrongPass123!")

	app.seedParticipantKey(t, "T-1", "transporter-secret")
	app.seedParticipantKey(t, "R-1", "retailer-secret")
	app.registerBatch(t, mfr, "BATCH-RACE", []string{"T-1", "R-1"}, []string{"TRANSPORTER", "RETAILER"})
	app.verify(t, "BATCH-RACE", "T-1", "transporter-secret", "", "")
	app.verify(t, "BATCH-RACE", "R-1", "retailer-secret", "", "")

	concurrency := 20

	var wg sync.WaitGroup
	var successCount atomic.Int64
	var conflictCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			body := fmt.Sprintf(`{"claimant":"CONSUMER-%d"}`, idx)
			resp, err := http.Post(app.server.URL+"/api/v1/batches/BATCH-RACE/claim", "application/json", bytes.NewBufferString(body))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			_, _ = io.ReadAll(resp.Body)

			switch resp.StatusCode {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	t.Logf("Concurrent claims: %d succeeded, %d conflicted (out of %d)", successCount.Load(), conflictCount.Load(), concurrency)

	assert.Equal(t, int64(1), successCount.Load(), "exactly one claim must win")
	assert.Equal(t, int64(concurrency-1), conflictCount.Load(), "every other claim must conflict")

	// The winner is recorded on the batch.
	batch := app.getJSON(t, "/api/v1/batches/BATCH-RACE", token)
	assert.Equal(t, true, batch["reward_claimed"])
	assert.NotEmpty(t, batch["claimant"])
}

// TestConcurrentVerifications lets every custodian of one batch attest at
// the same time. Distinct participants never conflict, and the verified
// count lands exactly on the chain size.
func TestConcurrentVerifications(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "verify_race_user")
	token := loginToken(t, app, "verify_race_user", "StrongPass123!")

	chainSize := 10
	participants := make([]string, chainSize)
	roles := make([]string, chainSize)
	for i := 0; i < chainSize; i++ {
		participants[i] = fmt.Sprintf("T-%d", i)
		roles[i] = "TRANSPORTER"
		app.seedParticipantKey(t, participants[i], fmt.Sprintf("secret-%d", i))
	}
	app.registerBatch(t, mfr, "BATCH-VRACE", participants, roles)

	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < chainSize; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			identity := fmt.Sprintf("T-%d", idx)
			secret := fmt.Sprintf("secret-%d", idx)
			msg := app.attest.VerificationMessage("BATCH-VRACE", identity, "", "")
			body, _ := json.Marshal(map[string]string{
				"identity":  identity,
				"signature": app.attest.Sign(identity, secret, msg),
			})

			resp, err := http.Post(app.server.URL+"/api/v1/batches/BATCH-VRACE/verifications", "application/json", bytes.NewReader(body))
			if err != nil {
				return
			}
			defer resp.Body.Close()
			_, _ = io.ReadAll(resp.Body)

			if resp.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int64(chainSize), successCount.Load(), "every distinct custodian attestation must succeed")

	status := app.getJSON(t, "/api/v1/batches/BATCH-VRACE/status", token)
	assert.Equal(t, float64(chainSize), status["verified"])
	assert.Equal(t, float64(chainSize), status["total"])
}

// TestConcurrentIntents buffers intents into one channel from many
// goroutines. Appends to a channel serialize, so no intent is lost.
func TestConcurrentIntents(t *testing.T) {
	app := newTestAppWithThreshold(t, 1000)
	defer app.close()

	mfr := registerManufacturer(t, app, "intent_race_user")
	token := loginToken(t, app, "intent_race_user", "StrongPass123!")

	concurrency := 50

	var wg sync.WaitGroup
	var successCount atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			item := testBatchData(fmt.Sprintf("BATCH-IRACE-%d", idx))
			body, _ := json.Marshal(map[string]interface{}{
				"data": map[string]interface{}{
					"batch_id":     item.BatchID,
					"name":         item.Name,
					"expiry_date":  item.ExpiryDate.Format(time.RFC3339),
					"participants": item.Participants,
					"roles":        item.Roles,
				},
				// Signature verification happens at settlement; buffering
				// only requires a non-empty envelope.
				"aggregate_signature": mfr.identity + ":pending",
			})

			path := "/api/v1/channels/CH-IRACE/intents"
			nonce := nextNonce()
			timestamp := time.Now().Unix()
			canonical := app.signer.BuildCanonicalString(http.MethodPost, path, timestamp, nonce, string(body))

			req, _ := http.NewRequest(http.MethodPost, app.server.URL+path, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Access-Key", mfr.accessKey)
			req.Header.Set("X-Signature", app.signer.Sign(mfr.secretKey, canonical))
			req.Header.Set("X-Timestamp", fmt.Sprintf("%d", timestamp))
			req.Header.Set("X-Nonce", nonce)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			defer resp.Body.Close()
			_, _ = io.ReadAll(resp.Body)

			if resp.StatusCode == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	require.Equal(t, int64(concurrency), successCount.Load(), "every buffered intent must be accepted")

	channel := app.getJSON(t, "/api/v1/channels/CH-IRACE", token)
	assert.Equal(t, "OPEN", channel["status"])
	assert.Equal(t, float64(concurrency), channel["pending_count"])
	assert.Equal(t, float64(concurrency), channel["nonce"], "nonce advances once per buffered intent")
}
