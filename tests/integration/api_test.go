package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	httpHandler "batch-custody-ledger/internal/adapter/http/handler"
	redisStorage "batch-custody-ledger/internal/adapter/storage/redis"
	"batch-custody-ledger/internal/core/domain"
	"batch-custody-ledger/internal/service"
	"batch-custody-ledger/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp builds the full application stack over in-memory repos and
// miniredis. It exercises the real HTTP layer, middleware, handlers,
// services, and Redis stores end to end.

type testApp struct {
	server  *httptest.Server
	redis   *miniredis.Miniredis
	encSvc  *service.AESEncryptionService
	attest  *service.HMACAttestationService
	signer  *service.HMACRequestSigner
	keyRepo *inMemoryIdentityKeyRepo
}

var nonceCounter atomic.Int64

func newTestApp(t *testing.T) *testApp {
	return newTestAppWithThreshold(t, 3)
}

func newTestAppWithThreshold(t *testing.T, settleThreshold int) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	settlementCache := redisStorage.NewSettlementCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)

	// Core services with real implementations
	encSvc, err := service.NewAESEncryptionService("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	requestSigner := service.NewHMACRequestSigner()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", 24*time.Hour, "test-issuer")

	// In-memory repos
	batchRepo := newInMemoryBatchRepo()
	channelRepo := newInMemoryChannelRepo()
	manufacturerRepo := newInMemoryManufacturerRepo()
	keyRepo := newInMemoryIdentityKeyRepo()
	eventRepo := newInMemoryEventRepo()
	transactor := newInMemoryTransactor()

	attestSvc := service.NewHMACAttestationService(keyRepo, encSvc)

	// Business services
	log := logger.New("error", false)
	registrySvc := service.NewRegistryService(batchRepo, eventRepo, transactor, domain.MaxParticipants, log)
	verificationSvc := service.NewVerificationService(batchRepo, eventRepo, transactor, attestSvc, log)
	rewardSvc := service.NewRewardService(batchRepo, eventRepo, transactor, service.NewNoopTokenMinter(log), 100, log)
	settlementSvc := service.NewSettlementService(registrySvc, channelRepo, manufacturerRepo, eventRepo, transactor, attestSvc, settlementCache, log)
	aggregatorSvc := service.NewAggregatorService(settlementSvc, channelRepo, settlementCache, settleThreshold, 5*time.Second, log)
	authSvc := service.NewAuthService(manufacturerRepo, keyRepo, hashSvc, encSvc, tokenSvc)
	manufacturerSvc := service.NewManufacturerService(manufacturerRepo, keyRepo, encSvc)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:          authSvc,
		RegistrySvc:      registrySvc,
		VerificationSvc:  verificationSvc,
		RewardSvc:        rewardSvc,
		AggregatorSvc:    aggregatorSvc,
		ManufacturerRepo: manufacturerRepo,
		EncSvc:           encSvc,
		RequestSigner:    requestSigner,
		NonceStore:       nonceStore,
		TokenSvc:         tokenSvc,
		ManufacturerSvc:  manufacturerSvc,
		Logger:           log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server:  server,
		redis:   mr,
		encSvc:  encSvc,
		attest:  attestSvc,
		signer:  requestSigner,
		keyRepo: keyRepo,
	}
}

func (a *testApp) close() {
	a.server.Close()
	a.redis.Close()
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	regBody, _ := json.Marshal(map[string]string{
		"username":     "acme",
		"password":     "StrongPass123!",
		"company_name": "Acme Pharma",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var regResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&regResp))
	data := regResp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["manufacturer_id"])
	assert.NotEmpty(t, data["identity"])
	assert.NotEmpty(t, data["access_key"])
	assert.NotEmpty(t, data["secret_key"])

	loginBody, _ := json.Marshal(map[string]string{
		"username": "acme",
		"password": "StrongPass123!",
	})
	resp2, err := http.Post(app.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	defer resp2.Body.Close()

	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	var loginResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&loginResp))
	loginData := loginResp["data"].(map[string]interface{})
	assert.NotEmpty(t, loginData["token"])
}

func TestIntegration_LoginWrongCredentials(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	loginBody, _ := json.Marshal(map[string]string{
		"username": "nobody",
		"password": "wrong-password",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_DuplicateUsername(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	regBody, _ := json.Marshal(map[string]string{
		"username":     "acme",
		"password":     "StrongPass123!",
		"company_name": "Acme Pharma",
	})

	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp2, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusConflict, resp2.StatusCode)
}

func TestIntegration_HMAC_MissingHeaders(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Post(app.server.URL+"/api/v1/batches", "application/json", bytes.NewReader([]byte("{}")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIntegration_HMAC_ReplayedNonce(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "replay_user")

	body := batchBody(t, "BATCH-REPLAY", []string{"T-1"}, []string{"TRANSPORTER"})
	nonce := "fixed-nonce-once"
	timestamp := time.Now().Unix()

	resp := app.signedPost(t, "/api/v1/batches", body, mfr, nonce, timestamp)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same nonce again is rejected before the duplicate-batch check runs.
	resp2 := app.signedPost(t, "/api/v1/batches", body, mfr, nonce, timestamp)
	resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestIntegration_JWT_Unauthorized(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/batches", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Full custody lifecycle: register a batch, every participant attests,
// a consumer claims the reward, and the journal records each step.
func TestIntegration_CustodyChainEndToEnd(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "chain_user")
	token := loginToken(t, app, "chain_user", "StrongPass123!")

	app.seedParticipantKey(t, "T-1", "transporter-secret")
	app.seedParticipantKey(t, "R-1", "retailer-secret")

	app.registerBatch(t, mfr, "BATCH-E2E", []string{"T-1", "R-1"}, []string{"TRANSPORTER", "RETAILER"})

	// Each custodian attests with a signed message.
	status := app.verify(t, "BATCH-E2E", "T-1", "transporter-secret", "Hanoi", "seal intact")
	assert.Equal(t, float64(1), status["verified"])

	status = app.verify(t, "BATCH-E2E", "R-1", "retailer-secret", "Da Nang", "")
	assert.Equal(t, float64(2), status["verified"])
	assert.Equal(t, float64(2), status["total"])

	// Consumer claims the one-time reward.
	claimData := app.claim(t, "BATCH-E2E", "CONSUMER-9", http.StatusOK)
	assert.Equal(t, true, claimData["claimed"])

	// The batch view reflects the claim.
	batch := app.getJSON(t, "/api/v1/batches/BATCH-E2E", token)
	assert.Equal(t, true, batch["reward_claimed"])
	assert.Equal(t, "CONSUMER-9", batch["claimant"])

	// Journal: registration, two attestations, one claim.
	req, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/batches/BATCH-E2E/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var eventsResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&eventsResp))
	events := eventsResp["data"].([]interface{})
	require.Len(t, events, 4)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.(map[string]interface{})["type"].(string))
	}
	assert.Equal(t, []string{"BATCH_REGISTERED", "PARTICIPANT_VERIFIED", "PARTICIPANT_VERIFIED", "REWARD_CLAIMED"}, types)
}

func TestIntegration_ClaimGuards(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "guard_user")
	app.seedParticipantKey(t, "T-1", "transporter-secret")
	app.registerBatch(t, mfr, "BATCH-GUARD", []string{"T-1"}, []string{"TRANSPORTER"})

	// Claim before full verification
	app.claim(t, "BATCH-GUARD", "CONSUMER-1", http.StatusConflict)

	app.verify(t, "BATCH-GUARD", "T-1", "transporter-secret", "", "")

	// Participants cannot pocket the reward themselves
	app.claim(t, "BATCH-GUARD", "T-1", http.StatusForbidden)

	// First consumer claim wins, the second hits the one-time gate
	app.claim(t, "BATCH-GUARD", "CONSUMER-1", http.StatusOK)
	app.claim(t, "BATCH-GUARD", "CONSUMER-2", http.StatusConflict)
}

func TestIntegration_VerificationRejections(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "reject_user")
	app.seedParticipantKey(t, "T-1", "transporter-secret")
	app.seedParticipantKey(t, "X-9", "outsider-secret")
	app.registerBatch(t, mfr, "BATCH-REJ", []string{"T-1"}, []string{"TRANSPORTER"})

	// Garbage signature
	body, _ := json.Marshal(map[string]string{
		"identity":  "T-1",
		"signature": "T-1:deadbeef",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/batches/BATCH-REJ/verifications", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid signature from an identity outside the custody chain
	msg := app.attest.VerificationMessage("BATCH-REJ", "X-9", "", "")
	body, _ = json.Marshal(map[string]string{
		"identity":  "X-9",
		"signature": app.attest.Sign("X-9", "outsider-secret", msg),
	})
	resp, err = http.Post(app.server.URL+"/api/v1/batches/BATCH-REJ/verifications", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Double attestation by the same custodian
	app.verify(t, "BATCH-REJ", "T-1", "transporter-secret", "", "")
	msg = app.attest.VerificationMessage("BATCH-REJ", "T-1", "", "")
	body, _ = json.Marshal(map[string]string{
		"identity":  "T-1",
		"signature": app.attest.Sign("T-1", "transporter-secret", msg),
	})
	resp, err = http.Post(app.server.URL+"/api/v1/batches/BATCH-REJ/verifications", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// Buffering up to the threshold settles the channel in the background and
// lands every buffered batch on the ledger.
func TestIntegration_ChannelThresholdSettlement(t *testing.T) {
	app := newTestAppWithThreshold(t, 3)
	defer app.close()

	mfr := registerManufacturer(t, app, "channel_user")
	token := loginToken(t, app, "channel_user", "StrongPass123!")

	var items []domain.BatchData
	for i := 1; i <= 3; i++ {
		items = append(items, testBatchData(fmt.Sprintf("BATCH-CH-%d", i)))
		view := app.bufferIntent(t, mfr, "CH-AUTO", items, http.StatusOK)
		if i < 3 {
			assert.Equal(t, float64(i), view["pending_count"])
			assert.Equal(t, "OPEN", view["status"])
		}
	}

	channel := app.waitForChannelStatus(t, token, "CH-AUTO", "SETTLED")
	// Three buffered appends plus the settlement increment.
	assert.Equal(t, float64(4), channel["nonce"])
	assert.Equal(t, float64(0), channel["pending_count"])

	// Every buffered batch is now on the ledger with its origin recorded.
	for i := 1; i <= 3; i++ {
		batch := app.getJSON(t, fmt.Sprintf("/api/v1/batches/BATCH-CH-%d", i), token)
		assert.Equal(t, mfr.identity, batch["manufacturer"])
		assert.Equal(t, "CH-AUTO", batch["origin_channel"])
	}
}

func TestIntegration_ChannelExplicitSettle(t *testing.T) {
	app := newTestAppWithThreshold(t, 100)
	defer app.close()

	mfr := registerManufacturer(t, app, "settle_user")
	token := loginToken(t, app, "settle_user", "StrongPass123!")

	items := []domain.BatchData{
		testBatchData("BATCH-EX-1"),
		testBatchData("BATCH-EX-2"),
	}
	app.bufferIntent(t, mfr, "CH-EXPLICIT", items[:1], http.StatusOK)
	app.bufferIntent(t, mfr, "CH-EXPLICIT", items, http.StatusOK)

	// Settle the buffered list under an aggregate signature over it.
	settleBody, _ := json.Marshal(map[string]string{
		"aggregate_signature": app.settlementSignature(mfr, "CH-EXPLICIT", items),
	})
	resp := app.signedPost(t, "/api/v1/channels/CH-EXPLICIT/settle", settleBody, mfr, nextNonce(), time.Now().Unix())
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var settleResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&settleResp))
	result := settleResp["data"].(map[string]interface{})
	assert.Equal(t, "SETTLED", result["status"])
	assert.Equal(t, float64(2), result["registered"])
	assert.Equal(t, float64(0), result["failed"])
	// Two buffered appends plus the settlement increment.
	assert.Equal(t, float64(3), result["nonce"])

	// Retrying a settled channel surfaces the original cached outcome.
	resp2 := app.signedPost(t, "/api/v1/channels/CH-EXPLICIT/settle", settleBody, mfr, nextNonce(), time.Now().Unix())
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)

	var retryResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&retryResp))
	retry := retryResp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), retry["registered"])

	// A settled channel id never reopens.
	app.bufferIntent(t, mfr, "CH-EXPLICIT", []domain.BatchData{testBatchData("BATCH-EX-3")}, http.StatusConflict)

	channel := app.getJSON(t, "/api/v1/channels/CH-EXPLICIT", token)
	assert.Equal(t, "SETTLED", channel["status"])
}

func TestIntegration_ManufacturerProfileAndKeyRotation(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfr := registerManufacturer(t, app, "rotate_user")
	token := loginToken(t, app, "rotate_user", "StrongPass123!")

	profile := app.getJSON(t, "/api/v1/manufacturers/me", token)
	assert.Equal(t, "rotate_user", profile["username"])
	assert.Equal(t, mfr.identity, profile["identity"])
	assert.Equal(t, "ACTIVE", profile["status"])

	// Rotate keys
	req, _ := http.NewRequest(http.MethodPost, app.server.URL+"/api/v1/manufacturers/me/rotate-keys", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rotateResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotateResp))
	rotated := rotateResp["data"].(map[string]interface{})
	newAccessKey := rotated["access_key"].(string)
	newSecretKey := rotated["secret_key"].(string)
	require.NotEqual(t, mfr.accessKey, newAccessKey)

	// The old pair stops authenticating.
	body := batchBody(t, "BATCH-ROT-1", []string{"T-1"}, []string{"TRANSPORTER"})
	respOld := app.signedPost(t, "/api/v1/batches", body, mfr, nextNonce(), time.Now().Unix())
	respOld.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, respOld.StatusCode)

	// The new pair works.
	rotatedMfr := manufacturerKeys{identity: mfr.identity, accessKey: newAccessKey, secretKey: newSecretKey}
	respNew := app.signedPost(t, "/api/v1/batches", body, rotatedMfr, nextNonce(), time.Now().Unix())
	respNew.Body.Close()
	assert.Equal(t, http.StatusCreated, respNew.StatusCode)
}

func TestIntegration_BatchListScopedToManufacturer(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	mfrA := registerManufacturer(t, app, "list_user_a")
	mfrB := registerManufacturer(t, app, "list_user_b")
	tokenA := loginToken(t, app, "list_user_a", "StrongPass123!")

	app.registerBatch(t, mfrA, "BATCH-A-1", []string{"T-1"}, []string{"TRANSPORTER"})
	app.registerBatch(t, mfrA, "BATCH-A-2", []string{"T-1"}, []string{"TRANSPORTER"})
	app.registerBatch(t, mfrB, "BATCH-B-1", []string{"T-1"}, []string{"TRANSPORTER"})

	list := app.getJSON(t, "/api/v1/batches?page=1&page_size=10", tokenA)
	assert.Equal(t, float64(2), list["total"])
	items := list["items"].([]interface{})
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, mfrA.identity, item.(map[string]interface{})["manufacturer"])
	}
}

// --- Helpers ---

type manufacturerKeys struct {
	identity  string
	accessKey string
	secretKey string
}

func registerManufacturer(t *testing.T, app *testApp, username string) manufacturerKeys {
	t.Helper()
	regBody, _ := json.Marshal(map[string]string{
		"username":     username,
		"password":     "StrongPass123!",
		"company_name": "Test Pharma",
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/register", "application/json", bytes.NewReader(regBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	bodyBytes, _ := io.ReadAll(resp.Body)
	var regResp map[string]interface{}
	require.NoError(t, json.Unmarshal(bodyBytes, &regResp))
	data := regResp["data"].(map[string]interface{})
	return manufacturerKeys{
		identity:  data["identity"].(string),
		accessKey: data["access_key"].(string),
		secretKey: data["secret_key"].(string),
	}
}

func loginToken(t *testing.T, app *testApp, username, password string) string {
	t.Helper()
	loginBody, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := http.Post(app.server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(loginBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	data := loginResp["data"].(map[string]interface{})
	return data["token"].(string)
}

func nextNonce() string {
	return fmt.Sprintf("nonce-%d-%d", nonceCounter.Add(1), time.Now().UnixNano())
}

func batchBody(t *testing.T, batchID string, participants, roles []string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"batch_id":     batchID,
		"name":         "Amoxicillin 500mg",
		"expiry_date":  time.Now().UTC().Add(365 * 24 * time.Hour).Format(time.RFC3339),
		"participants": participants,
		"roles":        roles,
	})
	require.NoError(t, err)
	return body
}

func testBatchData(batchID string) domain.BatchData {
	return domain.BatchData{
		BatchID:      batchID,
		Name:         "Amoxicillin 500mg",
		ExpiryDate:   time.Now().UTC().Add(365 * 24 * time.Hour).Truncate(time.Second),
		Participants: []string{"T-1"},
		Roles:        []string{"TRANSPORTER"},
	}
}

// signedPost sends an HMAC-authenticated POST the way a manufacturer client
// would sign it.
func (a *testApp) signedPost(t *testing.T, path string, body []byte, mfr manufacturerKeys, nonce string, timestamp int64) *http.Response {
	t.Helper()
	canonical := a.signer.BuildCanonicalString(http.MethodPost, path, timestamp, nonce, string(body))
	signature := a.signer.Sign(mfr.secretKey, canonical)

	req, _ := http.NewRequest(http.MethodPost, a.server.URL+path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Access-Key", mfr.accessKey)
	req.Header.Set("X-Signature", signature)
	req.Header.Set("X-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-Nonce", nonce)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (a *testApp) registerBatch(t *testing.T, mfr manufacturerKeys, batchID string, participants, roles []string) {
	t.Helper()
	body := batchBody(t, batchID, participants, roles)
	resp := a.signedPost(t, "/api/v1/batches", body, mfr, nextNonce(), time.Now().Unix())
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register batch response: %s", string(respBody))
}

// seedParticipantKey registers a custodian identity in the signing-key
// directory, as onboarding of non-manufacturer parties would.
func (a *testApp) seedParticipantKey(t *testing.T, identity, secret string) {
	t.Helper()
	enc, err := a.encSvc.Encrypt(secret)
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, a.keyRepo.Upsert(context.Background(), &domain.IdentityKey{
		Identity:     identity,
		SecretKeyEnc: enc,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func (a *testApp) verify(t *testing.T, batchID, identity, secret, location, note string) map[string]interface{} {
	t.Helper()
	msg := a.attest.VerificationMessage(batchID, identity, location, note)
	body, _ := json.Marshal(map[string]string{
		"identity":  identity,
		"location":  location,
		"note":      note,
		"signature": a.attest.Sign(identity, secret, msg),
	})
	resp, err := http.Post(a.server.URL+"/api/v1/batches/"+batchID+"/verifications", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, "verify response: %s", string(respBody))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &result))
	return result["data"].(map[string]interface{})
}

func (a *testApp) claim(t *testing.T, batchID, claimant string, wantStatus int) map[string]interface{} {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"claimant": claimant})
	resp, err := http.Post(a.server.URL+"/api/v1/batches/"+batchID+"/claim", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	require.Equal(t, wantStatus, resp.StatusCode, "claim response: %s", string(respBody))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &result))
	data, _ := result["data"].(map[string]interface{})
	return data
}

// bufferIntent appends the last item of items to the channel, signing the
// aggregate over the full list so far.
func (a *testApp) bufferIntent(t *testing.T, mfr manufacturerKeys, channelID string, items []domain.BatchData, wantStatus int) map[string]interface{} {
	t.Helper()
	item := items[len(items)-1]
	body, _ := json.Marshal(map[string]interface{}{
		"data": map[string]interface{}{
			"batch_id":     item.BatchID,
			"name":         item.Name,
			"expiry_date":  item.ExpiryDate.Format(time.RFC3339),
			"participants": item.Participants,
			"roles":        item.Roles,
		},
		"aggregate_signature": a.settlementSignature(mfr, channelID, items),
	})
	resp := a.signedPost(t, "/api/v1/channels/"+channelID+"/intents", body, mfr, nextNonce(), time.Now().Unix())
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	require.Equal(t, wantStatus, resp.StatusCode, "intent response: %s", string(respBody))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &result))
	data, _ := result["data"].(map[string]interface{})
	return data
}

func (a *testApp) settlementSignature(mfr manufacturerKeys, channelID string, items []domain.BatchData) string {
	msg := a.attest.SettlementMessage(channelID, domain.ContentHash(items))
	return a.attest.Sign(mfr.identity, mfr.secretKey, msg)
}

func (a *testApp) getJSON(t *testing.T, path, token string) map[string]interface{} {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s response: %s", path, string(respBody))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &result))
	return result["data"].(map[string]interface{})
}

func (a *testApp) waitForChannelStatus(t *testing.T, token, channelID, want string) map[string]interface{} {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		channel := a.getJSON(t, "/api/v1/channels/"+channelID, token)
		if channel["status"] == want {
			return channel
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("channel %s did not reach status %s in time", channelID, want)
	return nil
}
