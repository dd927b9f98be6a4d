package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/tavernkeep/pkg/api/handlers"
	authproviders "github.com/cbodonnell/tavernkeep/pkg/auth/providers"
	"github.com/cbodonnell/tavernkeep/pkg/events"
	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

type stubRoller struct {
	die int
}

func (r *stubRoller) Roll(sides int) int {
	return r.die
}

type testServer struct {
	httpServer *httptest.Server
	provider   *authproviders.JWTAuthProvider
	broker     *events.Broker
}

func newTestServer(t *testing.T, die int) *testServer {
	t.Helper()

	provider, err := authproviders.NewJWTAuthProvider("test-secret")
	require.NoError(t, err)

	repository := repositories.NewMemoryRepository()
	broker := events.NewBroker()
	l := ledger.NewLedger(ledger.NewLedgerOptions{
		Repository: repository,
		Roller:     &stubRoller{die: die},
		Broker:     broker,
	})

	server := NewAPIServer(NewAPIServerOptions{
		AuthProvider: provider,
		Repository:   repository,
		Ledger:       l,
		Broker:       broker,
	})
	httpServer := httptest.NewServer(server.server.Handler)
	t.Cleanup(httpServer.Close)

	return &testServer{
		httpServer: httpServer,
		provider:   provider,
		broker:     broker,
	}
}

func (s *testServer) playerToken(t *testing.T, memberID string) string {
	t.Helper()
	token, err := s.provider.MintToken(memberID, authproviders.RolePlayer, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) gmToken(t *testing.T) string {
	t.Helper()
	token, err := s.provider.MintToken("gm-1", authproviders.RoleGM, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.httpServer.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpServer.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const memberPath = "/api/communities/guild-1/members/member-1"

func createCharacterRequest(t *testing.T, s *testServer, token string) *http.Response {
	t.Helper()
	return s.request(t, http.MethodPost, memberPath+"/character", token, handlers.CreateCharacterRequest{
		Name:      "Livia",
		Origin:    "citizen",
		Primary:   "mind",
		Secondary: "body",
	})
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer(t, 10)

	resp := s.request(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := map[string]string{}
	decodeResponse(t, resp, &status)
	assert.Equal(t, "ok", status["status"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, 10)

	resp := s.request(t, http.MethodGet, "/api/shop", "", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/shop", "not-a-token", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogueEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")

	resp := s.request(t, http.MethodGet, "/api/shop", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shop := &handlers.ShopResponse{}
	decodeResponse(t, resp, shop)
	assert.Equal(t, "doubloons", shop.Currency)
	assert.Len(t, shop.Items, 7)

	resp = s.request(t, http.MethodGet, "/api/skills", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	skills := []handlers.SkillInfo{}
	decodeResponse(t, resp, &skills)
	assert.Len(t, skills, 12)
}

func TestCharacterEndpoints(t *testing.T) {
	s := newTestServer(t, 20)
	token := s.playerToken(t, "member-1")

	resp := createCharacterRequest(t, s, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sheet := &ledger.Sheet{}
	decodeResponse(t, resp, sheet)
	assert.Equal(t, 5, sheet.Character.Mind)
	assert.Equal(t, 400, sheet.Character.Wallet)

	// creating again conflicts
	resp = createCharacterRequest(t, s, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.request(t, http.MethodGet, memberPath+"/sheet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, sheet)
	assert.Equal(t, "Livia", sheet.Character.Name)

	resp = s.request(t, http.MethodPost, memberPath+"/skills/allocate", token, handlers.AllocateSkillPointsRequest{
		Skill:  "lore",
		Points: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	allocation := &ledger.AllocateResult{}
	decodeResponse(t, resp, allocation)
	assert.Equal(t, 3, allocation.Points)
	assert.Equal(t, 8, allocation.Remaining)

	resp = s.request(t, http.MethodPost, memberPath+"/rolls", token, handlers.RollCheckRequest{
		Skill: "lore",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	check := &ledger.CheckResult{}
	decodeResponse(t, resp, check)
	assert.Equal(t, 20, check.Die)
	assert.True(t, check.Critical)
	assert.Equal(t, 20+3+5, check.Total)

	resp = s.request(t, http.MethodPost, memberPath+"/damage", token, handlers.AdjustPoolRequest{
		Pool:   "health",
		Amount: 999,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pool := &ledger.PoolResult{}
	decodeResponse(t, resp, pool)
	assert.Equal(t, 0, pool.Value)
	assert.Equal(t, "incapacitated", pool.Condition)

	resp = s.request(t, http.MethodPost, memberPath+"/heal", token, handlers.AdjustPoolRequest{
		Pool:   "health",
		Amount: 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, pool)
	assert.Equal(t, 2, pool.Value)

	// an unknown skill is a client error
	resp = s.request(t, http.MethodPost, memberPath+"/rolls", token, handlers.RollCheckRequest{
		Skill: "basket_weaving",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// a missing character is not found
	resp = s.request(t, http.MethodGet, "/api/communities/guild-1/members/member-2/sheet", s.playerToken(t, "member-2"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMemberAccess(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")

	resp := createCharacterRequest(t, s, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// another member cannot read the sheet
	resp = s.request(t, http.MethodGet, memberPath+"/sheet", s.playerToken(t, "member-2"), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the game master can
	resp = s.request(t, http.MethodGet, memberPath+"/sheet", s.gmToken(t), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWalletEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")

	resp := createCharacterRequest(t, s, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodGet, memberPath+"/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := &ledger.BalanceResult{}
	decodeResponse(t, resp, balance)
	assert.Equal(t, 400, balance.Wallet)
	assert.Equal(t, "doubloons", balance.Currency)

	resp = s.request(t, http.MethodPost, memberPath+"/wallet/debit", token, handlers.AdjustWalletRequest{Amount: 150})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, balance)
	assert.Equal(t, 250, balance.Wallet)

	// cannot overdraw
	resp = s.request(t, http.MethodPost, memberPath+"/wallet/debit", token, handlers.AdjustWalletRequest{Amount: 999})
	resp.Body.Close()
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	// credits are a game master operation
	resp = s.request(t, http.MethodPost, memberPath+"/wallet/credit", token, handlers.AdjustWalletRequest{Amount: 100})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.request(t, http.MethodPost, memberPath+"/wallet/credit", s.gmToken(t), handlers.AdjustWalletRequest{Amount: 100})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, balance)
	assert.Equal(t, 350, balance.Wallet)
}

func TestPurchaseAndGrantEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")

	resp := createCharacterRequest(t, s, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodPost, memberPath+"/purchases", token, handlers.PurchaseRequest{Item: "dagger", Qty: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	purchase := &ledger.PurchaseResult{}
	decodeResponse(t, resp, purchase)
	assert.Equal(t, 320, purchase.Wallet)
	assert.Equal(t, 1, purchase.Owned)

	resp = s.request(t, http.MethodPost, memberPath+"/purchases", token, handlers.PurchaseRequest{Item: "cursed_idol", Qty: 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// grants are a game master operation
	resp = s.request(t, http.MethodPost, memberPath+"/items/grant", token, handlers.GrantItemRequest{Item: "pistol", Qty: 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.request(t, http.MethodPost, memberPath+"/items/grant", s.gmToken(t), handlers.GrantItemRequest{Item: "pistol", Qty: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	grant := &ledger.GrantResult{}
	decodeResponse(t, resp, grant)
	assert.Equal(t, 1, grant.Owned)
}

func TestSnapshotEndpoints(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")
	gmToken := s.gmToken(t)

	resp := createCharacterRequest(t, s, token)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// exports are a game master operation
	resp = s.request(t, http.MethodGet, "/api/communities/guild-1/snapshot", token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.request(t, http.MethodGet, "/api/communities/guild-1/snapshot", gmToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	exported := &snapshot.Snapshot{}
	decodeResponse(t, resp, exported)
	require.Len(t, exported.Characters, 1)

	// the archive download decodes to the same snapshot
	resp = s.request(t, http.MethodGet, "/api/communities/guild-1/snapshot?format=zst", gmToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zstd", resp.Header.Get("Content-Type"))
	archived, err := snapshot.ReadArchive(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, exported, archived)

	// wipe the wallet, then restore the snapshot
	resp = s.request(t, http.MethodPost, memberPath+"/wallet/debit", token, handlers.AdjustWalletRequest{Amount: 400})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.request(t, http.MethodPut, "/api/communities/guild-1/snapshot", gmToken, exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := &ledger.ImportResult{}
	decodeResponse(t, resp, result)
	assert.Equal(t, 1, result.Characters)

	resp = s.request(t, http.MethodGet, memberPath+"/wallet", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	balance := &ledger.BalanceResult{}
	decodeResponse(t, resp, balance)
	assert.Equal(t, 400, balance.Wallet)

	// a document missing the required tables is a client error
	req, err := http.NewRequest(http.MethodPut, s.httpServer.URL+"/api/communities/guild-1/snapshot", strings.NewReader(`{"characters": []}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+gmToken)
	badResp, err := s.httpServer.Client().Do(req)
	require.NoError(t, err)
	badResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badResp.StatusCode)
}

func TestEventsWebSocket(t *testing.T) {
	s := newTestServer(t, 10)
	token := s.playerToken(t, "member-1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(s.httpServer.URL, "http") + "/api/communities/guild-1/events"
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + token}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// publish until the subscription is live and the first event lands
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.broker.Publish(events.EventTypeCheckRolled, "guild-1", "member-1", map[string]int{"die": 7})
			}
		}
	}()

	event := &events.Event{}
	require.NoError(t, wsjson.Read(ctx, conn, event))
	assert.Equal(t, events.EventTypeCheckRolled, event.Type)
	assert.Equal(t, "guild-1", event.CommunityID)
	assert.Equal(t, "member-1", event.MemberID)
	assert.JSONEq(t, `{"die": 7}`, string(event.Payload))
}

func TestEventsWebSocketRequiresAuth(t *testing.T) {
	s := newTestServer(t, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(s.httpServer.URL, "http") + "/api/communities/guild-1/events"
	_, resp, err := websocket.Dial(ctx, url, nil)
	require.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}
