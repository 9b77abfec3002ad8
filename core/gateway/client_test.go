package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gateway-manager/core/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		client, err := gateway.NewClient(gateway.Config{
			AccountID: "acct-1",
			APIToken:  "token",
			BaseURL:   "https://api.cloudflare.com/client/v4",
		})
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("MissingAccountID", func(t *testing.T) {
		_, err := gateway.NewClient(gateway.Config{APIToken: "token"})
		assert.Error(t, err)
	})

	t.Run("MissingToken", func(t *testing.T) {
		_, err := gateway.NewClient(gateway.Config{AccountID: "acct-1"})
		assert.Error(t, err)
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gateway.NewClient(gateway.Config{
		AccountID: "acct-1",
		APIToken:  "test-token",
		BaseURL:   srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestClient_Lists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/accounts/acct-1/gateway/lists", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"errors":[],"result":[{"id":"l1","name":"ads_list_1","count":1000}]}`))
	})

	lists, err := client.Lists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "l1", lists[0].ID)
	assert.Equal(t, "ads_list_1", lists[0].Name)
	assert.Equal(t, 1000, lists[0].Count)
}

func TestClient_Lists_NullResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"errors":[],"result":null}`))
	})

	lists, err := client.Lists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestClient_CreateList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/acct-1/gateway/lists", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ads_list_1", payload["name"])
		assert.Equal(t, "DOMAIN", payload["type"])
		items := payload["items"].([]any)
		require.Len(t, items, 2)
		assert.Equal(t, map[string]any{"value": "ads.example.com"}, items[0])

		_, _ = w.Write([]byte(`{"success":true,"errors":[],"result":{"id":"l-new","name":"ads_list_1","count":2}}`))
	})

	created, err := client.CreateList(context.Background(), "ads_list_1", "Managed by gateway-manager", []string{"ads.example.com", "tracker.example.net"})
	require.NoError(t, err)
	assert.Equal(t, "l-new", created.ID)
}

func TestClient_CreateRule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/accounts/acct-1/gateway/rules", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ads_rule", payload["name"])
		assert.Equal(t, "block", payload["action"])
		assert.Equal(t, []any{"dns"}, payload["filters"])
		assert.Equal(t, true, payload["enabled"])

		_, _ = w.Write([]byte(`{"success":true,"errors":[],"result":{"id":"r-new","name":"ads_rule"}}`))
	})

	created, err := client.CreateRule(context.Background(), gateway.Rule{
		Name:    "ads_rule",
		Action:  "block",
		Filters: []string{"dns"},
		Enabled: true,
		Traffic: `any(dns.domains[*] in $l1)`,
	})
	require.NoError(t, err)
	assert.Equal(t, "r-new", created.ID)
}

func TestClient_DeleteList_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/accounts/acct-1/gateway/lists/l1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteList(context.Background(), "l1"))
}

func TestClient_ListItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/acct-1/gateway/lists/l1/items", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"errors":[],"result":[{"value":"a.example.com"},{"value":"b.example.com"}]}`))
	})

	items, err := client.ListItems(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, items)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected gateway.Kind
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"success":false,"errors":[{"code":429,"message":"rate limited"}]}`, expected: gateway.KindRateLimit},
		{name: "bad payload", status: http.StatusBadRequest, body: `{"success":false,"errors":[{"code":1003,"message":"invalid list"}]}`, expected: gateway.KindValidation},
		{name: "bad token", status: http.StatusForbidden, body: `{"success":false,"errors":[{"code":10000,"message":"auth error"}]}`, expected: gateway.KindAuth},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, expected: gateway.KindAPI},
		{name: "envelope failure on 200", status: http.StatusOK, body: `{"success":false,"errors":[{"code":2000,"message":"nope"}]}`, expected: gateway.KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Lists(context.Background())
			require.Error(t, err)
			assert.True(t, gateway.IsKind(err, tt.expected), "got %v", err)
		})
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Lists(ctx)
	assert.Error(t, err)
}
