package quake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lysyi3m/obs-overlay/app/observability"
)

const historyJSON = `[{"id":"65a1","code":551,"time":"2024/01/01 16:10:30.123",
"issue":{"source":"気象庁","time":"2024/01/01 16:13:00","type":"DetailScale"},
"earthquake":{"time":"2024/01/01 16:10:00","maxScale":70,"hypocenter":{"name":"石川県能登地方","depth":10,"magnitude":7.6}},
"points":[{"pref":"石川県","addr":"志賀町","isArea":false,"scale":70}]}]`

func testClient(productionURL string) *Client {
	return NewClient(productionURL, productionURL+"/sandbox", "test-agent", 5*time.Second, observability.NewMetricsForTesting())
}

func serve(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Latest_Direct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/history", r.URL.Path)
		assert.Equal(t, "551", r.URL.Query().Get("codes"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-agent", r.UserAgent())
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer srv.Close()

	ev, err := testClient(srv.URL).Latest(context.Background(), Route{})
	require.NoError(t, err)
	require.NotNil(t, ev)

	assert.Equal(t, 70, ev.Earthquake.MaxScale)
	assert.Equal(t, "石川県能登地方", ev.Earthquake.Hypocenter.Name)
	assert.Equal(t, "7.6", ev.Earthquake.Hypocenter.Magnitude.String())
	require.Len(t, ev.Points, 1)
	assert.Equal(t, "志賀町", ev.Points[0].Addr)
	assert.Contains(t, ev.Signature(), "|65a1|")
}

func TestClient_Latest_Sandbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sandbox/history", r.URL.Path)
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer srv.Close()

	ev, err := testClient(srv.URL).Latest(context.Background(), Route{Sandbox: true})
	require.NoError(t, err)
	assert.NotNil(t, ev)
}

func TestClient_Latest_Empty(t *testing.T) {
	var hits atomic.Int32
	srv := serve(t, http.StatusOK, `[]`, &hits)

	ev, err := testClient(srv.URL).Latest(context.Background(), Route{})
	require.NoError(t, err)
	assert.Nil(t, ev)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_Latest_ProxyFailsDirectSucceeds(t *testing.T) {
	var proxyHits, apiHits atomic.Int32
	proxy := serve(t, http.StatusBadGateway, "bad gateway", &proxyHits)
	api := serve(t, http.StatusOK, historyJSON, &apiHits)

	ev, err := testClient(api.URL).Latest(context.Background(), Route{Proxy: proxy.URL + "/raw?url="})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, int32(1), proxyHits.Load())
	assert.Equal(t, int32(1), apiHits.Load())
}

func TestClient_Latest_FallbackProxy(t *testing.T) {
	var apiHits, fallbackHits atomic.Int32
	api := serve(t, http.StatusServiceUnavailable, "down", &apiHits)

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fallbackHits.Add(1)
		assert.Equal(t, api.URL+"/history?codes=551&limit=1", r.URL.Query().Get("u"))
		_, _ = w.Write([]byte(historyJSON))
	}))
	defer fallback.Close()

	ev, err := testClient(api.URL).Latest(context.Background(), Route{FallbackProxy: fallback.URL + "/get?u={url}"})
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, int32(1), apiHits.Load())
	assert.Equal(t, int32(1), fallbackHits.Load())
}

func TestClient_Latest_AllFailReturnsFirstError(t *testing.T) {
	var proxyHits, apiHits, fallbackHits atomic.Int32
	proxy := serve(t, http.StatusBadGateway, "proxy says no", &proxyHits)
	api := serve(t, http.StatusInternalServerError, "api says no", &apiHits)
	fallback := serve(t, http.StatusForbidden, "fallback says no", &fallbackHits)

	_, err := testClient(api.URL).Latest(context.Background(), Route{
		Proxy:         proxy.URL + "/?u=",
		FallbackProxy: fallback.URL + "/?u=",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quake HTTP 502")
	assert.Contains(t, err.Error(), "proxy says no")
	assert.Equal(t, int32(1), proxyHits.Load())
	assert.Equal(t, int32(1), apiHits.Load())
	assert.Equal(t, int32(1), fallbackHits.Load())
}

func TestClient_Latest_SkipsRepeatedURLs(t *testing.T) {
	var hits atomic.Int32
	api := serve(t, http.StatusInternalServerError, "nope", &hits)

	_, err := testClient(api.URL).Latest(context.Background(), Route{})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_Latest_BadJSON(t *testing.T) {
	var hits atomic.Int32
	api := serve(t, http.StatusOK, `{"not":"an array"}`, &hits)

	_, err := testClient(api.URL).Latest(context.Background(), Route{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
