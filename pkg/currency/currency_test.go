package currency

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateServer(t *testing.T, requests *int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			atomic.AddInt64(requests, 1)
		}

		switch r.URL.Path {
		case "/latest/eur.json":
			fmt.Fprint(w, `{"date": "2024-06-01", "eur": {"usd": 1.1, "cad": 1.5}}`)
		case "/2024-01-02/eur.json":
			fmt.Fprint(w, `{"date": "2024-01-02", "eur": {"usd": 1.2}}`)
		case "/latest/xxx.json":
			// published currency with no rate for the target
			fmt.Fprint(w, `{"date": "2024-06-01", "xxx": {}}`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testEndpoint(server *httptest.Server) string {
	return server.URL + "/%s/%s.json"
}

func TestRateLatest(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	rate, err := converter.Rate("EUR", "USD", Latest, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.1, rate)
}

func TestRateDated(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	rate, err := converter.Rate("eur", "usd", "2024-01-02", nil)
	require.NoError(t, err)
	assert.Equal(t, 1.2, rate)
}

func TestRateSameCurrency(t *testing.T) {
	// no server: same currency must not hit the network
	converter := NewConverterWithEndpoint("http://127.0.0.1:0/%s/%s.json")

	rate, err := converter.Rate("USD", "usd", Latest, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, rate)
}

func TestRateCached(t *testing.T) {
	requests := int64(0)
	server := rateServer(t, &requests)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	for i := 0; i < 3; i++ {
		_, err := converter.Rate("EUR", "USD", Latest, nil)
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), atomic.LoadInt64(&requests))
}

func TestRateDefaultFallback(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	fallback := 0.75
	rate, err := converter.Rate("XXX", "USD", Latest, &fallback)
	require.NoError(t, err)
	assert.Equal(t, 0.75, rate)
}

func TestRateMissingWithoutDefault(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	_, err := converter.Rate("XXX", "USD", Latest, nil)
	assert.ErrorContains(t, err, "XXX/USD")
}

func TestRateServerError(t *testing.T) {
	server := rateServer(t, nil)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	_, err := converter.Rate("ZZZ", "USD", Latest, nil)
	assert.Error(t, err)
}

func TestGenerateConversions(t *testing.T) {
	requests := int64(0)
	server := rateServer(t, &requests)
	defer server.Close()

	converter := NewConverterWithEndpoint(testEndpoint(server))

	lookups := []Lookup{
		{From: "eur", Date: Latest},
		{From: "eur", Date: Latest},
		{From: "eur", Date: "2024-01-02"},
		{From: "usd", Date: Latest},
	}

	conversions, err := GenerateConversions(converter, "usd", lookups, nil)
	require.NoError(t, err)

	assert.Len(t, conversions, 3)
	assert.Equal(t, 1.1, conversions[Lookup{From: "eur", Date: Latest}])
	assert.Equal(t, 1.2, conversions[Lookup{From: "eur", Date: "2024-01-02"}])
	assert.Equal(t, 1.0, conversions[Lookup{From: "usd", Date: Latest}])
	// usd/usd short circuits, the two distinct eur lookups fetch once each
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}
