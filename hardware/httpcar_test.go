package hardware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCar_MoveDistance_SendsExpectedBody(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(rpcResponse{Success: true})
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, "")
	ok := h.MoveDistance(42.5)

	assert.True(t, ok)
	assert.Equal(t, "/api/move", gotPath)
	assert.Equal(t, 42.5, gotBody["distance"])
}

func TestHTTPCar_RotateDegrees_SendsExpectedBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(rpcResponse{Success: true})
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, "")
	require.True(t, h.RotateDegrees(-90))
	assert.Equal(t, -90.0, gotBody["angle"])
}

func TestHTTPCar_GetDistanceCm_ParsesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(rpcResponse{Success: true, Result: json.RawMessage(`17.5`)})
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, "")
	assert.Equal(t, 17.5, h.GetDistanceCm())
}

func TestHTTPCar_GetDistanceCm_FailureReturnsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, "")
	assert.Equal(t, 999.0, h.GetDistanceCm())
}

func TestHTTPCar_SigningRoundTrip(t *testing.T) {
	const key = "shared-secret"

	var gotSig string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-TinkerBlocks-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(rpcResponse{Success: true})
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, key)
	require.True(t, h.ControlBuzzer("on"))

	require.NotEmpty(t, gotSig)
	assert.True(t, verifySignature([]byte(key), gotBody, gotSig))
	assert.False(t, verifySignature([]byte("wrong-key"), gotBody, gotSig))
}

func TestHTTPCar_NoSignatureHeaderWhenKeyEmpty(t *testing.T) {
	sawHeader := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["X-Tinkerblocks-Signature"]
		json.NewEncoder(w).Encode(rpcResponse{Success: true})
	}))
	defer server.Close()

	h := NewHTTPCar(server.URL, time.Second, "")
	require.True(t, h.ControlBuzzer("off"))
	assert.False(t, sawHeader)
}

func TestHTTPCar_WithContext_CancellationPropagates(t *testing.T) {
	unblock := make(chan struct{})
	defer close(unblock)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	base := NewHTTPCar(server.URL, 5*time.Second, "")

	ctx, cancel := context.WithCancel(context.Background())
	bound := base.WithContext(ctx)

	done := make(chan bool, 1)
	go func() {
		done <- bound.MoveDistance(1)
	}()

	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("MoveDistance did not return after context cancellation")
	}
}

func TestHTTPCar_WithContext_ReturnsDistinctInstance(t *testing.T) {
	base := NewHTTPCar("http://example.invalid", time.Second, "")
	bound := base.WithContext(context.Background())

	assert.NotSame(t, base, bound)
	var _ Interface = bound
}
