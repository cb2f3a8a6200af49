package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lexdesk/internal/mockbackend"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// newTestServer returns a client wired to handler and a counter of requests seen.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client()})
	return client, &calls
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_Classify_Success(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/classify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"text": "Tenant vs landlord eviction dispute"}, body)

		writeJSON(w, http.StatusOK, `{"category":"Civil"}`)
	})

	res, err := client.Classify(context.Background(), ClassifyRequest{Text: "Tenant vs landlord eviction dispute"})
	require.NoError(t, err)
	assert.Equal(t, "Civil", res.Category)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestClient_Prioritize_Success(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/prioritize", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"priority":"High"}`)
	})

	res, err := client.Prioritize(context.Background(), PrioritizeRequest{Text: "armed robbery"})
	require.NoError(t, err)
	assert.Equal(t, "High", res.Priority)
}

func TestClient_Chat_SendsHistory(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "What is bail?"},
		{Role: RoleAssistant, Content: "Bail is..."},
	}

	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat", r.URL.Path)
		var got ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if diff := cmp.Diff(ChatRequest{Message: "And anticipatory bail?", History: history}, got); diff != "" {
			t.Errorf("request mismatch (-want +got):\n%s", diff)
		}
		writeJSON(w, http.StatusOK, `{"answer":"It is granted before arrest.","sources":[{"content":"Sec 498"}]}`)
	})

	res, err := client.Chat(context.Background(), ChatRequest{Message: "And anticipatory bail?", History: history})
	require.NoError(t, err)
	want := ChatResult{Answer: "It is granted before arrest.", Sources: []Source{{Content: "Sec 498"}}}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Chat_NilHistoryIsSentAsEmptyArray(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.JSONEq(t, `[]`, string(raw["history"]))
		writeJSON(w, http.StatusOK, `{"answer":"ok"}`)
	})

	res, err := client.Chat(context.Background(), ChatRequest{Message: "What is adverse possession?"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Answer)
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
}

func TestClient_FailureWithoutDetailUsesFallback(t *testing.T) {
	client, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Classify(context.Background(), ClassifyRequest{Text: "x"})
	require.Error(t, err)

	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, http.StatusInternalServerError, ie.Status)
	assert.Empty(t, ie.Detail)
	assert.Equal(t, "Failed to classify case.", DisplayMessage(err, EndpointClassify.Fallback()))
	assert.Equal(t, int32(1), atomic.LoadInt32(calls), "no retries")
}

func TestClient_FailureDetailIsSurfaced(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"detail":"Prioritization model not loaded."}`)
	})

	_, err := client.Prioritize(context.Background(), PrioritizeRequest{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, "Prioritization model not loaded.", DisplayMessage(err, PrioritizeFallback))
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_ValidationDetailListIsJoined(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"},{"msg":"str type expected"}]}`)
	})

	_, err := client.Classify(context.Background(), ClassifyRequest{Text: "x"})
	assert.Equal(t, "field required; str type expected", DisplayMessage(err, ClassifyFallback))
}

func TestClient_MalformedSuccessBodyIsFailure(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"empty", ``},
		{"missing field", `{"label":"Civil"}`},
		{"trailing data", `{"category":"Civil"} <html>`},
		{"two values", `{"category":"Civil"}{"category":"Criminal"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tc.body)
			})

			res, err := client.Classify(context.Background(), ClassifyRequest{Text: "x"})
			require.Error(t, err)
			assert.Equal(t, ClassifyResult{}, res)

			var ie *Error
			require.True(t, errors.As(err, &ie))
			assert.Empty(t, ie.Detail)
			assert.NotNil(t, ie.Unwrap())
			assert.Equal(t, ClassifyFallback, DisplayMessage(err, ClassifyFallback))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(Options{BaseURL: url})
	_, err := client.Chat(context.Background(), ChatRequest{Message: "hello"})
	require.Error(t, err)

	var ie *Error
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Status)
	assert.Equal(t, ChatApology, DisplayMessage(err, EndpointChat.Fallback()))
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, Timeout: 20 * time.Millisecond})
	_, err := client.Classify(context.Background(), ClassifyRequest{Text: "x"})
	require.Error(t, err)
	assert.Equal(t, ClassifyFallback, DisplayMessage(err, ClassifyFallback))
}

func TestClient_TrailingSlashBaseURL(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		writeJSON(w, http.StatusOK, `{"category":"Civil"}`)
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL + "/", HTTPClient: server.Client()})
	_, err := client.Classify(context.Background(), ClassifyRequest{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/classify", path)
	assert.Equal(t, server.URL, client.BaseURL())
}

func TestClient_AgainstMockBackend(t *testing.T) {
	server := httptest.NewServer(mockbackend.NewRouter(mockbackend.Options{}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL, HTTPClient: server.Client()})
	ctx := context.Background()

	cls, err := client.Classify(ctx, ClassifyRequest{Text: "Tenant vs landlord eviction dispute"})
	require.NoError(t, err)
	assert.Equal(t, "Civil", cls.Category)

	pri, err := client.Prioritize(ctx, PrioritizeRequest{Text: "Armed robbery at a jewellery store"})
	require.NoError(t, err)
	assert.Equal(t, "High", pri.Priority)

	chat, err := client.Chat(ctx, ChatRequest{Message: "What is adverse possession?"})
	require.NoError(t, err)
	assert.Len(t, chat.Sources, 1)

	_, err = client.Classify(ctx, ClassifyRequest{Text: " "})
	assert.Equal(t, "Text input is empty.", DisplayMessage(err, ClassifyFallback))
}

func TestEndpointFallbacks(t *testing.T) {
	assert.Equal(t, "Failed to classify case.", EndpointClassify.Fallback())
	assert.Equal(t, "Failed to prioritize case.", EndpointPrioritize.Fallback())
	assert.Equal(t, ChatApology, EndpointChat.Fallback())
	assert.Equal(t, "Request failed.", Endpoint("/other").Fallback())
	assert.Equal(t, "chat", EndpointChat.Name())
}

func TestDisplayMessage_NonClientError(t *testing.T) {
	assert.Equal(t, "fallback", DisplayMessage(errors.New("boom"), "fallback"))
}
