package mockbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestClassifyHeuristics(t *testing.T) {
	assert.Equal(t, "Civil", Classify("Tenant vs landlord eviction dispute"))
	assert.Equal(t, "Criminal", Classify("The accused committed armed robbery"))
	assert.Equal(t, "Constitutional", Classify("Writ petition under Article 199"))
}

func TestPrioritizeHeuristics(t *testing.T) {
	assert.Equal(t, "High", Prioritize("Armed robbery at a bank with injury to guards"))
	assert.Equal(t, "Medium", Prioritize("Eviction of a tenant"))
	assert.Equal(t, "Low", Prioritize("Correction of a name in a land record"))
}

func TestRouter_Classify(t *testing.T) {
	h := NewRouter(Options{})

	rec := post(t, h, "/api/v1/classify", `{"text":"Tenant vs landlord eviction dispute"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Civil", decode(t, rec)["category"])
}

func TestRouter_EmptyTextIsRejected(t *testing.T) {
	h := NewRouter(Options{})

	for _, path := range []string{"/api/v1/classify", "/api/v1/prioritize"} {
		rec := post(t, h, path, `{"text":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "Text input is empty.", decode(t, rec)["detail"], path)
	}
}

func TestRouter_MalformedJSON(t *testing.T) {
	h := NewRouter(Options{})

	rec := post(t, h, "/api/v1/prioritize", `{"text":`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail, ok := decode(t, rec)["detail"].([]any)
	require.True(t, ok)
	assert.Len(t, detail, 1)
}

func TestRouter_Chat(t *testing.T) {
	h := NewRouter(Options{})

	rec := post(t, h, "/api/v1/chat", `{"message":"What is adverse possession?","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	answer, _ := body["answer"].(string)
	assert.Contains(t, answer, "adverse possession")
	assert.Contains(t, answer, "2 earlier message")
	sources, ok := body["sources"].([]any)
	require.True(t, ok)
	assert.Len(t, sources, 1)
}

func TestRouter_ChatWithoutMatchesReturnsEmptySources(t *testing.T) {
	h := NewRouter(Options{})

	rec := post(t, h, "/api/v1/chat", `{"message":"Explain res judicata","history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	sources, ok := decode(t, rec)["sources"].([]any)
	require.True(t, ok, "sources must be an array, not null")
	assert.Empty(t, sources)
}

func TestRouter_RootAndUnknown(t *testing.T) {
	h := NewRouter(Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = post(t, h, "/api/v1/unknown", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/classify", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, rec)["detail"])
}

func TestRouter_WrongMethodOnEveryEndpoint(t *testing.T) {
	h := NewRouter(Options{})
	for _, path := range []string{"/api/v1/classify", "/api/v1/prioritize", "/api/v1/chat"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStart_ServesAndShutsDown(t *testing.T) {
	shutdown, baseURL, err := Start("127.0.0.1:0", Options{Delay: time.Millisecond})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/api/v1/classify", "application/json", strings.NewReader(`{"text":"bail application"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, shutdown(ctx))
}
