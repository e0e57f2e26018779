package employment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/alignment-service/internal/alignment"
	"jobmate/alignment-service/internal/employment"
)

func newServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	employment.NewHandler(f.svc, quietLogger()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, userID, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("x-user-id", userID)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		if len(raw) > 0 && raw[0] == '{' {
			require.NoError(t, json.Unmarshal(raw, &out))
		} else {
			out = map[string]any{"items": raw}
		}
	}
	return resp, out
}

func TestHandler_RequiresUserHeader(t *testing.T) {
	srv := newServer(t, newFixture(nil))

	resp, body := do(t, srv, http.MethodPut, "/employment/position", "", `{"position":"Baker","program":"BSIT"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing x-user-id header", body["error"])
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newServer(t, newFixture(nil))

	for path, method := range map[string]string{
		"/employment/position":          http.MethodPost,
		"/employment/position/check":    http.MethodGet,
		"/employment/alignment/confirm": http.MethodPut,
		"/employment/alignment/pending": http.MethodPost,
		"/references/autocomplete":      http.MethodPost,
		"/alignment/breakdown":          http.MethodDelete,
	} {
		resp, _ := do(t, srv, method, path, "u1", "")
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, "%s %s", method, path)
	}
}

func TestHandler_PositionAndConfirm(t *testing.T) {
	f := newFixture(map[alignment.Track][]string{alignment.TrackInfoSystem: {"OPERATIONS MANAGER"}})
	srv := newServer(t, f)

	resp, body := do(t, srv, http.MethodPut, "/employment/position", "u1",
		`{"position":"Operations Manager","company":"Acme Inc.","program":"BSIT"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pending_user_confirmation", body["alignmentStatus"])
	suggestion, ok := body["suggestion"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Is 'OPERATIONS MANAGER' aligned to your BSIT program?", suggestion["question"])

	resp, _ = do(t, srv, http.MethodGet, "/employment/alignment/pending", "u1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/employment/alignment/confirm", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "body must contain confirmed", body["error"])

	resp, body = do(t, srv, http.MethodPost, "/employment/alignment/confirm", "u1", `{"confirmed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "aligned", body["alignmentStatus"])
	assert.Equal(t, "BSIT", body["alignmentCategory"])
}

func TestHandler_Errors(t *testing.T) {
	srv := newServer(t, newFixture(nil))

	resp, _ := do(t, srv, http.MethodPut, "/employment/position", "u1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPut, "/employment/position", "u1", `{"position":"Baker"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "program")

	resp, _ = do(t, srv, http.MethodPost, "/employment/alignment/confirm", "ghost", `{"confirmed":false}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/references/autocomplete?limit=0", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_StoreOutage(t *testing.T) {
	srv := newServer(t, newFixtureWithStores(downStores()))

	resp, _ := do(t, srv, http.MethodPut, "/employment/position", "u1", `{"position":"Baker","program":"BSIT"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestHandler_CheckRateLimited(t *testing.T) {
	srv := newServer(t, newFixture(nil, employment.WithCheckLimiter(employment.NewCheckLimiter(0.001, 1))))

	resp, _ := do(t, srv, http.MethodPost, "/employment/position/check", "u1", `{"position":"Baker","program":"BSIT"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, srv, http.MethodPost, "/employment/position/check", "u1", `{"position":"Bakr","program":"BSIT"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHandler_AutocompleteAndBreakdown(t *testing.T) {
	f := newFixture(map[alignment.Track][]string{alignment.TrackInfoTech: {"Web Developer", "Web Designer"}})
	srv := newServer(t, f)

	resp, body := do(t, srv, http.MethodGet, "/references/autocomplete?q=web&limit=1", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var titles []alignment.TitleSuggestion
	require.NoError(t, json.Unmarshal(body["items"].(json.RawMessage), &titles))
	assert.Equal(t, []alignment.TitleSuggestion{{Title: "WEB DESIGNER", Program: "BSIT"}}, titles)

	resp, body = do(t, srv, http.MethodGet, "/alignment/breakdown", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []employment.BreakdownRow
	require.NoError(t, json.Unmarshal(body["items"].(json.RawMessage), &rows))
	assert.Len(t, rows, 3)
}
