package previewsrv

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/expando/internal/samplefields"
	"github.com/dekarrin/expando/previewsrv/dao/inmem"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// net/http/httptest is used here as the standard library's tool for testing
// an http.Handler end to end, since nothing elsewhere in this module's test
// suite offers an HTTP test harness of its own.

const testPassword = "correct-horse-battery-staple"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New(Config{
		Store:         inmem.New(),
		Defs:          samplefields.Definitions(),
		CB:            samplefields.Callbacks(),
		Sample:        samplefields.Sample(),
		JWTSecret:     []byte("test-secret"),
		AdminID:       uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		AdminPassword: testPassword,
	})
	require.NoError(t, err)
	return svc
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, PathPrefix+"/login", loginRequest{Password: testPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_Login_WrongPassword(t *testing.T) {
	svc := newTestService(t)
	rec := doJSON(t, svc.Router(), http.MethodPost, PathPrefix+"/login", loginRequest{Password: "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Login_RightPassword(t *testing.T) {
	svc := newTestService(t)
	tok := login(t, svc.Router())
	assert.NotEmpty(t, tok)
}

func Test_Preview_NoAuthRequired(t *testing.T) {
	svc := newTestService(t)
	rec := doJSON(t, svc.Router(), http.MethodPost, PathPrefix+"/preview", previewRequest{Format: "%s"}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, samplefields.Sample().Subject, resp.Rendered)
}

func Test_Preview_BadFormat(t *testing.T) {
	svc := newTestService(t)
	rec := doJSON(t, svc.Router(), http.MethodPost, PathPrefix+"/preview", previewRequest{Format: "%("}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_Presets_RequireAuth(t *testing.T) {
	svc := newTestService(t)
	rec := doJSON(t, svc.Router(), http.MethodGet, PathPrefix+"/presets", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_Presets_CreateListGetDelete(t *testing.T) {
	svc := newTestService(t)
	router := svc.Router()
	tok := login(t, router)

	createRec := doJSON(t, router, http.MethodPost, PathPrefix+"/presets", presetRequest{Name: "subject-only", Format: "%s"}, tok)
	require.Equal(t, http.StatusCreated, createRec.Code)

	var created presetResponse
	require.NoError(t, json.Unmarshal(createRec.Body.Bytes(), &created))
	assert.Equal(t, "subject-only", created.Name)

	listRec := doJSON(t, router, http.MethodGet, PathPrefix+"/presets", nil, tok)
	require.Equal(t, http.StatusOK, listRec.Code)
	var list []presetResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	getRec := doJSON(t, router, http.MethodGet, PathPrefix+"/presets/"+created.ID, nil, tok)
	require.Equal(t, http.StatusOK, getRec.Code)

	delRec := doJSON(t, router, http.MethodDelete, PathPrefix+"/presets/"+created.ID, nil, tok)
	require.Equal(t, http.StatusNoContent, delRec.Code)

	getAfterDeleteRec := doJSON(t, router, http.MethodGet, PathPrefix+"/presets/"+created.ID, nil, tok)
	assert.Equal(t, http.StatusNotFound, getAfterDeleteRec.Code)
}

func Test_Presets_DuplicateNameConflicts(t *testing.T) {
	svc := newTestService(t)
	router := svc.Router()
	tok := login(t, router)

	first := doJSON(t, router, http.MethodPost, PathPrefix+"/presets", presetRequest{Name: "dup", Format: "%s"}, tok)
	require.Equal(t, http.StatusCreated, first.Code)

	second := doJSON(t, router, http.MethodPost, PathPrefix+"/presets", presetRequest{Name: "dup", Format: "%f"}, tok)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func Test_Presets_UnparsableFormatRejected(t *testing.T) {
	svc := newTestService(t)
	router := svc.Router()
	tok := login(t, router)

	rec := doJSON(t, router, http.MethodPost, PathPrefix+"/presets", presetRequest{Name: "bad", Format: "%("}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

