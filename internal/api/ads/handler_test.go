package ads

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, string) {
	t.Helper()
	dir := t.TempDir()

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(dir))
	return r, dir
}

func TestViewServesExistingCreative(t *testing.T) {
	r, dir := newTestRouter(t)

	content := []byte("png bytes")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ad_1a2b3c4d_1.png"), content, 0o644))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view-ad/ad_1a2b3c4d_1.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, content, rec.Body.Bytes())
	assert.NotContains(t, rec.Header().Get("Content-Disposition"), "attachment")
}

func TestDownloadSetsAttachmentHeader(t *testing.T) {
	r, dir := newTestRouter(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ad_1a2b3c4d_2.png"), []byte("x"), 0o644))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download-ad/ad_1a2b3c4d_2.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="ad_1a2b3c4d_2.png"`, rec.Header().Get("Content-Disposition"))
}

func TestServeRejectsInvalidFilenames(t *testing.T) {
	r, dir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("nope"), 0o644))

	invalid := []string{
		"secret.txt",
		"ad_1a2b3c4d_1.jpg",
		"ad__1.png",
		"ad_zzzzzzzzz_1.png",
		"..%2F..%2Fetc%2Fpasswd",
	}

	for _, name := range invalid {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view-ad/"+name, nil))
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestServeMissingCreative(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/view-ad/ad_deadbeef_3.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
