package persist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
)

func testBackend(baseURL string) *GitHubBackend {
	b := NewGitHubBackend(config.GitHub{
		Owner:  "ivan",
		Repo:   "portfolio",
		Branch: "main",
		Token:  "t0ken",
	})
	b.baseURL = baseURL
	return b
}

func TestPutFile_ExistingFileSendsSHA(t *testing.T) {
	var putBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			assert.Equal(t, "token t0ken", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "abc123"})
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &putBody))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"commit": {"sha": "new"}}`))
		}
	}))
	defer srv.Close()

	b := testBackend(srv.URL)
	content := []byte(`{"name": "Иван"}` + "\n")
	require.NoError(t, b.PutFile(context.Background(), "personal.json", content))

	assert.Equal(t, "abc123", putBody["sha"])
	assert.Equal(t, "Update personal.json via CMS", putBody["message"])
	assert.Equal(t, "main", putBody["branch"])

	decoded, err := base64.StdEncoding.DecodeString(putBody["content"].(string))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestPutFile_NewFileOmitsSHA(t *testing.T) {
	var putBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		case http.MethodPut:
			raw, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(raw, &putBody))
			// Создание нового файла отвечает 201.
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"commit": {"sha": "new"}}`))
		}
	}))
	defer srv.Close()

	b := testBackend(srv.URL)
	require.NoError(t, b.PutFile(context.Background(), "blog.json", []byte(`[]`)))

	_, hasSHA := putBody["sha"]
	assert.False(t, hasSHA, "sha не должен попадать в payload для нового файла")
}

func TestPutFile_UpstreamErrorPassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{"sha": "abc123"})
		case http.MethodPut:
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message": "data/personal.json does not match"}`))
		}
	}))
	defer srv.Close()

	b := testBackend(srv.URL)
	err := b.PutFile(context.Background(), "personal.json", []byte(`{}`))
	require.Error(t, err)

	var upstream *apperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusConflict, upstream.Status)
	assert.Contains(t, upstream.Message, "does not match")
}

func TestPutFile_DisallowedFilenameRejectedBeforeNetwork(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	b := testBackend(srv.URL)
	for _, name := range []string{"../secrets.json", "random.json", "personal.json.bak", ""} {
		err := b.PutFile(context.Background(), name, []byte(`{}`))
		assert.True(t, apperr.IsValidation(err), "имя %q должно отвергаться валидацией", name)
	}
	assert.Equal(t, int64(0), requests.Load(), "сетевых вызовов быть не должно")
}

func TestLocalBackend_WriteAndAllowList(t *testing.T) {
	dir := t.TempDir()
	b := NewLocalBackend(dir)

	content := []byte("{\n  \"name\": \"Иван\"\n}\n")
	require.NoError(t, b.PutFile(context.Background(), "personal.json", content))

	got, err := os.ReadFile(filepath.Join(dir, "personal.json"))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	err = b.PutFile(context.Background(), "../escape.json", []byte(`{}`))
	assert.True(t, apperr.IsValidation(err))
	_, statErr := os.Stat(filepath.Join(dir, "..", "escape.json"))
	assert.True(t, os.IsNotExist(statErr), "файл вне каталога не должен создаваться")
}

func TestProxyBackend_SendsFiveFields(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	b := NewProxyBackend(srv.URL, config.GitHub{Owner: "ivan", Repo: "portfolio", Branch: "main", Token: "t0ken"})
	require.NoError(t, b.PutFile(context.Background(), "projects.json", []byte(`[]`)))

	assert.Equal(t, "projects.json", body["filename"])
	assert.Equal(t, "t0ken", body["token"])
	assert.Equal(t, "portfolio", body["repo"])
	assert.Equal(t, "ivan", body["owner"])
	assert.Equal(t, "main", body["branch"])
}

func TestProxyBackend_ErrorForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": "Bad credentials"})
	}))
	defer srv.Close()

	b := NewProxyBackend(srv.URL, config.GitHub{Token: "bad"})
	err := b.PutFile(context.Background(), "blog.json", []byte(`[]`))

	var upstream *apperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
	assert.Equal(t, "Bad credentials", upstream.Message)
}
