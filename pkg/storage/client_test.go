package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAndDelete(t *testing.T) {
	var uploaded []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/storage/v1/object/recipe-images/recipes/RCP-007.png", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "true", r.Header.Get("x-upsert"))
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			uploaded, _ = io.ReadAll(r.Body)
		case http.MethodDelete:
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "service-key", "recipe-images")

	url, err := client.Upload(context.Background(), "recipes/RCP-007.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/storage/v1/object/public/recipe-images/recipes/RCP-007.png", url)
	assert.Equal(t, []byte("png-bytes"), uploaded)

	path, ok := client.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "recipes/RCP-007.png", path)

	require.NoError(t, client.Delete(context.Background(), path))
}

func TestUploadSurfacesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"denied"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", "b").Upload(context.Background(), "x.png", "", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	_, ok := NewClient(server.URL, "k", "b").PathFromURL("https://elsewhere.example/x.png")
	assert.False(t, ok)
}
