package supabase

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rede-backend/pkg/errors"
)

func TestStorageClient_Upload(t *testing.T) {
	t.Run("uploads with upsert header", func(t *testing.T) {
		var gotPath, gotUpsert, gotContentType, gotBody string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotUpsert = r.Header.Get("x-upsert")
			gotContentType = r.Header.Get("Content-Type")
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"Key":"avatars/user-1/avatar.png"}`))
		})

		err := client.Storage().Upload(context.Background(), "at", "avatars", "user-1/avatar.png", "image/png", strings.NewReader("png-bytes"), true)
		require.NoError(t, err)

		assert.Equal(t, "/storage/v1/object/avatars/user-1/avatar.png", gotPath)
		assert.Equal(t, "true", gotUpsert)
		assert.Equal(t, "image/png", gotContentType)
		assert.Equal(t, "png-bytes", gotBody)
	})

	t.Run("upload failure maps to storage error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
		})

		err := client.Storage().Upload(context.Background(), "at", "banners", "user-1/banner.jpg", "image/jpeg", strings.NewReader("x"), true)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeStorage))
	})
}

func TestStorageClient_PublicURL(t *testing.T) {
	client := NewClient("https://proj.supabase.co", "anon", nil, nil)

	url := client.Storage().PublicURL("avatars", "user-1/avatar.png")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/avatars/user-1/avatar.png", url)
}
