package cloudinary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadSendsMultipartAndDerivesVariants(t *testing.T) {
	var gotPreset, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1_1/demo-cloud/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		gotPreset = r.FormValue("upload_preset")
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFile = hdr.Filename

		json.NewEncoder(w).Encode(map[string]string{
			"public_id":  "catering/abc123",
			"secure_url": "https://res.cloudinary.com/demo-cloud/image/upload/v1/catering/abc123.jpg",
		})
	}))
	defer srv.Close()

	u := NewUploaderWithBaseURL(srv.URL, "demo-cloud", "catering")
	res, err := u.Upload(context.Background(), "thali.jpg", strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "catering", gotPreset)
	assert.Equal(t, "thali.jpg", gotFile)
	assert.Equal(t, "catering/abc123", res.PublicID)
	assert.Equal(t, "https://res.cloudinary.com/demo-cloud/image/upload/v1/catering/abc123.jpg", res.URL)
	assert.Equal(t, "https://res.cloudinary.com/demo-cloud/image/upload/w_600,f_auto,q_auto/v1/catering/abc123.jpg", res.ThumbnailURL)
	assert.Equal(t, "https://res.cloudinary.com/demo-cloud/image/upload/w_900,h_700,c_fill,f_auto,q_auto/v1/catering/abc123.jpg", res.CardURL)
}

func TestUploadSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid preset"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	u := NewUploaderWithBaseURL(srv.URL, "demo-cloud", "catering")
	_, err := u.Upload(context.Background(), "x.jpg", strings.NewReader("data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
}

func TestUploadRequiresConfiguration(t *testing.T) {
	u := NewUploader("", "catering")
	_, err := u.Upload(context.Background(), "x.jpg", strings.NewReader("data"))
	assert.Error(t, err)

	u = NewUploader("demo-cloud", "")
	_, err = u.Upload(context.Background(), "x.jpg", strings.NewReader("data"))
	assert.Error(t, err)
}

func TestTransformHelpers(t *testing.T) {
	src := "https://res.cloudinary.com/c/image/upload/v1/p.jpg"

	assert.Equal(t, "https://res.cloudinary.com/c/image/upload/w_600,f_auto,q_auto/v1/p.jpg", ThumbnailURL(src))
	assert.Equal(t, "https://res.cloudinary.com/c/image/upload/w_900,h_700,c_fill,f_auto,q_auto/v1/p.jpg", CardURL(src))

	// idempotent
	assert.Equal(t, ThumbnailURL(src), ThumbnailURL(ThumbnailURL(src)))

	// non-cloudinary urls pass through
	assert.Equal(t, "https://example.com/a.png", ThumbnailURL("https://example.com/a.png"))
}
