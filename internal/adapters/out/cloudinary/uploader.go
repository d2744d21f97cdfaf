package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Uploader pushes product images to Cloudinary via the unsigned upload API
// and derives the delivery-URL variants the catalog serves.
type Uploader struct {
	client       *http.Client
	baseURL      string // default "https://api.cloudinary.com"
	cloudName    string
	uploadPreset string
}

// UploadResult is Cloudinary's view of a stored image plus the derived
// delivery variants.
type UploadResult struct {
	PublicID     string `json:"publicId"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	CardURL      string `json:"cardUrl"`
}

const (
	// transform chains for the two delivery contexts
	thumbnailTransform = "w_600,f_auto,q_auto"
	cardTransform      = "w_900,h_700,c_fill,f_auto,q_auto"
)

func NewUploader(cloudName, uploadPreset string) *Uploader {
	return &Uploader{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      "https://api.cloudinary.com",
		cloudName:    strings.TrimSpace(cloudName),
		uploadPreset: strings.TrimSpace(uploadPreset),
	}
}

// NewUploaderWithBaseURL points the uploader at a custom endpoint (tests).
func NewUploaderWithBaseURL(baseURL, cloudName, uploadPreset string) *Uploader {
	u := NewUploader(cloudName, uploadPreset)
	u.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return u
}

// Upload sends one image and returns the stored URL plus derived variants.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (UploadResult, error) {
	if u == nil || u.client == nil {
		return UploadResult{}, fmt.Errorf("cloudinary: uploader is nil")
	}
	if u.cloudName == "" {
		return UploadResult{}, fmt.Errorf("cloudinary: cloud name not configured")
	}
	if u.uploadPreset == "" {
		return UploadResult{}, fmt.Errorf("cloudinary: upload preset not configured")
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: read content: %w", err)
	}
	if err := w.WriteField("upload_preset", u.uploadPreset); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: write preset: %w", err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: close multipart: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[cloudinary] upload FAILED err=%v", err)
		return UploadResult{}, fmt.Errorf("cloudinary: upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[cloudinary] upload FAILED status=%d body=%s", resp.StatusCode, string(respBody))
		return UploadResult{}, fmt.Errorf("cloudinary: upload failed: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var res struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(respBody, &res); err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if res.SecureURL == "" {
		return UploadResult{}, fmt.Errorf("cloudinary: response has empty secure_url")
	}

	log.Printf("[cloudinary] upload OK publicId=%s", res.PublicID)
	return UploadResult{
		PublicID:     res.PublicID,
		URL:          res.SecureURL,
		ThumbnailURL: ThumbnailURL(res.SecureURL),
		CardURL:      CardURL(res.SecureURL),
	}, nil
}

// ThumbnailURL rewrites a Cloudinary delivery URL to the catalog-grid
// variant. Non-Cloudinary URLs pass through unchanged.
func ThumbnailURL(url string) string {
	return withTransform(url, thumbnailTransform)
}

// CardURL rewrites a Cloudinary delivery URL to the detail-card variant.
func CardURL(url string) string {
	return withTransform(url, cardTransform)
}

// withTransform inserts the transform chain after the /upload/ path segment.
func withTransform(url, transform string) string {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return url
	}
	rest := url[i+len(marker):]
	// already transformed
	if strings.HasPrefix(rest, transform+"/") {
		return url
	}
	return url[:i+len(marker)] + transform + "/" + rest
}
