package cattery

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lavandercats/cattery/images"
)

func multipartUpload(t *testing.T, field, filename string, content []byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photo", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func TestReadUploadRejectsOversizedBeforeBuffering(t *testing.T) {
	a := newTestApp(t)
	lim := images.DefaultLimits()
	lim.MaxUploadSize = 16
	a.Images = images.NewService(lim, nil, false, nil)

	// The declared part size exceeds the ceiling, so the gate must fire
	// on the multipart header without the payload ever being read.
	req, rec := multipartUpload(t, "file", "huge.jpg", bytes.Repeat([]byte("x"), 64))
	c := a.Echo.NewContext(req, rec)

	_, _, err := a.readUpload(c, "file")
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("got %v, want an HTTP error", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", he.Code, http.StatusBadRequest)
	}
	if msg, _ := he.Message.(string); !strings.Contains(msg, "maximum upload size") {
		t.Errorf("message = %q, want the size-limit rejection", he.Message)
	}
}

func TestReadUploadRejectsBadExtensionBeforeBuffering(t *testing.T) {
	a := newTestApp(t)

	req, rec := multipartUpload(t, "file", "cat.bmp", []byte("payload"))
	c := a.Echo.NewContext(req, rec)

	_, _, err := a.readUpload(c, "file")
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("got %v, want an HTTP error", err)
	}
	if he.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", he.Code, http.StatusBadRequest)
	}
}

func TestUploadMultipleGatesEachFileOnHeaderSize(t *testing.T) {
	a := newTestApp(t)
	lim := images.DefaultLimits()
	lim.MaxUploadSize = 16
	a.Images = images.NewService(lim, nil, false, nil)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("files", "big.jpg")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("x"), 64)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload/multiple", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)

	if err := asAdmin(a, a.handleUploadMultiple)(c); err != nil {
		t.Fatalf("handleUploadMultiple: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp multiUploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success {
		t.Error("batch with an oversized file should not report success")
	}
	if len(resp.Results) != 0 {
		t.Errorf("oversized file should produce no results, got %d", len(resp.Results))
	}
	if msg := resp.Errors["big.jpg"]; !strings.Contains(msg, "maximum upload size") {
		t.Errorf("Errors[big.jpg] = %q, want the size-limit rejection", msg)
	}
}
