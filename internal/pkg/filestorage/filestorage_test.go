package filestorage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="receipt"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["receipt"][0]
}

func TestUploadRules_Check(t *testing.T) {
	assert.NoError(t, ReceiptRules.Check(newFileHeader(t, "receipt.PNG", "image/png", []byte("png"))))
	assert.ErrorIs(t, ReceiptRules.Check(newFileHeader(t, "receipt.exe", "application/octet-stream", []byte("x"))), ErrInvalidUpload)
	assert.ErrorIs(t, ReceiptRules.Check(nil), ErrInvalidUpload)

	small := UploadRules{AllowedExtensions: []string{".png"}, MaxBytes: 2}
	assert.ErrorIs(t, small.Check(newFileHeader(t, "r.png", "image/png", []byte("too big"))), ErrInvalidUpload)
}

func TestLocalStorage_SaveURLDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/", zerolog.Nop())
	require.NoError(t, err)

	key, err := store.SaveFileWithPath(newFileHeader(t, "receipt.png", "image/png", []byte("receipt-bytes")), "receipts/comp-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "receipts/comp-1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	saved, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "receipt-bytes", string(saved))
	assert.Equal(t, "http://localhost:8080/uploads/"+key, store.URL(key))

	require.NoError(t, store.DeleteFile(key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// deleting again is idempotent
	assert.NoError(t, store.DeleteFile(key))
	assert.NoError(t, store.DeleteFile(""))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "", zerolog.Nop())
	require.NoError(t, err)

	assert.Error(t, store.DeleteFile("../../etc/passwd"))
	_, err = store.SaveFileWithPath(newFileHeader(t, "r.png", "image/png", []byte("x")), "../outside")
	assert.Error(t, err)
}

func TestS3Storage_UploadAndDelete(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	var uploaded []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPut {
			uploaded, _ = io.ReadAll(r.Body)
			w.Header().Set("ETag", `"etag"`)
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store, err := NewS3Storage(S3Config{
		Bucket:          "receipts-bucket",
		Region:          "us-east-1",
		Prefix:          "formco",
		Endpoint:        server.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	}, zerolog.Nop())
	require.NoError(t, err)

	key, err := store.SaveFileWithPath(newFileHeader(t, "receipt.jpg", "image/jpeg", []byte("jpeg-bytes")), "receipts/comp-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "formco/receipts/comp-1/"))
	assert.Equal(t, server.URL+"/receipts-bucket/"+key, store.URL(key))

	require.NoError(t, store.DeleteFile(key))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"PUT /receipts-bucket/" + key,
		"DELETE /receipts-bucket/" + key,
	}, requests)
	assert.Equal(t, "jpeg-bytes", string(uploaded))
}

func TestS3Storage_URL(t *testing.T) {
	store := &S3Storage{config: S3Config{Bucket: "b", Region: "eu-west-1"}}
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/k.png", store.URL("k.png"))

	store.config.PublicURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com/k.png", store.URL("k.png"))
	assert.Empty(t, store.URL(""))
}
