package arquivo_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lojapix/internal/api/arquivo"
	"lojapix/internal/pkg/logger"
)

// MockStorage simula o cliente de armazenamento de objetos.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, bucket, path, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, path, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, bucket, path string) error {
	args := m.Called(ctx, bucket, path)
	return args.Error(0)
}

func newHandler(storage *MockStorage) *arquivo.Handler {
	return arquivo.NewHandler(storage, "produtos", "pdfs", logger.NewLogger("error"))
}

func multipartUpload(t *testing.T, bucket, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(t, writer.WriteField("bucket", bucket))
	part, err := writer.CreateFormFile("arquivo", filename)
	assert.NoError(t, err)
	part.Write([]byte("conteudo"))
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/arquivos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandler_Sucesso(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Upload", mock.Anything, "produtos", mock.AnythingOfType("string"), mock.AnythingOfType("string")).
		Return("https://storage.local/object/public/produtos/obj", nil)

	rec := httptest.NewRecorder()
	newHandler(storage).UploadHandler(rec, multipartUpload(t, "produtos", "capa do kit.png"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "produtos", body["bucket"])
	// Prefixo aleatório + nome saneado, sem espaços.
	assert.Contains(t, body["path"], "capa-do-kit.png")
	assert.NotEqual(t, "capa-do-kit.png", body["path"])
	assert.NotEmpty(t, body["url"])
}

func TestUploadHandler_BucketDesconhecido(t *testing.T) {
	storage := new(MockStorage)

	rec := httptest.NewRecorder()
	newHandler(storage).UploadHandler(rec, multipartUpload(t, "outro", "molde.pdf"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadHandler_SemStorageConfigurado(t *testing.T) {
	h := arquivo.NewHandler(nil, "produtos", "pdfs", logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.UploadHandler(rec, multipartUpload(t, "produtos", "molde.pdf"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDeleteHandler_Sucesso(t *testing.T) {
	storage := new(MockStorage)
	storage.On("Delete", mock.Anything, "pdfs", "p1/molde.pdf").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/arquivos?bucket=pdfs&path=p1/molde.pdf", nil)
	rec := httptest.NewRecorder()
	newHandler(storage).DeleteHandler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	storage.AssertExpectations(t)
}

func TestDeleteHandler_ParametrosAusentes(t *testing.T) {
	storage := new(MockStorage)

	req := httptest.NewRequest(http.MethodDelete, "/v1/arquivos?bucket=pdfs", nil)
	rec := httptest.NewRecorder()
	newHandler(storage).DeleteHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
