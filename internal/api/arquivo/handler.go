package arquivo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/storage"
)

// Limite de upload: os moldes em PDF e as imagens de capa são pequenos.
const maxUploadBytes = 25 << 20 // 25 MiB

// Handler agrupa os endpoints de arquivos do back-office: upload das imagens
// e PDFs dos produtos para o armazenamento de objetos, e remoção.
type Handler struct {
	Storage      storage.Client
	BucketAssets string
	BucketPDFs   string
	Logger       logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o cliente de
// storage e os nomes dos buckets permitidos.
func NewHandler(storageClient storage.Client, bucketAssets, bucketPDFs string, log logger.Logger) *Handler {
	return &Handler{
		Storage:      storageClient,
		BucketAssets: bucketAssets,
		BucketPDFs:   bucketPDFs,
		Logger:       log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		h.Logger.Info("Requisição concluída com sucesso", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// allowedBucket confere se o bucket pedido é um dos dois da loja.
func (h *Handler) allowedBucket(bucket string) bool {
	return bucket == h.BucketAssets || bucket == h.BucketPDFs
}

// UploadHandler lida com a requisição POST /v1/arquivos (back-office).
// Multipart: campo `arquivo` com o conteúdo e campo `bucket` com o destino.
// O nome do objeto recebe um prefixo aleatório para nunca colidir.
func (h *Handler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		h.handleServiceResponse(w, r, nil, apperror.NewUnavailableError("o armazenamento de objetos não está configurado."), http.StatusCreated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Upload inválido ou arquivo grande demais."), http.StatusCreated)
		return
	}

	bucket := r.FormValue("bucket")
	if !h.allowedBucket(bucket) {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError(fmt.Sprintf("Bucket '%s' não é permitido.", bucket)), http.StatusCreated)
		return
	}

	file, header, err := r.FormFile("arquivo")
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("O campo 'arquivo' é obrigatório."), http.StatusCreated)
		return
	}
	defer file.Close()

	objectPath := fmt.Sprintf("%s-%s", uuid.NewString(), sanitizeFileName(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	publicURL, err := h.Storage.Upload(r.Context(), bucket, objectPath, contentType, file)
	if err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewInternalError("Falha ao enviar o arquivo ao storage.", err), http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, map[string]string{
		"bucket": bucket,
		"path":   objectPath,
		"url":    publicURL,
	}, nil, http.StatusCreated)
}

// DeleteHandler lida com a requisição DELETE /v1/arquivos?bucket=&path= (back-office).
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if h.Storage == nil {
		h.handleServiceResponse(w, r, nil, apperror.NewUnavailableError("o armazenamento de objetos não está configurado."), http.StatusNoContent)
		return
	}

	bucket := r.URL.Query().Get("bucket")
	objectPath := r.URL.Query().Get("path")
	if !h.allowedBucket(bucket) || objectPath == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Informe um bucket permitido e o caminho do objeto."), http.StatusNoContent)
		return
	}

	if err := h.Storage.Delete(r.Context(), bucket, objectPath); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewInternalError("Falha ao remover o arquivo do storage.", err), http.StatusNoContent)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}

// sanitizeFileName reduz o nome enviado ao último segmento, sem espaços.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ReplaceAll(name, " ", "-")
}
