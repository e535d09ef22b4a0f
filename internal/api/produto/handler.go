package produto

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/brl"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/middleware"
)

// Handler agrupa os endpoints do catálogo: leitura pública da vitrine e
// escrita restrita ao back-office.
type Handler struct {
	Service domain.ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// productView é a representação de resposta de um produto: os campos da
// entidade mais o preço já formatado em reais e a URL do QR Code PIX.
type productView struct {
	domain.Product
	PriceFormatted string `json:"preco_formatado"`
	QRCodeURL      string `json:"qrcode_url"`
}

func newProductView(p domain.Product) productView {
	return productView{
		Product:        p,
		PriceFormatted: brl.Format(p.Price),
		QRCodeURL:      p.QRCodeURL(),
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

// ListProductsHandler lida com a requisição GET /v1/produtos.
// Resposta pública, ordenada do produto mais novo para o mais antigo.
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := h.Service.ListProducts(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}
	h.handleServiceResponse(w, r, views, nil, http.StatusOK)
}

// GetProductHandler lida com a requisição GET /v1/produtos/{id}.
func (h *Handler) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetProductByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, newProductView(product), nil, http.StatusOK)
}

// CreateProductHandler lida com a requisição POST /v1/produtos (back-office).
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if claims, ok := middleware.GetUserClaimsFromContext(ctx); ok {
		h.Logger.Info("Criação de produto pelo back-office", map[string]interface{}{
			"admin": claims.UserID,
		})
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusCreated)
		return
	}

	created, err := h.Service.CreateProduct(ctx, product)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}
	h.handleServiceResponse(w, r, newProductView(created), nil, http.StatusCreated)
}

// UpdateProductHandler lida com a requisição PUT /v1/produtos/{id} (back-office).
// Aceita edição parcial: campos ausentes mantêm o valor atual.
func (h *Handler) UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	var update domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateProduct(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, newProductView(updated), nil, http.StatusOK)
}

// DeleteProductHandler lida com a requisição DELETE /v1/produtos/{id} (back-office).
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
		return
	}
	h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)
}
