package compra

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/service/compraservice"
)

// Handler agrupa os endpoints do fluxo de compra: checkout, validação da
// página de acesso, contagem regressiva e reenvio dos links.
type Handler struct {
	Service   domain.PurchaseService
	Countdown *compraservice.Countdown
	Logger    logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.PurchaseService, countdown *compraservice.Countdown, log logger.Logger) *Handler {
	return &Handler{
		Service:   svc,
		Countdown: countdown,
		Logger:    log,
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

// CheckoutHandler lida com a requisição POST /v1/checkout.
// Recebe o produto e o email do comprador, registra a compra e devolve o
// token de acesso com a URL da página do comprador.
func (h *Handler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusCreated)
		return
	}

	result, err := h.Service.Checkout(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}
	h.handleServiceResponse(w, r, result, nil, http.StatusCreated)
}

// AccessHandler lida com a requisição GET /v1/produtos/{id}/acesso?token=...
// Sempre responde 200 com o estado calculado; token ruim não é erro HTTP,
// é o estado "invalido" da página.
func (h *Handler) AccessHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.ValidateAccess(r.Context(), r.PathValue("id"), r.URL.Query().Get("token"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, view, nil, http.StatusOK)
}

// CountdownHandler lida com GET /v1/produtos/{id}/acesso/contagem?token=...
// Transmite o tempo restante via Server-Sent Events, um evento por segundo,
// terminando com o evento "expirado" quando o prazo zera.
func (h *Handler) CountdownHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming não suportado", http.StatusInternalServerError)
		return
	}

	view, err := h.Service.ValidateAccess(r.Context(), r.PathValue("id"), r.URL.Query().Get("token"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// O stream vive além do WriteTimeout global do servidor; o prazo de
	// escrita desta rota é removido explicitamente.
	rc := http.NewResponseController(w)
	rc.SetWriteDeadline(time.Time{})

	if view.Status != domain.AccessValid {
		fmt.Fprintf(w, "event: invalido\ndata: %s\n\n", view.Message)
		flusher.Flush()
		return
	}

	// O prazo absoluto é reconstruído a partir do tempo restante; cada tick
	// recalcula contra o relógio, então desvios de rede não acumulam.
	expiresAt := time.Now().Add(view.Remaining)
	for remaining := range h.Countdown.Watch(r.Context(), expiresAt) {
		fmt.Fprintf(w, "data: %d\n\n", int64(remaining.Seconds()))
		flusher.Flush()
	}

	fmt.Fprint(w, "event: expirado\ndata: 0\n\n")
	flusher.Flush()
}

// resendRequest é o payload do reenvio dos links de acesso.
type resendRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ResendHandler lida com a requisição POST /v1/acesso/reenviar.
// Reenvia os links para um email possivelmente corrigido, sem emitir token novo.
func (h *Handler) ResendHandler(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusAccepted)
		return
	}

	if err := h.Service.Resend(r.Context(), req.Token, req.Email); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusAccepted)
		return
	}
	h.handleServiceResponse(w, r, map[string]string{"status": "reenviado"}, nil, http.StatusAccepted)
}
