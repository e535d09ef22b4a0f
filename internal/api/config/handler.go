package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
)

// Handler agrupa os endpoints da configuração da vitrine: leitura pública e
// gravação restrita ao back-office.
type Handler struct {
	Service domain.SiteConfigService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.SiteConfigService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
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

// GetConfigHandler lida com a requisição GET /v1/config.
// Sem configuração gravada, devolve os campos vazios (nunca 404).
func (h *Handler) GetConfigHandler(w http.ResponseWriter, r *http.Request) {
	config, err := h.Service.GetConfig(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, config, nil, http.StatusOK)
}

// SaveConfigHandler lida com a requisição PUT /v1/config (back-office).
// Upsert: a primeira gravação insere, as seguintes atualizam pelo ID.
func (h *Handler) SaveConfigHandler(w http.ResponseWriter, r *http.Request) {
	var config domain.SiteConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	saved, err := h.Service.SaveConfig(r.Context(), config)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, saved, nil, http.StatusOK)
}
