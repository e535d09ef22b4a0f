package auth

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/adminmode"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/middleware"
)

// Handler agrupa os endpoints de autenticação do back-office: login, troca
// de senha e a sequência de cliques no logo que revela o botão de login.
type Handler struct {
	Service domain.AuthService
	Logger  logger.Logger

	// Uma sequência de cliques por IP; clientes diferentes não se misturam.
	mu       sync.Mutex
	trackers map[string]*adminmode.ClickTracker
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc domain.AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service:  svc,
		Logger:   log,
		trackers: make(map[string]*adminmode.ClickTracker),
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

// LoginHandler lida com a requisição POST /v1/auth/login.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	sessionToken, err := h.Service.Login(r.Context(), credentials)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, map[string]string{"token": sessionToken}, nil, http.StatusOK)
}

// ChangePasswordHandler lida com a requisição POST /v1/auth/senha (autenticada).
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente."), http.StatusOK)
		return
	}

	var change domain.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), claims.UserID, change); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, map[string]string{"status": "senha alterada"}, nil, http.StatusOK)
}

// LogoClickHandler lida com a requisição POST /v1/auth/logo.
// Cada chamada é um clique no logo da vitrine; cinco cliques em três segundos
// liberam o botão de login do back-office para aquele cliente.
func (h *Handler) LogoClickHandler(w http.ResponseWriter, r *http.Request) {
	activated := h.trackerFor(clientIP(r)).Click()
	h.handleServiceResponse(w, r, map[string]bool{"admin": activated}, nil, http.StatusOK)
}

// trackerFor devolve (criando sob demanda) o rastreador de cliques do IP.
func (h *Handler) trackerFor(ip string) *adminmode.ClickTracker {
	h.mu.Lock()
	defer h.mu.Unlock()

	tracker, ok := h.trackers[ip]
	if !ok {
		tracker = adminmode.NewClickTracker()
		h.trackers[ip] = tracker
	}
	return tracker
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
