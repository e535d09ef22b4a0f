package compra_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lojapix/internal/api/compra"
	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/service/compraservice"
)

// stubPurchaseService devolve respostas pré-programadas para o handler.
type stubPurchaseService struct {
	checkoutResult domain.CheckoutResult
	checkoutErr    error
	accessView     domain.AccessView
	accessErr      error
	resendErr      error
}

func (s *stubPurchaseService) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	return s.checkoutResult, s.checkoutErr
}

func (s *stubPurchaseService) ValidateAccess(ctx context.Context, productID, token string) (domain.AccessView, error) {
	return s.accessView, s.accessErr
}

func (s *stubPurchaseService) Resend(ctx context.Context, token, email string) error {
	return s.resendErr
}

func newHandler(svc domain.PurchaseService) *compra.Handler {
	countdown := compraservice.NewCountdownWithClock(time.Millisecond, time.Now)
	return compra.NewHandler(svc, countdown, logger.NewLogger("error"))
}

func TestCheckoutHandler_Sucesso(t *testing.T) {
	svc := &stubPurchaseService{
		checkoutResult: domain.CheckoutResult{
			Purchase:  domain.Purchase{ID: "c1", ProductID: "p1", Token: "tok123"},
			AccessURL: "https://loja.local/produto/p1?token=tok123",
			QRCodeURL: "https://chart.googleapis.com/chart?cht=qr",
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/checkout",
		strings.NewReader(`{"produto_id":"p1","email":"buyer@example.com"}`))
	rec := httptest.NewRecorder()

	newHandler(svc).CheckoutHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://loja.local/produto/p1?token=tok123", body["url_acesso"])
	assert.NotEmpty(t, body["qrcode_url"])
}

func TestCheckoutHandler_PayloadInvalido(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(`{nope`))
	rec := httptest.NewRecorder()

	newHandler(&stubPurchaseService{}).CheckoutHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandler_EmailInvalido(t *testing.T) {
	svc := &stubPurchaseService{
		checkoutErr: apperror.NewValidationError("Por favor, insira um email válido para receber o acesso."),
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout",
		strings.NewReader(`{"produto_id":"p1","email":"ruim"}`))
	rec := httptest.NewRecorder()

	newHandler(svc).CheckoutHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body["category"])
}

// TestAccessHandler_TokenRuim: o estado inválido é resposta 200, não erro HTTP.
func TestAccessHandler_TokenRuim(t *testing.T) {
	svc := &stubPurchaseService{
		accessView: domain.AccessView{
			Status:  domain.AccessInvalid,
			Message: "Este link de acesso ao produto é inválido ou expirou.",
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/produtos/p1/acesso?token=bogus", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	newHandler(svc).AccessHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var view domain.AccessView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.AccessInvalid, view.Status)
	assert.NotEmpty(t, view.Message)
}

func TestAccessHandler_Valido(t *testing.T) {
	svc := &stubPurchaseService{
		accessView: domain.AccessView{
			Status:      domain.AccessValid,
			Product:     &domain.Product{ID: "p1", Name: "Kit Planner Floral"},
			RemainingS:  1500,
			DownloadURL: "https://storage.local/object/sign/pdfs/p1.pdf",
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/produtos/p1/acesso?token=tok123", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	newHandler(svc).AccessHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "valido", body["status"])
	assert.Equal(t, float64(1500), body["segundos_restantes"])
}

// TestCountdownHandler_AcessoQuaseExpirado: o stream emite a contagem e fecha
// com o evento "expirado".
func TestCountdownHandler_AcessoQuaseExpirado(t *testing.T) {
	svc := &stubPurchaseService{
		accessView: domain.AccessView{
			Status:    domain.AccessValid,
			Product:   &domain.Product{ID: "p1"},
			Remaining: 3 * time.Millisecond,
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/produtos/p1/acesso/contagem?token=tok123", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	newHandler(svc).CountdownHandler(rec, req)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "data: 0")
	assert.Contains(t, rec.Body.String(), "event: expirado")
}

func TestCountdownHandler_TokenRuim(t *testing.T) {
	svc := &stubPurchaseService{
		accessView: domain.AccessView{Status: domain.AccessInvalid, Message: "inválido"},
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/produtos/p1/acesso/contagem?token=bogus", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	newHandler(svc).CountdownHandler(rec, req)

	assert.Contains(t, rec.Body.String(), "event: invalido")
}

func TestResendHandler_Sucesso(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/acesso/reenviar",
		strings.NewReader(`{"token":"tok123","email":"corrigido@example.com"}`))
	rec := httptest.NewRecorder()

	newHandler(&stubPurchaseService{}).ResendHandler(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResendHandler_AcessoExpirado(t *testing.T) {
	svc := &stubPurchaseService{
		resendErr: apperror.NewNotFoundError("Este acesso não está mais disponível."),
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/acesso/reenviar",
		strings.NewReader(`{"token":"tok123","email":"buyer@example.com"}`))
	rec := httptest.NewRecorder()

	newHandler(svc).ResendHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
