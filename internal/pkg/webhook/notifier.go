// Package webhook notifica um colaborador externo (n8n ou similar) sobre
// eventos de compra. O envio é fire-and-forget: no máximo uma tentativa,
// falhas são apenas registradas em log e nunca bloqueiam o fluxo principal.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"lojapix/internal/domain"
)

// PurchaseEvent é o payload enviado ao webhook após um checkout ou reenvio.
type PurchaseEvent struct {
	Product  domain.Product `json:"product"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	Purchase struct {
		ID          string `json:"id"`
		Date        string `json:"date"`
		Expiry      string `json:"expiry"`
		DownloadURL string `json:"downloadUrl,omitempty"`
		AccessURL   string `json:"accessUrl"`
	} `json:"purchase"`
}

// NewPurchaseEvent monta o evento a partir do registro de compra persistido.
func NewPurchaseEvent(product domain.Product, purchase domain.Purchase, accessURL string) PurchaseEvent {
	event := PurchaseEvent{Product: product}
	event.Customer.Email = purchase.Email
	event.Purchase.ID = purchase.ID
	event.Purchase.Date = purchase.PurchasedAt.Format(time.RFC3339)
	event.Purchase.Expiry = purchase.ExpiresAt.Format(time.RFC3339)
	event.Purchase.DownloadURL = purchase.DownloadURL
	event.Purchase.AccessURL = accessURL
	return event
}

// Notifier define o contrato de notificação consumido pelo serviço de compra.
type Notifier interface {
	Notify(ctx context.Context, event PurchaseEvent) error
}

// HTTPNotifier envia o evento como POST JSON para a URL configurada.
type HTTPNotifier struct {
	url  string
	http *http.Client
}

// NewHTTPNotifier cria o notificador com timeout explícito. URL vazia
// desativa o envio (útil em desenvolvimento).
func NewHTTPNotifier(url string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Notify envia o evento. Nenhum contrato de resposta é esperado além do
// status HTTP de sucesso.
func (n *HTTPNotifier) Notify(ctx context.Context, event PurchaseEvent) error {
	if n.url == "" {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("falha ao serializar evento de compra: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("falha ao montar requisição do webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("falha ao chamar webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook respondeu com status %d", resp.StatusCode)
	}
	return nil
}
