package domain

import (
	"context"
	"time"
)

// Purchase representa uma tentativa de compra: o registro durável que vincula
// produto, email do comprador e o token de acesso com prazo de expiração.
// O registro é escrito uma única vez e nunca é alterado ou removido; a
// expiração é lógica, não física.
type Purchase struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"produto_id"`
	Email       string    `json:"email"`
	Token       string    `json:"token"`
	PurchasedAt time.Time `json:"data_compra"`
	ExpiresAt   time.Time `json:"expira_em"`
	DownloadURL string    `json:"url_download,omitempty"` // URL temporária assinada (pode ser vazia)
}

// IsValid informa se o registro concede acesso ao produto pedido no instante dado:
// o token só vale enquanto não expirou E para o produto ao qual foi vinculado.
func (c Purchase) IsValid(productID string, now time.Time) bool {
	return now.Before(c.ExpiresAt) && c.ProductID == productID
}

// CheckoutRequest é o payload de entrada do checkout.
type CheckoutRequest struct {
	ProductID string `json:"produto_id"`
	Email     string `json:"email"`
}

// CheckoutResult é devolvido ao comprador após o checkout bem-sucedido.
type CheckoutResult struct {
	Purchase  Purchase `json:"compra"`
	AccessURL string   `json:"url_acesso"`
	QRCodeURL string   `json:"qrcode_url"`
}

// AccessStatus são os estados terminais da validação de acesso.
type AccessStatus string

const (
	AccessValid   AccessStatus = "valido"
	AccessInvalid AccessStatus = "invalido"
)

// AccessView é o resultado da validação de um par (produto, token).
// Quando inválido, apenas a mensagem genérica é preenchida; o motivo exato
// (expirado, inexistente, produto errado) não é revelado ao cliente.
type AccessView struct {
	Status      AccessStatus  `json:"status"`
	Product     *Product      `json:"produto,omitempty"`
	Remaining   time.Duration `json:"-"`
	RemainingS  int64         `json:"segundos_restantes"`
	DownloadURL string        `json:"url_download,omitempty"`
	CanvaURL    string        `json:"canva_url,omitempty"`
	Message     string        `json:"mensagem,omitempty"`
}

// PurchaseService define o fluxo principal da loja: emissão e validação do
// token de acesso temporário.
type PurchaseService interface {
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
	ValidateAccess(ctx context.Context, productID string, token string) (AccessView, error)
	Resend(ctx context.Context, token string, email string) error
}

// PurchaseRepository define o contrato de persistência dos registros de compra.
// Implementações: PostgreSQL (loja viva) e Redis (modo demonstração).
type PurchaseRepository interface {
	Save(ctx context.Context, purchase Purchase) (Purchase, error)
	FindByToken(ctx context.Context, token string) (Purchase, error)
}
