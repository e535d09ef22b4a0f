// Package compraredisrepo guarda registros de compra no Redis quando a loja
// opera em modo demonstração (sem a tabela `compras`). O fluxo de checkout e
// validação continua funcionando de ponta a ponta; os registros apenas não
// sobrevivem além da retenção configurada.
package compraredisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/cache"
	"lojapix/internal/pkg/logger"
)

const purchaseKey = "compra:%s"

// Retenção física dos registros. Bem maior que a janela de validade do token:
// um registro expirado precisa continuar consultável (a expiração do acesso é
// lógica, decidida pelo serviço).
const retention = 24 * time.Hour

// PurchaseRepository implementa domain.PurchaseRepository sobre o Redis.
type PurchaseRepository struct {
	Cache  cache.Client
	logger logger.Logger
}

// NewPurchaseRepository cria o repositório de compras do modo demonstração.
func NewPurchaseRepository(cacheClient cache.Client, log logger.Logger) *PurchaseRepository {
	return &PurchaseRepository{
		Cache:  cacheClient,
		logger: log,
	}
}

// Save serializa o registro e o grava sob a chave do token.
func (r *PurchaseRepository) Save(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	payload, err := json.Marshal(purchase)
	if err != nil {
		return domain.Purchase{}, apperror.NewInternalError("Falha ao serializar compra.", err)
	}

	key := fmt.Sprintf(purchaseKey, purchase.Token)
	if err := r.Cache.Set(ctx, key, payload, retention); err != nil {
		r.logger.Error("Falha ao gravar compra no Redis.", err)
		return domain.Purchase{}, apperror.NewInternalError("Falha ao gravar compra no armazenamento de demonstração.", err)
	}

	r.logger.Info("Compra registrada em modo demonstração.", map[string]interface{}{
		"compra_id":  purchase.ID,
		"produto_id": purchase.ProductID,
	})
	return purchase, nil
}

// FindByToken recupera o registro pelo token.
func (r *PurchaseRepository) FindByToken(ctx context.Context, token string) (domain.Purchase, error) {
	key := fmt.Sprintf(purchaseKey, token)

	payload, err := r.Cache.Get(ctx, key)
	if err == cache.ErrCacheMiss {
		return domain.Purchase{}, apperror.NewNotFoundError(fmt.Sprintf("Compra com token %s não encontrada.", token))
	}
	if err != nil {
		return domain.Purchase{}, apperror.NewInternalError("Falha ao ler compra do armazenamento de demonstração.", err)
	}

	var purchase domain.Purchase
	if err := json.Unmarshal([]byte(payload), &purchase); err != nil {
		return domain.Purchase{}, apperror.NewInternalError("Registro de compra corrompido.", err)
	}
	return purchase, nil
}
