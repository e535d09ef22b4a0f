package comprarepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
)

// PurchaseRepository implementa domain.PurchaseRepository sobre PostgreSQL.
// O registro de compra é escrito uma única vez e nunca alterado; o token é a
// chave prática de busca (único com probabilidade esmagadora).
type PurchaseRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPurchaseRepository cria uma nova instância do repositório de compras.
func NewPurchaseRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *PurchaseRepository {
	return &PurchaseRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Save insere o registro de compra.
func (r *PurchaseRepository) Save(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		INSERT INTO compras (id, produto_id, email, token, data_compra, expira_em, url_download)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		purchase.ID,
		purchase.ProductID,
		purchase.Email,
		purchase.Token,
		purchase.PurchasedAt,
		purchase.ExpiresAt,
		purchase.DownloadURL,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir compra no DB.", err)
		return domain.Purchase{}, apperror.NewDBError("failed to insert purchase", err)
	}

	r.logger.Info("Compra registrada.", map[string]interface{}{
		"compra_id":  purchase.ID,
		"produto_id": purchase.ProductID,
		"expira_em":  purchase.ExpiresAt.Format(time.RFC3339),
	})
	return purchase, nil
}

// FindByToken busca o registro de compra pelo token de acesso.
// Registros expirados continuam sendo retornados: a expiração é lógica e
// quem decide a validade é o serviço.
func (r *PurchaseRepository) FindByToken(ctx context.Context, token string) (domain.Purchase, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		SELECT id, produto_id, email, token, data_compra, expira_em, url_download
		FROM compras
		WHERE token = $1`

	row := r.DB.QueryRowContext(ctxTimeout, query, token)

	var purchase domain.Purchase
	err := row.Scan(
		&purchase.ID,
		&purchase.ProductID,
		&purchase.Email,
		&purchase.Token,
		&purchase.PurchasedAt,
		&purchase.ExpiresAt,
		&purchase.DownloadURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Purchase{}, apperror.NewNotFoundError(fmt.Sprintf("Compra com token %s não encontrada.", token))
		}
		r.logger.Error("Falha ao buscar compra por token no DB.", err)
		return domain.Purchase{}, apperror.NewDBError("failed to find purchase by token (DB)", err)
	}

	return purchase, nil
}
