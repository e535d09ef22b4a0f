package produtorepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/cache"
	"lojapix/internal/pkg/logger"
)

// Chaves de cache para o catálogo.
const (
	productCacheKey = "produto:%s"
	listCacheKey    = "produtos:todos"
	cacheTTL        = 5 * time.Minute
)

// Código do PostgreSQL para "relation does not exist", usado pelo probe de
// inicialização para decidir entre a loja viva e o modo demonstração.
const pgUndefinedTable = "42P01"

// ProductRepository implementa domain.ProductRepository sobre PostgreSQL,
// com estratégia cache-aside no Redis. O mapeamento entre os campos canônicos
// da struct (inglês) e as colunas da tabela `produtos` (português) vive
// exclusivamente aqui.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Probe verifica se a tabela `produtos` existe e está acessível.
// Retorna ErrTableMissing quando o backend está presente mas sem schema.
var ErrTableMissing = errors.New("tabela produtos não existe")

func (r *ProductRepository) Probe(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var id string
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT id FROM produtos LIMIT 1`).Scan(&id)
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUndefinedTable {
		return ErrTableMissing
	}
	return err
}

// FindAll lista o catálogo completo, mais recentes primeiro.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// Cache-aside (READ): tenta a lista inteira no Redis primeiro.
	if cached, err := r.Cache.Get(ctxTimeout, listCacheKey); err == nil {
		var products []domain.Product
		if json.Unmarshal([]byte(cached), &products) == nil {
			return products, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler catálogo do cache, seguindo para o DB.", map[string]interface{}{"err": err.Error()})
	}

	const query = `
		SELECT id, nome, preco, imagem_url, pix_code, pdf_url, canva_url, descricao, categoria, destaque, created_at
		FROM produtos
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		return nil, apperror.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, apperror.NewDBError("Falha ao mapear produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao percorrer produtos", err)
	}

	// Cache-aside (WRITE): popula o cache para as próximas leituras.
	if payload, err := json.Marshal(products); err == nil {
		r.Cache.Set(ctxTimeout, listCacheKey, payload, cacheTTL)
	}

	return products, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	if cached, err := r.Cache.Get(ctxTimeout, key); err == nil {
		if json.Unmarshal([]byte(cached), &product) == nil {
			return product, nil
		}
	} else if err != cache.ErrCacheMiss {
		r.logger.Warn("Falha ao ler produto do cache, seguindo para o DB.", map[string]interface{}{"produto_id": id})
	}

	const query = `
		SELECT id, nome, preco, imagem_url, pix_code, pdf_url, canva_url, descricao, categoria, destaque, created_at
		FROM produtos
		WHERE id = $1`

	row := r.DB.QueryRowContext(ctxTimeout, query, id)
	if err := scanProduct(row, &product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
		}
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto no DB", err)
	}

	if payload, err := json.Marshal(product); err == nil {
		r.Cache.Set(ctxTimeout, key, payload, cacheTTL)
	}

	return product, nil
}

// Save persiste um novo produto. O created_at é atribuído pelo banco.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		INSERT INTO produtos (id, nome, preco, imagem_url, pix_code, pdf_url, canva_url, descricao, categoria, destaque)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		product.ID,
		product.Name,
		product.Price,
		product.ImageURL,
		product.PixCode,
		product.PDFURL,
		product.CanvaURL,
		product.Description,
		product.Category,
		product.Featured,
	).Scan(&product.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.Product{}, apperror.NewConflictError(fmt.Sprintf("Já existe um produto com o ID %s.", product.ID))
		}
		return domain.Product{}, apperror.NewDBError("Falha ao inserir produto", err)
	}

	r.invalidate(ctxTimeout, product.ID)
	return product, nil
}

// Update grava o produto completo (o serviço já aplicou os campos parciais).
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		UPDATE produtos
		SET nome = $2, preco = $3, imagem_url = $4, pix_code = $5, pdf_url = $6,
		    canva_url = $7, descricao = $8, categoria = $9, destaque = $10
		WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		product.ID,
		product.Name,
		product.Price,
		product.ImageURL,
		product.PixCode,
		product.PDFURL,
		product.CanvaURL,
		product.Description,
		product.Category,
		product.Featured,
	)
	if err != nil {
		return apperror.NewDBError("Falha ao atualizar produto", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", product.ID))
	}

	r.invalidate(ctxTimeout, product.ID)
	return nil
}

// Delete remove o produto definitivamente (não há soft-delete).
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM produtos WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("Falha ao excluir produto", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe na base de dados.", id))
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

// invalidate descarta as entradas de cache afetadas por uma escrita.
func (r *ProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"produto_id": id})
	}
	if err := r.Cache.Delete(ctx, listCacheKey); err != nil {
		r.logger.Warn("Falha ao invalidar cache do catálogo.", nil)
	}
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct mapeia as colunas em português para a struct canônica.
func scanProduct(row rowScanner, p *domain.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.ImageURL,
		&p.PixCode,
		&p.PDFURL,
		&p.CanvaURL,
		&p.Description,
		&p.Category,
		&p.Featured,
		&p.CreatedAt,
	)
}
