// Package staticrepo é a loja estática do modo demonstração: quando a tabela
// remota de produtos não existe (ou o banco está inacessível no startup), a
// vitrine continua navegável com o catálogo embutido. Escritas falham rápido
// com um erro explícito em vez de descartar dados silenciosamente.
package staticrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
)

// ProductRepository implementa domain.ProductRepository sobre o catálogo
// embutido. Somente leitura; o RWMutex existe porque FindAll ordena uma cópia.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository cria a loja de demonstração com os produtos de exemplo.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: seedProducts()}
}

// FindAll lista o catálogo embutido, mais recentes primeiro.
func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// FindByID busca um produto no catálogo embutido.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperror.NewNotFoundError(fmt.Sprintf("Produto com ID %s não existe no catálogo de demonstração.", id))
}

// Save é recusado em modo demonstração.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	return domain.Product{}, apperror.NewUnavailableError("não é possível adicionar produtos sem o banco de dados.")
}

// Update é recusado em modo demonstração.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
	return apperror.NewUnavailableError("não é possível editar produtos sem o banco de dados.")
}

// Delete é recusado em modo demonstração.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	return apperror.NewUnavailableError("não é possível excluir produtos sem o banco de dados.")
}
