package produtoservice

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
)

// Service implementa a interface domain.ProductService sobre o repositório
// do catálogo (vivo ou de demonstração, a escolha é feita na inicialização).
type Service struct {
	repo     domain.ProductRepository
	validate *validator.Validate
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo domain.ProductRepository, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   log,
	}
}

// ListProducts devolve o catálogo completo, do mais novo para o mais antigo.
// A ordenação é garantida pelo repositório.
func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductByID busca um único produto pelo identificador.
func (s *Service) GetProductByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreateProduct valida e persiste um produto novo do catálogo.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	// 1. Validação estrutural (tags `validate` da entidade).
	if err := s.validate.Struct(product); err != nil {
		return domain.Product{}, apperror.NewValidationError(validationMessage(err))
	}

	// 2. Preenchimento de identidade e carimbo de criação.
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = time.Now().UTC()

	// 3. Delegação para a persistência.
	created, err := s.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado no catálogo.", map[string]interface{}{
		"produto_id": created.ID,
		"nome":       created.Name,
	})
	return created, nil
}

// UpdateProduct aplica uma edição parcial: campos nulos mantêm o valor atual.
func (s *Service) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdate) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, apperror.NewValidationError("O ID do produto é obrigatório.")
	}
	if err := s.validate.Struct(update); err != nil {
		return domain.Product{}, apperror.NewValidationError(validationMessage(err))
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	merged := merge(current, update)
	if err := s.repo.Update(ctx, merged); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado.", map[string]interface{}{"produto_id": id})
	return merged, nil
}

// DeleteProduct remove o produto do catálogo. Compras já registradas
// continuam existindo, mas o acesso delas deixa de resolver o produto.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperror.NewValidationError("O ID do produto é obrigatório.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Produto removido do catálogo.", map[string]interface{}{"produto_id": id})
	return nil
}

// merge sobrepõe em `current` apenas os campos presentes na edição.
func merge(current domain.Product, update domain.ProductUpdate) domain.Product {
	if update.Name != nil {
		current.Name = *update.Name
	}
	if update.Price != nil {
		current.Price = *update.Price
	}
	if update.ImageURL != nil {
		current.ImageURL = *update.ImageURL
	}
	if update.PixCode != nil {
		current.PixCode = *update.PixCode
	}
	if update.PDFURL != nil {
		current.PDFURL = *update.PDFURL
	}
	if update.CanvaURL != nil {
		current.CanvaURL = *update.CanvaURL
	}
	if update.Description != nil {
		current.Description = *update.Description
	}
	if update.Category != nil {
		current.Category = *update.Category
	}
	if update.Featured != nil {
		current.Featured = *update.Featured
	}
	return current
}

// validationMessage traduz a primeira violação do validador para uma
// mensagem legível na resposta da API.
func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("O campo '%s' é obrigatório.", fe.Field())
		case "gte":
			return fmt.Sprintf("O campo '%s' deve ser maior ou igual a %s.", fe.Field(), fe.Param())
		case "url":
			return fmt.Sprintf("O campo '%s' deve ser uma URL válida.", fe.Field())
		default:
			return fmt.Sprintf("O campo '%s' é inválido.", fe.Field())
		}
	}
	return "Dados do produto inválidos."
}
