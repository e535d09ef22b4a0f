package configservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
)

// Service implementa domain.SiteConfigService. A vitrine tem no máximo uma
// configuração ativa: a primeira gravação insere a linha, as seguintes
// atualizam pelo ID já conhecido.
type Service struct {
	repo     domain.SiteConfigRepository
	validate *validator.Validate
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Configuração.
func NewService(repo domain.SiteConfigRepository, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		logger:   log,
	}
}

// GetConfig devolve a configuração ativa. Quando nada foi gravado ainda, a
// vitrine recebe uma configuração vazia em vez de um erro 404.
func (s *Service) GetConfig(ctx context.Context) (domain.SiteConfig, error) {
	config, err := s.repo.Find(ctx)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return domain.SiteConfig{}, nil
		}
		return domain.SiteConfig{}, err
	}
	return config, nil
}

// SaveConfig faz o upsert da configuração: com ID conhecido atualiza, sem ID
// insere uma linha nova com identidade gerada.
func (s *Service) SaveConfig(ctx context.Context, config domain.SiteConfig) (domain.SiteConfig, error) {
	if err := s.validate.Struct(config); err != nil {
		return domain.SiteConfig{}, apperror.NewValidationError(validationMessage(err))
	}

	if config.ID != "" {
		if err := s.repo.Update(ctx, config); err != nil {
			return domain.SiteConfig{}, err
		}
		s.logger.Info("Configuração da loja atualizada.", map[string]interface{}{"config_id": config.ID})
		return config, nil
	}

	config.ID = uuid.NewString()
	created, err := s.repo.Insert(ctx, config)
	if err != nil {
		return domain.SiteConfig{}, err
	}

	s.logger.Info("Configuração da loja criada.", map[string]interface{}{"config_id": created.ID})
	return created, nil
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("O campo '%s' deve ser uma URL válida.", errs[0].Field())
	}
	return "Configuração inválida."
}
