package staticrepo

import (
	"context"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
)

// SiteConfigRepository implementa domain.SiteConfigRepository com a
// configuração embutida da demonstração. Somente leitura.
type SiteConfigRepository struct {
	config domain.SiteConfig
}

// NewSiteConfigRepository cria o repositório com a configuração de exemplo.
func NewSiteConfigRepository() *SiteConfigRepository {
	return &SiteConfigRepository{
		config: domain.SiteConfig{
			ID:             "config-demo",
			BannerTitle:    "Moldes digitais para a sua festa",
			BannerSubtitle: "Baixe, personalize no Canva e imprima em casa",
			BannerButton:   "Ver produtos",
			AboutTitle:     "Sobre a loja",
			AboutText:      "Moldes e artes digitais prontos para personalizar.",
		},
	}
}

// Find devolve a configuração embutida.
func (r *SiteConfigRepository) Find(ctx context.Context) (domain.SiteConfig, error) {
	return r.config, nil
}

// Insert é recusado em modo demonstração.
func (r *SiteConfigRepository) Insert(ctx context.Context, config domain.SiteConfig) (domain.SiteConfig, error) {
	return domain.SiteConfig{}, apperror.NewUnavailableError("não é possível gravar a configuração sem o banco de dados.")
}

// Update é recusado em modo demonstração.
func (r *SiteConfigRepository) Update(ctx context.Context, config domain.SiteConfig) error {
	return apperror.NewUnavailableError("não é possível gravar a configuração sem o banco de dados.")
}
