package configrepo

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

// SiteConfigRepository implementa domain.SiteConfigRepository sobre PostgreSQL.
// A tabela `site_config` tem semântica de linha única: o serviço decide entre
// Insert e Update conforme já exista um ID conhecido.
type SiteConfigRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewSiteConfigRepository cria o repositório de configuração da vitrine.
func NewSiteConfigRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *SiteConfigRepository {
	return &SiteConfigRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

const configColumns = `id, banner_imagem, banner_titulo, banner_subtitulo, banner_botao,
	sobre_titulo, sobre_texto, sobre_imagem, instagram, tiktok, shopee, whatsapp`

// Find retorna a linha de configuração ativa.
func (r *SiteConfigRepository) Find(ctx context.Context) (domain.SiteConfig, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM site_config LIMIT 1`, configColumns)
	row := r.DB.QueryRowContext(ctxTimeout, query)

	var c domain.SiteConfig
	err := row.Scan(
		&c.ID,
		&c.BannerImageURL,
		&c.BannerTitle,
		&c.BannerSubtitle,
		&c.BannerButton,
		&c.AboutTitle,
		&c.AboutText,
		&c.AboutImageURL,
		&c.Instagram,
		&c.TikTok,
		&c.Shopee,
		&c.WhatsApp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SiteConfig{}, apperror.NewNotFoundError("Nenhuma configuração de site cadastrada.")
		}
		return domain.SiteConfig{}, apperror.NewDBError("Falha ao buscar configuração do site", err)
	}
	return c, nil
}

// Insert grava a primeira linha de configuração.
func (r *SiteConfigRepository) Insert(ctx context.Context, config domain.SiteConfig) (domain.SiteConfig, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		INSERT INTO site_config (id, banner_imagem, banner_titulo, banner_subtitulo, banner_botao,
		                         sobre_titulo, sobre_texto, sobre_imagem, instagram, tiktok, shopee, whatsapp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		config.ID,
		config.BannerImageURL,
		config.BannerTitle,
		config.BannerSubtitle,
		config.BannerButton,
		config.AboutTitle,
		config.AboutText,
		config.AboutImageURL,
		config.Instagram,
		config.TikTok,
		config.Shopee,
		config.WhatsApp,
	)
	if err != nil {
		return domain.SiteConfig{}, apperror.NewDBError("Falha ao inserir configuração do site", err)
	}

	r.logger.Info("Configuração do site criada.", map[string]interface{}{"config_id": config.ID})
	return config, nil
}

// Update atualiza a linha de configuração existente pelo ID.
func (r *SiteConfigRepository) Update(ctx context.Context, config domain.SiteConfig) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `
		UPDATE site_config
		SET banner_imagem = $2, banner_titulo = $3, banner_subtitulo = $4, banner_botao = $5,
		    sobre_titulo = $6, sobre_texto = $7, sobre_imagem = $8,
		    instagram = $9, tiktok = $10, shopee = $11, whatsapp = $12
		WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query,
		config.ID,
		config.BannerImageURL,
		config.BannerTitle,
		config.BannerSubtitle,
		config.BannerButton,
		config.AboutTitle,
		config.AboutText,
		config.AboutImageURL,
		config.Instagram,
		config.TikTok,
		config.Shopee,
		config.WhatsApp,
	)
	if err != nil {
		return apperror.NewDBError("Falha ao atualizar configuração do site", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Configuração com ID %s não existe.", config.ID))
	}
	return nil
}
