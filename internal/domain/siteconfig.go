package domain

import "context"

// SiteConfig é o conteúdo configurável da vitrine: banner, seção "sobre" e
// redes sociais. Logicamente existe no máximo uma linha ativa: a primeira
// gravação insere, as seguintes atualizam pelo ID conhecido.
type SiteConfig struct {
	ID             string `json:"id"`
	BannerImageURL string `json:"banner_imagem"`
	BannerTitle    string `json:"banner_titulo"`
	BannerSubtitle string `json:"banner_subtitulo"`
	BannerButton   string `json:"banner_botao"`
	AboutTitle     string `json:"sobre_titulo"`
	AboutText      string `json:"sobre_texto"`
	AboutImageURL  string `json:"sobre_imagem"`

	// Redes sociais exibidas no cabeçalho e rodapé da loja.
	Instagram string `json:"instagram" validate:"omitempty,url"`
	TikTok    string `json:"tiktok" validate:"omitempty,url"`
	Shopee    string `json:"shopee" validate:"omitempty,url"`
	WhatsApp  string `json:"whatsapp" validate:"omitempty,url"`
}

// SiteConfigService define leitura e gravação (upsert) da configuração.
type SiteConfigService interface {
	GetConfig(ctx context.Context) (SiteConfig, error)
	SaveConfig(ctx context.Context, config SiteConfig) (SiteConfig, error)
}

// SiteConfigRepository define o contrato de persistência da configuração.
type SiteConfigRepository interface {
	Find(ctx context.Context) (SiteConfig, error)
	Insert(ctx context.Context, config SiteConfig) (SiteConfig, error)
	Update(ctx context.Context, config SiteConfig) error
}
