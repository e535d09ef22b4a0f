package domain

import (
	"context"
	"net/url"
	"time"
)

// Product representa um produto digital do catálogo (molde em PDF + projeto Canva).
// Os nomes dos campos são canônicos em inglês; o mapeamento para as colunas em
// português da tabela `produtos` é responsabilidade exclusiva do repositório.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome" validate:"required"`
	Price       float64   `json:"preco" validate:"gte=0"`
	ImageURL    string    `json:"imagem_url"`
	PixCode     string    `json:"pix_code" validate:"required"` // código PIX copia-e-cola
	PDFURL      string    `json:"pdf_url"`
	CanvaURL    string    `json:"canva_url"`
	Description string    `json:"descricao"`
	Category    string    `json:"categoria"`
	Featured    bool      `json:"destaque"`
	CreatedAt   time.Time `json:"created_at"`
}

// QRCodeURL monta a URL de um QR Code para o código PIX do produto.
// A renderização fica a cargo de um serviço externo de gráficos.
func (p Product) QRCodeURL() string {
	return "https://chart.googleapis.com/chart?chs=300x300&cht=qr&choe=UTF-8&chl=" +
		url.QueryEscape(p.PixCode)
}

// ProductUpdate carrega os campos parciais aceitos pela edição de produto.
// Ponteiros nulos significam "manter o valor atual".
type ProductUpdate struct {
	Name        *string  `json:"nome"`
	Price       *float64 `json:"preco" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"imagem_url"`
	PixCode     *string  `json:"pix_code"`
	PDFURL      *string  `json:"pdf_url"`
	CanvaURL    *string  `json:"canva_url"`
	Description *string  `json:"descricao"`
	Category    *string  `json:"categoria"`
	Featured    *bool    `json:"destaque"`
}

// --- Interfaces de Contrato ---

// ProductService define o que a camada de API pode pedir à camada de negócio.
type ProductService interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductByID(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, product Product) (Product, error)
	UpdateProduct(ctx context.Context, id string, update ProductUpdate) (Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductRepository define o contrato de persistência do catálogo.
// Existem duas implementações: a loja viva (PostgreSQL + cache Redis) e a
// loja estática de demonstração, escolhidas uma única vez na inicialização.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (Product, error)
	Save(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id string) error
}
