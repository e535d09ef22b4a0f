package staticrepo

import (
	"time"

	"lojapix/internal/domain"
)

// seedProducts devolve o catálogo de exemplo exibido em modo demonstração.
func seedProducts() []domain.Product {
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	return []domain.Product{
		{
			ID:          "produto1",
			Name:        "Kit Planner Floral",
			Price:       27.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630412A4",
			PDFURL:      "/produtos/produto1/kit-planner.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo1/compartilhar",
			Description: "Kit completo para planejamento com 25 páginas em estilo floral. Perfeito para organização pessoal e profissional.",
			Category:    "planner",
			Featured:    true,
			CreatedAt:   base.Add(5 * 24 * time.Hour),
		},
		{
			ID:          "produto2",
			Name:        "Agenda 2025 Minimalista",
			Price:       34.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630421B5",
			PDFURL:      "/produtos/produto2/agenda-2025.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo2/compartilhar",
			Description: "Agenda completa para 2025 com design minimalista. Inclui páginas de metas, planejamento mensal e diário.",
			Category:    "agenda",
			CreatedAt:   base.Add(4 * 24 * time.Hour),
		},
		{
			ID:          "produto3",
			Name:        "Kit Etiquetas Escolares",
			Price:       19.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630433C7",
			PDFURL:      "/produtos/produto3/etiquetas-escolares.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo3/compartilhar",
			Description: "Conjunto de etiquetas personalizáveis para materiais escolares. Vários temas e tamanhos incluídos.",
			Category:    "escolar",
			CreatedAt:   base.Add(3 * 24 * time.Hour),
		},
		{
			ID:          "produto4",
			Name:        "Cartões de Visita Artesanais",
			Price:       15.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630441D2",
			PDFURL:      "/produtos/produto4/cartoes-visita.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo4/compartilhar",
			Description: "10 modelos de cartões de visita editáveis para artesãs e empreendedoras criativas.",
			Category:    "marketing",
			CreatedAt:   base.Add(2 * 24 * time.Hour),
		},
		{
			ID:          "produto5",
			Name:        "Template Convite Aniversário",
			Price:       12.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630450E3",
			PDFURL:      "/produtos/produto5/convite-aniversario.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo5/compartilhar",
			Description: "Template editável para convites de aniversário infantil com 5 temas diferentes.",
			Category:    "convites",
			CreatedAt:   base.Add(24 * time.Hour),
		},
		{
			ID:          "produto6",
			Name:        "Kit Organizador Financeiro",
			Price:       29.90,
			ImageURL:    "/public/placeholder.svg",
			PixCode:     "00020126580014BR.GOV.BCB.PIX0136example@domain.com5204000053039865802BR5913Carol Artes6008Sao Paulo62070503***630469F4",
			PDFURL:      "/produtos/produto6/organizador-financeiro.pdf",
			CanvaURL:    "https://www.canva.com/design/exemplo6/compartilhar",
			Description: "Kit completo para organização financeira pessoal com planilhas, controle de gastos e planejamento de metas.",
			Category:    "financeiro",
			Featured:    true,
			CreatedAt:   base,
		},
	}
}
