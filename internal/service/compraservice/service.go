package compraservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/access"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/storage"
	"lojapix/internal/pkg/webhook"
)

// Mensagem única do estado inválido. Não distinguimos "expirado" de
// "inexistente" para não facilitar enumeração de tokens.
const invalidAccessMessage = "Este link de acesso ao produto é inválido ou expirou."

// Params agrupa os parâmetros de negócio do fluxo de compra.
type Params struct {
	TokenLength   int
	ExpiryMinutes int
	PublicBaseURL string
	BucketPDFs    string
}

// Service implementa domain.PurchaseService: transforma a submissão de email
// do comprador em um acesso durável e limitado no tempo, e valida esse acesso.
type Service struct {
	products  domain.ProductRepository
	purchases domain.PurchaseRepository
	storage   storage.Client // pode ser nil (storage não configurado)
	notifier  webhook.Notifier
	params    Params
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do serviço de compra.
func NewService(products domain.ProductRepository, purchases domain.PurchaseRepository,
	storageClient storage.Client, notifier webhook.Notifier, params Params, log logger.Logger) *Service {

	if params.TokenLength <= 0 {
		params.TokenLength = access.DefaultTokenLength
	}
	if params.ExpiryMinutes <= 0 {
		params.ExpiryMinutes = access.DefaultExpiryMinutes
	}

	return &Service{
		products:  products,
		purchases: purchases,
		storage:   storageClient,
		notifier:  notifier,
		params:    params,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock troca o relógio do serviço (somente testes).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Checkout registra a compra: valida o email, emite o token com prazo,
// persiste o registro e dispara a notificação externa.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	// 1. Pré-condição: email válido. Nenhum efeito colateral antes disso.
	if !access.IsValidEmail(req.Email) {
		return domain.CheckoutResult{}, apperror.NewValidationError("Por favor, insira um email válido para receber o acesso.")
	}

	// 2. O produto precisa existir no catálogo.
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	// 3. Emissão do token e do prazo. Uma única janela governa o registro e
	// a URL assinada, mantendo as duas expirações consistentes.
	now := s.now().UTC()
	purchase := domain.Purchase{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		Email:       req.Email,
		Token:       access.GenerateToken(s.params.TokenLength),
		PurchasedAt: now,
		ExpiresAt:   access.ExpiryFrom(now, s.params.ExpiryMinutes),
	}

	// 4. URL assinada de download (melhor esforço: a falha não impede a compra).
	purchase.DownloadURL = s.trySignedURL(ctx, product)

	// 5. Persistência do registro. Cada submissão gera um registro novo,
	// sem deduplicação.
	saved, err := s.purchases.Save(ctx, purchase)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	accessURL := s.accessURL(saved)

	// 6. Notificação externa fire-and-forget: desacoplada do contexto da
	// requisição (navegar para fora não cancela o envio) e sem retry.
	s.notifyAsync(webhook.NewPurchaseEvent(product, saved, accessURL))

	s.logger.Info("Checkout concluído.", map[string]interface{}{
		"compra_id":  saved.ID,
		"produto_id": saved.ProductID,
		"expira_em":  saved.ExpiresAt.Format(time.RFC3339),
	})

	return domain.CheckoutResult{
		Purchase:  saved,
		AccessURL: accessURL,
		QRCodeURL: product.QRCodeURL(),
	}, nil
}

// ValidateAccess decide o estado terminal de um par (produto, token):
// Valid quando o registro existe, pertence ao produto pedido, ainda não
// expirou e o produto continua no catálogo; Invalid em qualquer outro caso.
func (s *Service) ValidateAccess(ctx context.Context, productID string, token string) (domain.AccessView, error) {
	if productID == "" || token == "" {
		return invalidView(), nil
	}

	purchase, err := s.purchases.FindByToken(ctx, token)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return invalidView(), nil
		}
		return domain.AccessView{}, err
	}

	if !purchase.IsValid(productID, s.now()) {
		return invalidView(), nil
	}

	// O produto pode ter sido excluído depois da compra; nesse caso o token
	// perde o valor mesmo sem ter expirado.
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return invalidView(), nil
		}
		return domain.AccessView{}, err
	}

	remaining := purchase.ExpiresAt.Sub(s.now())

	// Preferência pela URL assinada temporária; o link direto do produto é
	// o fallback.
	downloadURL := purchase.DownloadURL
	if downloadURL == "" {
		downloadURL = product.PDFURL
	}

	return domain.AccessView{
		Status:      domain.AccessValid,
		Product:     &product,
		Remaining:   remaining,
		RemainingS:  int64(remaining.Seconds()),
		DownloadURL: downloadURL,
		CanvaURL:    product.CanvaURL,
	}, nil
}

// Resend reenvia os links de acesso para um email possivelmente corrigido.
// Não emite token novo nem estende o prazo; apenas notifica de novo.
func (s *Service) Resend(ctx context.Context, token string, email string) error {
	if !access.IsValidEmail(email) {
		return apperror.NewValidationError("Por favor, insira um email válido para receber o acesso.")
	}

	purchase, err := s.purchases.FindByToken(ctx, token)
	if err != nil {
		return err
	}

	if s.now().After(purchase.ExpiresAt) {
		return apperror.NewNotFoundError("Este acesso não está mais disponível.")
	}

	product, err := s.products.FindByID(ctx, purchase.ProductID)
	if err != nil {
		return err
	}

	resent := purchase
	resent.Email = email
	s.notifyAsync(webhook.NewPurchaseEvent(product, resent, s.accessURL(purchase)))

	s.logger.Info("Links de acesso reenviados.", map[string]interface{}{
		"compra_id": purchase.ID,
	})
	return nil
}

// trySignedURL pede ao storage uma URL temporária para o PDF do produto.
// Só se aplica quando o PDF vive no bucket de PDFs; qualquer falha é apenas
// registrada e o checkout segue com a URL vazia.
func (s *Service) trySignedURL(ctx context.Context, product domain.Product) string {
	if s.storage == nil || product.PDFURL == "" {
		return ""
	}

	marker := fmt.Sprintf("/object/public/%s/", s.params.BucketPDFs)
	idx := strings.Index(product.PDFURL, marker)
	if idx < 0 {
		// PDF hospedado fora do storage: nada a assinar.
		return ""
	}
	objectPath := product.PDFURL[idx+len(marker):]

	ttl := time.Duration(s.params.ExpiryMinutes) * time.Minute
	signedURL, err := s.storage.CreateSignedURL(ctx, s.params.BucketPDFs, objectPath, ttl)
	if err != nil {
		s.logger.Warn("Falha ao gerar URL assinada; compra segue sem ela.", map[string]interface{}{
			"produto_id": product.ID,
			"err":        err.Error(),
		})
		return ""
	}
	return signedURL
}

// notifyAsync dispara o webhook em goroutine própria, com contexto desanexado
// da requisição e prazo do próprio cliente HTTP. Falhas são apenas logadas.
func (s *Service) notifyAsync(event webhook.PurchaseEvent) {
	if s.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Error("Falha ao notificar webhook de compra.", err)
		}
	}()
}

// accessURL monta a URL pública da página de acesso do comprador.
func (s *Service) accessURL(purchase domain.Purchase) string {
	base := strings.TrimRight(s.params.PublicBaseURL, "/")
	return fmt.Sprintf("%s/produto/%s?token=%s", base, purchase.ProductID, purchase.Token)
}

func invalidView() domain.AccessView {
	return domain.AccessView{
		Status:  domain.AccessInvalid,
		Message: invalidAccessMessage,
	}
}
