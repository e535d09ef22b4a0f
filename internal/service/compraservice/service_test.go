package compraservice_test

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/webhook"
	"lojapix/internal/service/compraservice"
)

// MockProductRepository é uma implementação mock da interface domain.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPurchaseRepository é uma implementação mock da interface domain.PurchaseRepository.
// Quando Save é configurado com Return(nil, nil), o mock ecoa a compra recebida,
// imitando o repositório real.
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) Save(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	args := m.Called(ctx, purchase)
	if args.Get(0) == nil {
		return purchase, args.Error(1)
	}
	return args.Get(0).(domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByToken(ctx context.Context, token string) (domain.Purchase, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Purchase), args.Error(1)
}

// MockStorage simula o cliente de armazenamento de objetos.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, bucket, path, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, bucket, path)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) CreateSignedURL(ctx context.Context, bucket, path string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, path, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, bucket, path string) error {
	args := m.Called(ctx, bucket, path)
	return args.Error(0)
}

// fakeNotifier captura os eventos enviados ao webhook (o envio é assíncrono).
type fakeNotifier struct {
	events chan webhook.PurchaseEvent
	err    error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan webhook.PurchaseEvent, 4)}
}

func (f *fakeNotifier) Notify(ctx context.Context, event webhook.PurchaseEvent) error {
	f.events <- event
	return f.err
}

func (f *fakeNotifier) wait(t *testing.T) webhook.PurchaseEvent {
	t.Helper()
	select {
	case event := <-f.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("webhook não foi notificado dentro do prazo")
		return webhook.PurchaseEvent{}
	}
}

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

var (
	testNow     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	testProduct = domain.Product{
		ID:       "p1",
		Name:     "Kit Planner Floral",
		Price:    27.90,
		PixCode:  "00020126...A4",
		PDFURL:   "https://storage.local/object/public/pdfs/p1/kit-planner.pdf",
		CanvaURL: "https://www.canva.com/design/exemplo1",
	}
	testParams = compraservice.Params{
		TokenLength:   32,
		ExpiryMinutes: 30,
		PublicBaseURL: "https://loja.local",
		BucketPDFs:    "pdfs",
	}
)

// TestCheckout_Sucesso cobre o caminho feliz: token de 32 caracteres,
// expiração em 30 minutos, registro persistido e webhook notificado.
func TestCheckout_Sucesso(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	storage := new(MockStorage)
	notifier := newFakeNotifier()
	log := logger.NewLogger("error")

	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)
	storage.On("CreateSignedURL", mock.Anything, "pdfs", "p1/kit-planner.pdf", 30*time.Minute).
		Return("https://storage.local/object/sign/pdfs/p1/kit-planner.pdf?token=abc", nil)
	purchases.On("Save", mock.Anything, mock.AnythingOfType("domain.Purchase")).Return(nil, nil)

	svc := compraservice.NewService(products, purchases, storage, notifier, testParams, log).
		WithClock(fixedClock(testNow))

	result, err := svc.Checkout(context.Background(), domain.CheckoutRequest{
		ProductID: "p1",
		Email:     "buyer@example.com",
	})

	assert.NoError(t, err)
	assert.Regexp(t, tokenPattern, result.Purchase.Token)
	assert.Equal(t, "p1", result.Purchase.ProductID)
	assert.Equal(t, "buyer@example.com", result.Purchase.Email)
	assert.Equal(t, testNow.Add(30*time.Minute), result.Purchase.ExpiresAt)
	assert.Equal(t, "https://storage.local/object/sign/pdfs/p1/kit-planner.pdf?token=abc", result.Purchase.DownloadURL)
	assert.Equal(t, "https://loja.local/produto/p1?token="+result.Purchase.Token, result.AccessURL)
	assert.NotEmpty(t, result.QRCodeURL)

	event := notifier.wait(t)
	assert.Equal(t, "buyer@example.com", event.Customer.Email)
	assert.Equal(t, result.AccessURL, event.Purchase.AccessURL)

	products.AssertExpectations(t)
	purchases.AssertExpectations(t)
	storage.AssertExpectations(t)
}

// TestCheckout_EmailInvalido verifica a rejeição sem nenhum efeito colateral.
func TestCheckout_EmailInvalido(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log)

	for _, email := range []string{"", "sem-arroba.com", "sem-ponto@dominio", "com espaco@x.com"} {
		_, err := svc.Checkout(context.Background(), domain.CheckoutRequest{ProductID: "p1", Email: email})
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCheckout_ProdutoInexistente propaga o NotFound do catálogo.
func TestCheckout_ProdutoInexistente(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	products.On("FindByID", mock.Anything, "fantasma").
		Return(domain.Product{}, apperror.NewNotFoundError("produto não existe"))

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log)

	_, err := svc.Checkout(context.Background(), domain.CheckoutRequest{ProductID: "fantasma", Email: "buyer@example.com"})
	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCheckout_FalhaNaURLAssinadaNaoBloqueia: o registro é criado mesmo sem a URL.
func TestCheckout_FalhaNaURLAssinadaNaoBloqueia(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	storage := new(MockStorage)
	notifier := newFakeNotifier()
	log := logger.NewLogger("error")

	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)
	storage.On("CreateSignedURL", mock.Anything, "pdfs", "p1/kit-planner.pdf", 30*time.Minute).
		Return("", assert.AnError)
	purchases.On("Save", mock.Anything, mock.AnythingOfType("domain.Purchase")).Return(nil, nil)

	svc := compraservice.NewService(products, purchases, storage, notifier, testParams, log).
		WithClock(fixedClock(testNow))

	result, err := svc.Checkout(context.Background(), domain.CheckoutRequest{ProductID: "p1", Email: "buyer@example.com"})

	assert.NoError(t, err)
	assert.Empty(t, result.Purchase.DownloadURL)
	purchases.AssertExpectations(t)
}

// TestCheckout_FalhaDePersistencia: erro de escrita não notifica webhook.
func TestCheckout_FalhaDePersistencia(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	notifier := newFakeNotifier()
	log := logger.NewLogger("error")

	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)
	purchases.On("Save", mock.Anything, mock.AnythingOfType("domain.Purchase")).
		Return(nil, apperror.NewDBError("insert falhou", assert.AnError))

	svc := compraservice.NewService(products, purchases, nil, notifier, testParams, log)

	_, err := svc.Checkout(context.Background(), domain.CheckoutRequest{ProductID: "p1", Email: "buyer@example.com"})
	assert.Error(t, err)
	assert.Len(t, notifier.events, 0)
}

// TestCheckout_FalhaNoWebhookNaoDerrubaCompra: webhook com erro é apenas logado.
func TestCheckout_FalhaNoWebhookNaoDerrubaCompra(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	notifier := newFakeNotifier()
	notifier.err = assert.AnError
	log := logger.NewLogger("error")

	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)
	purchases.On("Save", mock.Anything, mock.AnythingOfType("domain.Purchase")).Return(nil, nil)

	svc := compraservice.NewService(products, purchases, nil, notifier, testParams, log).
		WithClock(fixedClock(testNow))

	result, err := svc.Checkout(context.Background(), domain.CheckoutRequest{ProductID: "p1", Email: "buyer@example.com"})
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Purchase.Token)
	notifier.wait(t)
}

// --- Validação de acesso ---

func validPurchase(token string) domain.Purchase {
	return domain.Purchase{
		ID:          "c1",
		ProductID:   "p1",
		Email:       "buyer@example.com",
		Token:       token,
		PurchasedAt: testNow.Add(-time.Minute),
		ExpiresAt:   testNow.Add(29 * time.Minute),
	}
}

func TestValidateAccess_Valido(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchases.On("FindByToken", mock.Anything, "tok123").Return(validPurchase("tok123"), nil)
	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	view, err := svc.ValidateAccess(context.Background(), "p1", "tok123")

	assert.NoError(t, err)
	assert.Equal(t, domain.AccessValid, view.Status)
	assert.Equal(t, "p1", view.Product.ID)
	assert.Equal(t, int64((29 * time.Minute).Seconds()), view.RemainingS)
	// Sem URL assinada no registro, o link direto do produto é o fallback.
	assert.Equal(t, testProduct.PDFURL, view.DownloadURL)
	assert.Equal(t, testProduct.CanvaURL, view.CanvaURL)
}

func TestValidateAccess_PreferenciaPelaURLAssinada(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchase := validPurchase("tok123")
	purchase.DownloadURL = "https://storage.local/object/sign/pdfs/p1.pdf?token=xyz"
	purchases.On("FindByToken", mock.Anything, "tok123").Return(purchase, nil)
	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	view, err := svc.ValidateAccess(context.Background(), "p1", "tok123")
	assert.NoError(t, err)
	assert.Equal(t, purchase.DownloadURL, view.DownloadURL)
}

func TestValidateAccess_ProdutoErrado(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	// Token emitido para o produto "p1", acesso pedido para "p2".
	purchases.On("FindByToken", mock.Anything, "tok123").Return(validPurchase("tok123"), nil)

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	view, err := svc.ValidateAccess(context.Background(), "p2", "tok123")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccessInvalid, view.Status)
	assert.NotEmpty(t, view.Message)
	products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestValidateAccess_Expirado(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	// Registro expirado há um segundo: inválido imediatamente.
	purchase := validPurchase("tok123")
	purchase.ExpiresAt = testNow.Add(-time.Second)
	purchases.On("FindByToken", mock.Anything, "tok123").Return(purchase, nil)

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	view, err := svc.ValidateAccess(context.Background(), "p1", "tok123")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccessInvalid, view.Status)
}

func TestValidateAccess_TokenInexistente(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchases.On("FindByToken", mock.Anything, "bogus").
		Return(domain.Purchase{}, apperror.NewNotFoundError("compra não encontrada"))

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log)

	view, err := svc.ValidateAccess(context.Background(), "p1", "bogus")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccessInvalid, view.Status)
}

func TestValidateAccess_ParametrosAusentes(t *testing.T) {
	svc := compraservice.NewService(new(MockProductRepository), new(MockPurchaseRepository),
		nil, nil, testParams, logger.NewLogger("error"))

	for _, tc := range []struct{ productID, token string }{
		{"", "tok123"},
		{"p1", ""},
		{"", ""},
	} {
		view, err := svc.ValidateAccess(context.Background(), tc.productID, tc.token)
		assert.NoError(t, err)
		assert.Equal(t, domain.AccessInvalid, view.Status)
	}
}

// TestValidateAccess_ProdutoExcluido: excluir o produto invalida tokens
// pendentes mesmo que o registro ainda não tenha expirado.
func TestValidateAccess_ProdutoExcluido(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchases.On("FindByToken", mock.Anything, "tok123").Return(validPurchase("tok123"), nil)
	products.On("FindByID", mock.Anything, "p1").
		Return(domain.Product{}, apperror.NewNotFoundError("produto excluído"))

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	view, err := svc.ValidateAccess(context.Background(), "p1", "tok123")
	assert.NoError(t, err)
	assert.Equal(t, domain.AccessInvalid, view.Status)
}

func TestValidateAccess_ErroDeInfraestruturaPropaga(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchases.On("FindByToken", mock.Anything, "tok123").
		Return(domain.Purchase{}, apperror.NewDBError("conexão perdida", assert.AnError))

	svc := compraservice.NewService(products, purchases, nil, nil, testParams, log)

	_, err := svc.ValidateAccess(context.Background(), "p1", "tok123")
	assert.Error(t, err)
	assert.IsType(t, &apperror.InternalError{}, err)
}

// --- Reenvio ---

func TestResend_ReenviaSemNovoToken(t *testing.T) {
	products := new(MockProductRepository)
	purchases := new(MockPurchaseRepository)
	notifier := newFakeNotifier()
	log := logger.NewLogger("error")

	purchases.On("FindByToken", mock.Anything, "tok123").Return(validPurchase("tok123"), nil)
	products.On("FindByID", mock.Anything, "p1").Return(testProduct, nil)

	svc := compraservice.NewService(products, purchases, nil, notifier, testParams, log).
		WithClock(fixedClock(testNow))

	err := svc.Resend(context.Background(), "tok123", "corrigido@example.com")
	assert.NoError(t, err)

	event := notifier.wait(t)
	assert.Equal(t, "corrigido@example.com", event.Customer.Email)
	// O token original permanece na URL de acesso: nada novo foi emitido.
	assert.Contains(t, event.Purchase.AccessURL, "token=tok123")
	purchases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestResend_EmailInvalido(t *testing.T) {
	purchases := new(MockPurchaseRepository)
	svc := compraservice.NewService(new(MockProductRepository), purchases, nil, nil,
		testParams, logger.NewLogger("error"))

	err := svc.Resend(context.Background(), "tok123", "invalido")
	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	purchases.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
}

func TestResend_AcessoExpirado(t *testing.T) {
	purchases := new(MockPurchaseRepository)
	log := logger.NewLogger("error")

	purchase := validPurchase("tok123")
	purchase.ExpiresAt = testNow.Add(-time.Minute)
	purchases.On("FindByToken", mock.Anything, "tok123").Return(purchase, nil)

	svc := compraservice.NewService(new(MockProductRepository), purchases, nil, nil, testParams, log).
		WithClock(fixedClock(testNow))

	err := svc.Resend(context.Background(), "tok123", "buyer@example.com")
	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}
