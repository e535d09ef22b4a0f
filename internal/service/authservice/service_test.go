package authservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/token"
	"lojapix/internal/service/authservice"
)

// MockAdminRepository é uma implementação mock da interface domain.AdminRepository.
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockTokenService simula a emissão de JWTs.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(userID string, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(tokenString string) (*token.CustomClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.CustomClaims), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func adminWithPassword(t *testing.T, password string) domain.Admin {
	return domain.Admin{
		ID:           "admin-1",
		Email:        "carol@lojapix.local",
		PasswordHash: hashOf(t, password),
		Role:         domain.RoleAdmin,
	}
}

func TestLogin_Sucesso(t *testing.T) {
	admins := new(MockAdminRepository)
	tokens := new(MockTokenService)
	admin := adminWithPassword(t, "segredo123")

	admins.On("FindByEmail", mock.Anything, "carol@lojapix.local").Return(admin, nil)
	tokens.On("GenerateToken", "carol@lojapix.local", "admin").Return("jwt-assinado", nil)

	svc := authservice.NewService(admins, tokens, logger.NewLogger("error"))
	sessionToken, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "carol@lojapix.local",
		Password: "segredo123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "jwt-assinado", sessionToken)
	tokens.AssertExpectations(t)
}

func TestLogin_SenhaErrada(t *testing.T) {
	admins := new(MockAdminRepository)
	tokens := new(MockTokenService)
	admins.On("FindByEmail", mock.Anything, "carol@lojapix.local").
		Return(adminWithPassword(t, "segredo123"), nil)

	svc := authservice.NewService(admins, tokens, logger.NewLogger("error"))
	_, err := svc.Login(context.Background(), domain.Credentials{
		Email:    "carol@lojapix.local",
		Password: "errada",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	tokens.AssertNotCalled(t, "GenerateToken", mock.Anything, mock.Anything)
}

// TestLogin_EmailDesconhecido: a mensagem é a mesma da senha errada, sem
// revelar quais emails são de administradores.
func TestLogin_EmailDesconhecido(t *testing.T) {
	admins := new(MockAdminRepository)
	tokens := new(MockTokenService)
	admins.On("FindByEmail", mock.Anything, "intruso@example.com").
		Return(domain.Admin{}, apperror.NewNotFoundError("não encontrado"))

	svc := authservice.NewService(admins, tokens, logger.NewLogger("error"))
	_, errDesconhecido := svc.Login(context.Background(), domain.Credentials{
		Email:    "intruso@example.com",
		Password: "qualquer",
	})

	admins.On("FindByEmail", mock.Anything, "carol@lojapix.local").
		Return(adminWithPassword(t, "segredo123"), nil)
	_, errSenha := svc.Login(context.Background(), domain.Credentials{
		Email:    "carol@lojapix.local",
		Password: "errada",
	})

	assert.Error(t, errDesconhecido)
	assert.Error(t, errSenha)
	assert.Equal(t, errSenha.Error(), errDesconhecido.Error())
}

func TestLogin_CamposVazios(t *testing.T) {
	admins := new(MockAdminRepository)
	svc := authservice.NewService(admins, new(MockTokenService), logger.NewLogger("error"))

	for _, cred := range []domain.Credentials{
		{},
		{Email: "carol@lojapix.local"},
		{Password: "segredo123"},
	} {
		_, err := svc.Login(context.Background(), cred)
		assert.Error(t, err)
		assert.IsType(t, &apperror.UnauthorizedError{}, err)
	}
	admins.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestChangePassword_Sucesso(t *testing.T) {
	admins := new(MockAdminRepository)
	admin := adminWithPassword(t, "antiga123")
	admins.On("FindByEmail", mock.Anything, "carol@lojapix.local").Return(admin, nil)
	admins.On("UpdatePassword", mock.Anything, "admin-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			// O hash novo precisa validar a senha nova, nunca a antiga.
			novoHash := args.String(2)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(novoHash), []byte("novaSenha9")))
			assert.Error(t, bcrypt.CompareHashAndPassword([]byte(novoHash), []byte("antiga123")))
		}).
		Return(nil)

	svc := authservice.NewService(admins, new(MockTokenService), logger.NewLogger("error"))
	err := svc.ChangePassword(context.Background(), "carol@lojapix.local", domain.PasswordChange{
		Current: "antiga123",
		New:     "novaSenha9",
	})

	assert.NoError(t, err)
	admins.AssertExpectations(t)
}

func TestChangePassword_SenhaAtualErrada(t *testing.T) {
	admins := new(MockAdminRepository)
	admins.On("FindByEmail", mock.Anything, "carol@lojapix.local").
		Return(adminWithPassword(t, "antiga123"), nil)

	svc := authservice.NewService(admins, new(MockTokenService), logger.NewLogger("error"))
	err := svc.ChangePassword(context.Background(), "carol@lojapix.local", domain.PasswordChange{
		Current: "chute",
		New:     "novaSenha9",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	admins.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_NovaSenhaCurta(t *testing.T) {
	admins := new(MockAdminRepository)
	svc := authservice.NewService(admins, new(MockTokenService), logger.NewLogger("error"))

	err := svc.ChangePassword(context.Background(), "carol@lojapix.local", domain.PasswordChange{
		Current: "antiga123",
		New:     "curta",
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	admins.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}
