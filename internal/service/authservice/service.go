package authservice

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/logger"
	"lojapix/internal/pkg/token"
)

// Mensagem única para email desconhecido e senha errada, evitando revelar
// quais emails pertencem a administradores.
const invalidCredentialsMessage = "Credenciais inválidas."

// Service implementa domain.AuthService: login do back-office via tabela de
// administradores (ou o admin de demonstração) e troca de senha.
type Service struct {
	admins   domain.AdminRepository
	tokens   token.TokenService
	validate *validator.Validate
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Autenticação.
func NewService(admins domain.AdminRepository, tokens token.TokenService, log logger.Logger) *Service {
	return &Service{
		admins:   admins,
		tokens:   tokens,
		validate: validator.New(),
		logger:   log,
	}
}

// Login confere as credenciais e emite o JWT de sessão do back-office.
func (s *Service) Login(ctx context.Context, credentials domain.Credentials) (string, error) {
	if credentials.Email == "" || credentials.Password == "" {
		return "", apperror.NewUnauthorizedError(invalidCredentialsMessage)
	}

	admin, err := s.admins.FindByEmail(ctx, credentials.Email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", apperror.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(credentials.Password)) != nil {
		return "", apperror.NewUnauthorizedError(invalidCredentialsMessage)
	}

	// O email é a identidade da sessão: é a chave natural da tabela de
	// administradores e resolve o mesmo admin nos dois repositórios.
	sessionToken, err := s.tokens.GenerateToken(admin.Email, string(admin.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao emitir o token de sessão.", err)
	}

	s.logger.Info("Login de administrador realizado.", map[string]interface{}{
		"admin_id": admin.ID,
	})
	return sessionToken, nil
}

// ChangePassword troca a senha do administrador autenticado. Exige a senha
// atual correta antes de gravar o novo hash. `adminID` é a identidade da
// sessão (o email gravado no JWT).
func (s *Service) ChangePassword(ctx context.Context, adminID string, change domain.PasswordChange) error {
	if err := s.validate.Struct(change); err != nil {
		return apperror.NewValidationError("A nova senha deve ter pelo menos 6 caracteres.")
	}

	admin, err := s.admins.FindByEmail(ctx, adminID)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return apperror.NewUnauthorizedError("Sessão inválida.")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(change.Current)) != nil {
		return apperror.NewUnauthorizedError("A senha atual não confere.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(change.New), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("Falha ao gerar o hash da nova senha.", err)
	}

	if err := s.admins.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("Senha de administrador alterada.", map[string]interface{}{
		"admin_id": admin.ID,
	})
	return nil
}
