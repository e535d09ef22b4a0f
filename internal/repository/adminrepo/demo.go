package adminrepo

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lojapix/internal/domain"
	apperror "lojapix/internal/errors"
	"lojapix/internal/pkg/cache"
	"lojapix/internal/pkg/logger"
)

const demoPasswordKey = "admin:senha_hash"

// DemoRepository é o repositório de administradores do modo demonstração:
// um único admin, com email vindo da configuração e o hash da senha mantido
// no Redis. A senha pode ser trocada e sobrevive a reinícios enquanto o
// Redis viver.
type DemoRepository struct {
	Cache           cache.Client
	Email           string
	defaultPassword string
	logger          logger.Logger
}

// NewDemoRepository cria o repositório de fallback com as credenciais da configuração.
func NewDemoRepository(cacheClient cache.Client, email, defaultPassword string, log logger.Logger) *DemoRepository {
	return &DemoRepository{
		Cache:           cacheClient,
		Email:           email,
		defaultPassword: defaultPassword,
		logger:          log,
	}
}

// FindByEmail retorna o admin sintético quando o email confere.
func (r *DemoRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	if email != r.Email {
		return domain.Admin{}, apperror.NewNotFoundError(fmt.Sprintf("Administrador com email '%s' não encontrado", email))
	}

	hash, err := r.Cache.Get(ctx, demoPasswordKey)
	if err == cache.ErrCacheMiss {
		// Primeira consulta: semeia o hash da senha padrão.
		generated, hashErr := bcrypt.GenerateFromPassword([]byte(r.defaultPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return domain.Admin{}, apperror.NewInternalError("Falha ao gerar hash da senha padrão.", hashErr)
		}
		hash = string(generated)
		if setErr := r.Cache.Set(ctx, demoPasswordKey, hash, 0); setErr != nil {
			r.logger.Warn("Falha ao semear senha de demonstração no Redis.", nil)
		}
	} else if err != nil {
		return domain.Admin{}, apperror.NewInternalError("Falha ao ler credenciais de demonstração.", err)
	}

	return domain.Admin{
		ID:           "admin-demo",
		Email:        r.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// UpdatePassword substitui o hash guardado no Redis.
func (r *DemoRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	if err := r.Cache.Set(ctx, demoPasswordKey, passwordHash, 0); err != nil {
		return apperror.NewInternalError("Falha ao gravar nova senha de demonstração.", err)
	}
	r.logger.Info("Senha de demonstração atualizada.", map[string]interface{}{"admin_id": id})
	return nil
}
