package adminrepo

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

// AdminRepository implementa domain.AdminRepository sobre PostgreSQL.
// Quem consta na tabela `admins` tem acesso ao back-office.
type AdminRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewAdminRepository cria uma nova instância do repositório, injetando o DB.
func NewAdminRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *AdminRepository {
	return &AdminRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// FindByEmail busca um administrador pelo endereço de e-mail.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (domain.Admin, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const query = `SELECT id, email, senha_hash, created_at FROM admins WHERE email = $1`
	row := r.DB.QueryRowContext(ctxTimeout, query, email)

	var admin domain.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Admin{}, apperror.NewNotFoundError(fmt.Sprintf("Administrador com email '%s' não encontrado", email))
		}
		r.logger.Error("Falha ao buscar administrador por email no DB.", err)
		return domain.Admin{}, apperror.NewDBError("failed to find admin by email (DB)", err)
	}

	admin.Role = domain.RoleAdmin
	return admin, nil
}

// UpdatePassword grava o novo hash de senha do administrador.
func (r *AdminRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE admins SET senha_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		r.logger.Error("Falha ao atualizar senha do administrador.", err)
		return apperror.NewDBError("failed to update admin password (DB)", err)
	}

	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Administrador com ID %s não existe.", id))
	}

	r.logger.Info("Senha do administrador atualizada.", map[string]interface{}{"admin_id": id})
	return nil
}
