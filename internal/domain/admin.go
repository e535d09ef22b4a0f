package domain

import (
	"context"
	"time"
)

// Admin representa um usuário administrador da loja. O acesso ao back-office
// é restrito a quem consta na tabela `admins`.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // nunca sai no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleGuest UserRole = "guest"
)

// Credentials é o payload de entrada do login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// PasswordChange é o payload da troca de senha do administrador.
type PasswordChange struct {
	Current string `json:"senha_atual"`
	New     string `json:"senha_nova" validate:"required,min=6"`
}

// AdminRepository define o contrato de persistência dos administradores.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (Admin, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// AuthService define login e gestão de credenciais do back-office.
type AuthService interface {
	Login(ctx context.Context, credentials Credentials) (string, error)
	ChangePassword(ctx context.Context, adminID string, change PasswordChange) error
}
