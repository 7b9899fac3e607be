package repo

import (
	"time"

	"github.com/google/uuid"
)

// Usuario representa colaborador da agência.
type Usuario struct {
	ID        uuid.UUID
	Nome      string
	Email     string
	SenhaHash string
	Papel     string
	GestorID  *uuid.UUID
	Ativo     bool
	CriadoEm  time.Time
}

// TokenRefresh modela tabela de refresh tokens.
type TokenRefresh struct {
	ID        uuid.UUID
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
	Revogado  bool
}

// InsertRefreshTokenParams agrupa os campos necessários para criar um refresh token.
type InsertRefreshTokenParams struct {
	UsuarioID uuid.UUID
	TokenHash string
	Expiracao time.Time
}
