package cliente

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("cliente não encontrado")
)

// Cliente representa uma conta de cliente atendida pela agência.
type Cliente struct {
	ID           uuid.UUID  `json:"id"`
	Nome         string     `json:"nome"`
	Slug         string     `json:"slug"`
	Segmento     *string    `json:"segmento,omitempty"`
	GestorID     *uuid.UUID `json:"gestor_id,omitempty"`
	Ativo        bool       `json:"ativo"`
	CriadoEm     time.Time  `json:"criado_em"`
	AtualizadoEm time.Time  `json:"atualizado_em"`
}

// CreateClienteInput contém os campos necessários para cadastrar um cliente.
type CreateClienteInput struct {
	Nome     string
	Slug     string
	Segmento *string
	GestorID *uuid.UUID
}
