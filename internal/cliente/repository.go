package cliente

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso às contas de cliente.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const clienteColumns = `id, nome, slug, segmento, gestor_id, ativo, criado_em, atualizado_em`

func scanCliente(row pgx.Row) (Cliente, error) {
	var c Cliente
	err := row.Scan(&c.ID, &c.Nome, &c.Slug, &c.Segmento, &c.GestorID, &c.Ativo, &c.CriadoEm, &c.AtualizadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cliente{}, ErrNotFound
	}
	return c, err
}

// GetByID busca cliente pelo identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Cliente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE id = $1`, id)
	return scanCliente(row)
}

// List devolve os clientes ativos ordenados por nome.
func (r *Repository) List(ctx context.Context) ([]Cliente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+clienteColumns+` FROM clientes WHERE ativo ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientes []Cliente
	for rows.Next() {
		var c Cliente
		if err := rows.Scan(&c.ID, &c.Nome, &c.Slug, &c.Segmento, &c.GestorID, &c.Ativo, &c.CriadoEm, &c.AtualizadoEm); err != nil {
			return nil, err
		}
		clientes = append(clientes, c)
	}

	return clientes, rows.Err()
}

// Create registra um novo cliente.
func (r *Repository) Create(ctx context.Context, input CreateClienteInput) (Cliente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		INSERT INTO clientes (id, nome, slug, segmento, gestor_id, ativo)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING `+clienteColumns,
		uuid.New(), input.Nome, input.Slug, input.Segmento, input.GestorID)
	return scanCliente(row)
}

// Deactivate desativa o cliente sem remover o histórico.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE clientes SET ativo = false, atualizado_em = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
