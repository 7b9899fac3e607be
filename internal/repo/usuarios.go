package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polodash/api/internal/db"
)

const dbTimeout = 3 * time.Second

// Queries fornece acesso ao diretório de usuários e tokens.
type Queries struct {
	db *pgxpool.Pool
}

// New cria o repositório sobre o pool.
func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

const usuarioColumns = `id, nome, email, senha_hash, papel, gestor_id, ativo, criado_em`

func scanUsuario(row pgx.Row) (Usuario, error) {
	var u Usuario
	err := row.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Papel, &u.GestorID, &u.Ativo, &u.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Usuario{}, ErrNotFound
	}
	return u, err
}

// GetUsuarioByID busca usuário pelo identificador.
func (q *Queries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id = $1`, id)
	return scanUsuario(row)
}

// GetUsuarioByEmail busca usuário pelo e-mail normalizado.
func (q *Queries) GetUsuarioByEmail(ctx context.Context, email string) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE lower(email) = $1`, strings.ToLower(email))
	return scanUsuario(row)
}

// ListUsuariosAtivos lista o diretório completo ordenado por criação.
// A ordem estável garante resolução determinística de nomes duplicados.
func (q *Queries) ListUsuariosAtivos(ctx context.Context) ([]Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := q.db.Query(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE ativo
		ORDER BY criado_em, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		var u Usuario
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Papel, &u.GestorID, &u.Ativo, &u.CriadoEm); err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}

	return usuarios, rows.Err()
}

// ListSubordinados lista a equipe direta de um gestor, ordenada por criação.
func (q *Queries) ListSubordinados(ctx context.Context, gestorID uuid.UUID) ([]Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := q.db.Query(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE gestor_id = $1 AND ativo
		ORDER BY criado_em, id
	`, gestorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usuarios []Usuario
	for rows.Next() {
		var u Usuario
		if err := rows.Scan(&u.ID, &u.Nome, &u.Email, &u.SenhaHash, &u.Papel, &u.GestorID, &u.Ativo, &u.CriadoEm); err != nil {
			return nil, err
		}
		usuarios = append(usuarios, u)
	}

	return usuarios, rows.Err()
}

// CreateUsuario insere novo colaborador.
func (q *Queries) CreateUsuario(ctx context.Context, u Usuario) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := q.db.QueryRow(ctx, `
		INSERT INTO usuarios (id, nome, email, senha_hash, papel, gestor_id, ativo)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING `+usuarioColumns,
		u.ID, u.Nome, strings.ToLower(u.Email), u.SenhaHash, strings.ToLower(u.Papel), u.GestorID)
	return scanUsuario(row)
}

// InsertRefreshToken registra refresh token emitido.
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var t TokenRefresh
	err := q.db.QueryRow(ctx, `
		INSERT INTO tokens_refresh (id, usuario_id, token_hash, expiracao)
		VALUES ($1, $2, $3, $4)
		RETURNING id, usuario_id, token_hash, expiracao, criado_em, revogado
	`, uuid.New(), arg.UsuarioID, arg.TokenHash, arg.Expiracao).
		Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	return t, err
}

// RotateRefreshToken revoga o token antigo e registra o novo na mesma
// transação, evitando janela com os dois tokens válidos.
func (q *Queries) RotateRefreshToken(ctx context.Context, oldHash string, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var t TokenRefresh
	err := db.WithTx(ctx, q.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE tokens_refresh SET revogado = true WHERE token_hash = $1`, oldHash); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO tokens_refresh (id, usuario_id, token_hash, expiracao)
			VALUES ($1, $2, $3, $4)
			RETURNING id, usuario_id, token_hash, expiracao, criado_em, revogado
		`, uuid.New(), arg.UsuarioID, arg.TokenHash, arg.Expiracao).
			Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	})
	return t, err
}

// GetRefreshTokenByHash localiza refresh token válido pelo hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var t TokenRefresh
	err := q.db.QueryRow(ctx, `
		SELECT id, usuario_id, token_hash, expiracao, criado_em, revogado
		FROM tokens_refresh
		WHERE token_hash = $1
	`, tokenHash).
		Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado)
	if errors.Is(err, pgx.ErrNoRows) {
		return TokenRefresh{}, ErrNotFound
	}
	return t, err
}

// RevokeRefreshToken marca o token como revogado.
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := q.db.Exec(ctx, `UPDATE tokens_refresh SET revogado = true WHERE token_hash = $1`, tokenHash)
	return err
}
