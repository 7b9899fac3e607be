package metrica

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso às métricas diárias persistidas.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const metricaColumns = `id, usuario_id, data, valor_gasto, leads, vendas, valor_vendido,
	roi, custo_por_lead, taxa_conversao, ticket_medio,
	bm, conta_anuncio, criativo, pagina, cartao_usado, comissao, cliques, criado_em`

func scanMetrica(row pgx.Row) (MetricaDiaria, error) {
	var m MetricaDiaria
	err := row.Scan(&m.ID, &m.UsuarioID, &m.Data, &m.ValorGasto, &m.Leads, &m.Vendas, &m.ValorVendido,
		&m.ROI, &m.CustoPorLead, &m.TaxaConversao, &m.TicketMedio,
		&m.BM, &m.ContaAnuncio, &m.Criativo, &m.Pagina, &m.CartaoUsado, &m.Comissao, &m.Cliques, &m.CriadoEm)
	return m, err
}

// FindByUsuarioEData busca a métrica de um usuário em uma data.
// Retorna nil sem erro quando não existe registro.
func (r *Repository) FindByUsuarioEData(ctx context.Context, usuarioID uuid.UUID, data time.Time) (*MetricaDiaria, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT `+metricaColumns+`
		FROM metricas_diarias
		WHERE usuario_id = $1 AND data = $2
	`, usuarioID, data)

	m, err := scanMetrica(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create insere uma nova métrica diária.
func (r *Repository) Create(ctx context.Context, m MetricaDiaria) (MetricaDiaria, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO metricas_diarias (
			id, usuario_id, data, valor_gasto, leads, vendas, valor_vendido,
			roi, custo_por_lead, taxa_conversao, ticket_medio,
			bm, conta_anuncio, criativo, pagina, cartao_usado, comissao, cliques
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+metricaColumns,
		m.ID, m.UsuarioID, m.Data, m.ValorGasto, m.Leads, m.Vendas, m.ValorVendido,
		m.ROI, m.CustoPorLead, m.TaxaConversao, m.TicketMedio,
		m.BM, m.ContaAnuncio, m.Criativo, m.Pagina, m.CartaoUsado, m.Comissao, m.Cliques)
	return scanMetrica(row)
}

// ListPorPeriodo lista métricas do período, opcionalmente filtrando por usuário.
func (r *Repository) ListPorPeriodo(ctx context.Context, inicio, fim time.Time, usuarioID *uuid.UUID) ([]MetricaDiaria, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `
		SELECT ` + metricaColumns + `
		FROM metricas_diarias
		WHERE data >= $1 AND data <= $2`
	args := []any{inicio, fim}
	if usuarioID != nil {
		query += ` AND usuario_id = $3`
		args = append(args, *usuarioID)
	}
	query += ` ORDER BY data, criado_em`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metricas []MetricaDiaria
	for rows.Next() {
		m, err := scanMetrica(rows)
		if err != nil {
			return nil, err
		}
		metricas = append(metricas, m)
	}

	return metricas, rows.Err()
}

// ResumoPeriodo agrega os totais do período para o dashboard.
func (r *Repository) ResumoPeriodo(ctx context.Context, inicio, fim time.Time, usuarioID *uuid.UUID) (Resumo, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	query := `
		SELECT COALESCE(SUM(valor_gasto), 0), COALESCE(SUM(leads), 0),
			COALESCE(SUM(vendas), 0), COALESCE(SUM(valor_vendido), 0),
			COUNT(DISTINCT data)
		FROM metricas_diarias
		WHERE data >= $1 AND data <= $2`
	args := []any{inicio, fim}
	if usuarioID != nil {
		query += ` AND usuario_id = $3`
		args = append(args, *usuarioID)
	}

	var resumo Resumo
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&resumo.TotalGasto, &resumo.TotalLeads, &resumo.TotalVendas, &resumo.TotalVendido, &resumo.Dias)
	if err != nil {
		return Resumo{}, err
	}

	resumo.CalcularDerivados()
	return resumo, nil
}
