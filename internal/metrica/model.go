package metrica

import (
	"time"

	"github.com/google/uuid"
)

// MetricaDiaria representa o desempenho de um atendente em um dia.
// Existe no máximo um registro por par (usuário, data).
type MetricaDiaria struct {
	ID            uuid.UUID `json:"id"`
	UsuarioID     uuid.UUID `json:"usuario_id"`
	Data          time.Time `json:"data"`
	ValorGasto    float64   `json:"valor_gasto"`
	Leads         int       `json:"leads"`
	Vendas        int       `json:"vendas"`
	ValorVendido  float64   `json:"valor_vendido"`
	ROI           float64   `json:"roi"`
	CustoPorLead  float64   `json:"custo_por_lead"`
	TaxaConversao float64   `json:"taxa_conversao"`
	TicketMedio   float64   `json:"ticket_medio"`

	// Detalhes opcionais de campanha, repassados sem derivação.
	BM           *string  `json:"bm,omitempty"`
	ContaAnuncio *string  `json:"conta_anuncio,omitempty"`
	Criativo     *string  `json:"criativo,omitempty"`
	Pagina       *string  `json:"pagina,omitempty"`
	CartaoUsado  *string  `json:"cartao_usado,omitempty"`
	Comissao     *float64 `json:"comissao,omitempty"`
	Cliques      *int     `json:"cliques,omitempty"`

	CriadoEm time.Time `json:"criado_em"`
}

// Resumo agrega um período para o dashboard.
type Resumo struct {
	TotalGasto    float64 `json:"total_gasto"`
	TotalLeads    int     `json:"total_leads"`
	TotalVendas   int     `json:"total_vendas"`
	TotalVendido  float64 `json:"total_vendido"`
	ROI           float64 `json:"roi"`
	CustoPorLead  float64 `json:"custo_por_lead"`
	TaxaConversao float64 `json:"taxa_conversao"`
	TicketMedio   float64 `json:"ticket_medio"`
	Dias          int     `json:"dias"`
}

// CalcularDerivados preenche os indicadores derivados do resumo.
func (r *Resumo) CalcularDerivados() {
	r.ROI = ROI(r.TotalVendido, r.TotalGasto)
	r.CustoPorLead = CustoPorLead(r.TotalGasto, r.TotalLeads)
	r.TaxaConversao = TaxaConversao(r.TotalVendas, r.TotalLeads)
	r.TicketMedio = TicketMedio(r.TotalVendido, r.TotalVendas)
}
