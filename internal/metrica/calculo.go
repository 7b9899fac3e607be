package metrica

// Funções puras de derivação de indicadores. Divisões por zero
// resultam em 0, nunca em NaN ou infinito.

// ROI calcula o retorno sobre investimento em percentual.
func ROI(valorVendido, valorGasto float64) float64 {
	if valorGasto == 0 {
		return 0
	}
	return (valorVendido - valorGasto) / valorGasto * 100
}

// CustoPorLead calcula o custo médio por lead gerado.
func CustoPorLead(valorGasto float64, leads int) float64 {
	if leads == 0 {
		return 0
	}
	return valorGasto / float64(leads)
}

// TaxaConversao calcula o percentual de leads convertidos em vendas.
func TaxaConversao(vendas, leads int) float64 {
	if leads == 0 {
		return 0
	}
	return float64(vendas) / float64(leads) * 100
}

// TicketMedio calcula o valor médio por venda.
func TicketMedio(valorVendido float64, vendas int) float64 {
	if vendas == 0 {
		return 0
	}
	return valorVendido / float64(vendas)
}
