package metrica

import (
	"math"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// NomeAbaDados é o nome da aba de dados usada tanto na importação quanto na exportação.
const NomeAbaDados = "Dados Diários"

var exportHeaders = []string{
	"Data", "Atendente", "Valor Gasto (R$)", "Quantidade de Leads", "Quantidade de Vendas",
	"Valor Vendido (R$)", "ROI (%)", "Custo por Lead (R$)", "Taxa de Conversão (%)", "Ticket Médio (R$)",
}

// ExportarXLSX gera uma planilha com as métricas do período.
// nomes mapeia o id do usuário para o nome exibido na coluna Atendente.
func ExportarXLSX(metricas []MetricaDiaria, nomes map[uuid.UUID]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, NomeAbaDados); err != nil {
		return nil, err
	}
	sheet = NomeAbaDados

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, m := range metricas {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		nome := nomes[m.UsuarioID]
		if nome == "" {
			nome = m.UsuarioID.String()
		}

		set(1, m.Data.Format("02/01/2006"))
		set(2, nome)
		set(3, m.ValorGasto)
		set(4, m.Leads)
		set(5, m.Vendas)
		set(6, m.ValorVendido)
		set(7, arredondar(m.ROI))
		set(8, arredondar(m.CustoPorLead))
		set(9, arredondar(m.TaxaConversao))
		set(10, arredondar(m.TicketMedio))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func arredondar(v float64) float64 {
	return math.Round(v*100) / 100
}
