package importer

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

// planilhaTeste monta um arquivo xlsx em memória com uma única aba preenchida.
func planilhaTeste(t *testing.T, aba string, linhas [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", aba); err != nil {
		t.Fatalf("renomear aba: %v", err)
	}

	for i, linha := range linhas {
		for j, valor := range linha {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("coordenada (%d,%d): %v", j+1, i+1, err)
			}
			if err := f.SetCellValue(aba, cell, valor); err != nil {
				t.Fatalf("escrever célula %s: %v", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serializar planilha: %v", err)
	}
	return buf.Bytes()
}

func TestLerPlanilha(t *testing.T) {
	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		{"Data", "Valor Gasto (R$)", "Quantidade de Leads"},
		{"2024-06-10", "500", "50"},
		{"2024-06-11", "300", "20"},
	})

	linhas, err := LerPlanilha(arquivo)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(linhas) != 2 {
		t.Fatalf("linhas = %d, esperado 2", len(linhas))
	}
	if linhas[0]["Data"] != "2024-06-10" {
		t.Errorf("primeira linha Data = %v", linhas[0]["Data"])
	}
	if linhas[1]["Quantidade de Leads"] != "20" {
		t.Errorf("segunda linha Leads = %v", linhas[1]["Quantidade de Leads"])
	}
}

func TestLerPlanilhaAbaSemAcento(t *testing.T) {
	arquivo := planilhaTeste(t, "dados diarios", [][]any{
		{"Data", "Quantidade de Leads"},
		{"2024-06-10", "50"},
	})

	linhas, err := LerPlanilha(arquivo)
	if err != nil {
		t.Fatalf("grafia sem acento deveria ser aceita: %v", err)
	}
	if len(linhas) != 1 {
		t.Fatalf("linhas = %d, esperado 1", len(linhas))
	}
}

func TestLerPlanilhaAbaAusente(t *testing.T) {
	arquivo := planilhaTeste(t, "Resumo", [][]any{
		{"Data", "Quantidade de Leads"},
		{"2024-06-10", "50"},
	})

	_, err := LerPlanilha(arquivo)
	if !errors.Is(err, ErrAbaNaoEncontrada) {
		t.Fatalf("esperado ErrAbaNaoEncontrada, obtido %v", err)
	}
}

func TestLerPlanilhaVazia(t *testing.T) {
	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		{"Data", "Quantidade de Leads"},
	})

	_, err := LerPlanilha(arquivo)
	if !errors.Is(err, ErrPlanilhaVazia) {
		t.Fatalf("esperado ErrPlanilhaVazia, obtido %v", err)
	}
}

func TestLerPlanilhaArquivoInvalido(t *testing.T) {
	_, err := LerPlanilha([]byte("isto não é um xlsx"))
	if err == nil {
		t.Fatal("bytes arbitrários deveriam falhar na abertura")
	}
}

func TestLerPlanilhaColunaSemCabecalho(t *testing.T) {
	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		{"Data", "", "Quantidade de Leads"},
		{"2024-06-10", "lixo", "50"},
	})

	linhas, err := LerPlanilha(arquivo)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if _, ok := linhas[0][""]; ok {
		t.Error("coluna sem cabeçalho não deveria entrar no mapa")
	}
	if linhas[0]["Quantidade de Leads"] != "50" {
		t.Errorf("Leads = %v, esperado 50", linhas[0]["Quantidade de Leads"])
	}
}
