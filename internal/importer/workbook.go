package importer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrAbaNaoEncontrada indica que a planilha não possui a aba de dados esperada.
	ErrAbaNaoEncontrada = errors.New(`aba "Dados Diários" não encontrada na planilha`)
	// ErrPlanilhaVazia indica aba de dados sem nenhuma linha além do cabeçalho.
	ErrPlanilhaVazia = errors.New("a aba de dados não contém nenhuma linha")
)

// LinhaBruta mapeia cabeçalho de coluna para o valor da célula.
type LinhaBruta map[string]any

// LerPlanilha abre o arquivo e devolve as linhas da aba "Dados Diários"
// (aceita também a grafia sem acento), na ordem em que aparecem.
func LerPlanilha(arquivo []byte) ([]LinhaBruta, error) {
	f, err := excelize.OpenReader(bytes.NewReader(arquivo))
	if err != nil {
		return nil, fmt.Errorf("abrir planilha: %w", err)
	}
	defer f.Close()

	aba := ""
	for _, nome := range f.GetSheetList() {
		if normalizarNomeAba(nome) == "dados diarios" {
			aba = nome
			break
		}
	}
	if aba == "" {
		return nil, ErrAbaNaoEncontrada
	}

	rows, err := f.GetRows(aba)
	if err != nil {
		return nil, fmt.Errorf("ler aba %q: %w", aba, err)
	}
	if len(rows) < 2 {
		return nil, ErrPlanilhaVazia
	}

	cabecalho := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		cabecalho[i] = strings.TrimSpace(h)
	}

	linhas := make([]LinhaBruta, 0, len(rows)-1)
	for _, row := range rows[1:] {
		linha := make(LinhaBruta, len(cabecalho))
		for j, cell := range row {
			if j >= len(cabecalho) || cabecalho[j] == "" {
				continue
			}
			linha[cabecalho[j]] = cell
		}
		linhas = append(linhas, linha)
	}

	return linhas, nil
}

var acentos = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func normalizarNomeAba(nome string) string {
	return acentos.Replace(strings.ToLower(strings.TrimSpace(nome)))
}
