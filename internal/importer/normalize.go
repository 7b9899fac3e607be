package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/polodash/api/internal/metrica"
)

// Aliases aceitos por campo lógico, na ordem de sondagem. O primeiro
// cabeçalho presente na linha vence.
var (
	aliasesData         = []string{"Data", "data"}
	aliasesValorGasto   = []string{"Valor Gasto (R$)", "Valor Gasto"}
	aliasesLeads        = []string{"Quantidade de Leads", "Leads"}
	aliasesVendas       = []string{"Quantidade de Vendas", "Vendas"}
	aliasesValorVendido = []string{"Valor Vendido (R$)", "Valor Vendido"}
	aliasesGestor       = []string{"Gestor", "gestor"}
	aliasesAtendente    = []string{"Atendente", "atendente"}
	aliasesBM           = []string{"BM", "Business Manager"}
	aliasesConta        = []string{"Conta de Anúncio", "Conta Anúncio"}
	aliasesCriativo     = []string{"Criativo"}
	aliasesPagina       = []string{"Página", "Pagina"}
	aliasesComissao     = []string{"Valor Comissão (R$)", "Valor Total Comissão", "Comissão"}
	aliasesCliques      = []string{"Total de Cliques", "Cliques"}
	aliasesCartao       = []string{"Cartão Usado", "Cartao Usado"}
)

// LinhaNormalizada é a representação validada e tipada de uma linha.
type LinhaNormalizada struct {
	Linha         int
	Data          time.Time
	ValorGasto    float64
	Leads         int
	Vendas        int
	ValorVendido  float64
	NomeGestor    string
	NomeAtendente string

	ROI           float64
	CustoPorLead  float64
	TaxaConversao float64
	TicketMedio   float64

	BM           *string
	ContaAnuncio *string
	Criativo     *string
	Pagina       *string
	CartaoUsado  *string
	Comissao     *float64
	Cliques      *int
}

// LinhaInvalidaError descreve uma linha rejeitada, com o número da linha
// de origem (1-based, contando o cabeçalho).
type LinhaInvalidaError struct {
	Linha  int
	Motivo string
}

func (e *LinhaInvalidaError) Error() string {
	return fmt.Sprintf("Linha %d: %s", e.Linha, e.Motivo)
}

// NormalizarLinha valida e tipa uma linha bruta. Retorna nil quando a linha
// está intencionalmente vazia (sem nenhum dos quatro campos operacionais);
// nesse caso ela não conta como processada nem como erro.
func NormalizarLinha(bruta LinhaBruta, linha int) (*LinhaNormalizada, error) {
	valorGasto, temGasto := extrairNumero(bruta, aliasesValorGasto)
	leads, temLeads := extrairNumero(bruta, aliasesLeads)
	vendas, temVendas := extrairNumero(bruta, aliasesVendas)
	valorVendido, temVendido := extrairNumero(bruta, aliasesValorVendido)

	if !temGasto && !temLeads && !temVendas && !temVendido {
		return nil, nil
	}

	valorData, temData := primeiroPresente(bruta, aliasesData)
	if !temData {
		return nil, &LinhaInvalidaError{Linha: linha, Motivo: "campo obrigatório ausente: Data"}
	}

	data, err := converterData(valorData)
	if err != nil {
		return nil, &LinhaInvalidaError{Linha: linha, Motivo: err.Error()}
	}

	l := &LinhaNormalizada{
		Linha:         linha,
		Data:          data,
		ValorGasto:    valorGasto,
		Leads:         int(math.Round(leads)),
		Vendas:        int(math.Round(vendas)),
		ValorVendido:  valorVendido,
		NomeGestor:    extrairTexto(bruta, aliasesGestor),
		NomeAtendente: extrairTexto(bruta, aliasesAtendente),
	}

	l.ROI = metrica.ROI(l.ValorVendido, l.ValorGasto)
	l.CustoPorLead = metrica.CustoPorLead(l.ValorGasto, l.Leads)
	l.TaxaConversao = metrica.TaxaConversao(l.Vendas, l.Leads)
	l.TicketMedio = metrica.TicketMedio(l.ValorVendido, l.Vendas)

	if v := extrairTexto(bruta, aliasesBM); v != "" {
		l.BM = &v
	}
	if v := extrairTexto(bruta, aliasesConta); v != "" {
		l.ContaAnuncio = &v
	}
	if v := extrairTexto(bruta, aliasesCriativo); v != "" {
		l.Criativo = &v
	}
	if v := extrairTexto(bruta, aliasesPagina); v != "" {
		l.Pagina = &v
	}
	if v := extrairTexto(bruta, aliasesCartao); v != "" {
		l.CartaoUsado = &v
	}
	if v, ok := extrairNumero(bruta, aliasesComissao); ok {
		l.Comissao = &v
	}
	if v, ok := extrairNumero(bruta, aliasesCliques); ok {
		c := int(math.Round(v))
		l.Cliques = &c
	}

	return l, nil
}

// primeiroPresente sonda os aliases em ordem e devolve o primeiro valor presente.
func primeiroPresente(bruta LinhaBruta, aliases []string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := bruta[alias]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

func extrairTexto(bruta LinhaBruta, aliases []string) string {
	v, ok := primeiroPresente(bruta, aliases)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// extrairNumero converte o campo de forma permissiva: remove "R$", espaços e
// separadores de milhar, troca vírgula decimal por ponto. Valores não numéricos
// são tratados como ausentes (jamais derrubam a linha).
func extrairNumero(bruta LinhaBruta, aliases []string) (float64, bool) {
	v, ok := primeiroPresente(bruta, aliases)
	if !ok {
		return 0, false
	}

	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		n, err := parseNumero(t)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func parseNumero(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		// formato brasileiro: ponto separa milhar, vírgula separa decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	if s == "" {
		return 0, fmt.Errorf("vazio")
	}
	return strconv.ParseFloat(s, 64)
}

var (
	padraoISO    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	padraoBR     = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	padraoSerial = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// diasEpocaPlanilha é o deslocamento entre a época serial das planilhas e a
// época Unix (serial 25569 = 1970-01-01).
const diasEpocaPlanilha = 25569

// converterData aceita data nativa, "AAAA-MM-DD", "DD/MM/AAAA" ou o número
// serial de planilha. Qualquer outro formato rejeita a linha.
func converterData(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return truncarDia(t), nil
	case float64:
		return dataDeSerial(t), nil
	case int:
		return dataDeSerial(float64(t)), nil
	case string:
		s := strings.TrimSpace(t)
		switch {
		case padraoISO.MatchString(s):
			d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
			if err != nil {
				return time.Time{}, fmt.Errorf("data em formato inválido: %q", s)
			}
			return d, nil
		case padraoBR.MatchString(s):
			d, err := time.ParseInLocation("02/01/2006", s, time.UTC)
			if err != nil {
				return time.Time{}, fmt.Errorf("data em formato inválido: %q", s)
			}
			return d, nil
		case padraoSerial.MatchString(s):
			serial, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return time.Time{}, fmt.Errorf("data em formato inválido: %q", s)
			}
			return dataDeSerial(serial), nil
		default:
			return time.Time{}, fmt.Errorf("data em formato inválido: %q", s)
		}
	default:
		return time.Time{}, fmt.Errorf("tipo de data não reconhecido")
	}
}

func dataDeSerial(serial float64) time.Time {
	dias := int(serial) - diasEpocaPlanilha
	return time.Unix(0, 0).UTC().AddDate(0, 0, dias)
}

func truncarDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
