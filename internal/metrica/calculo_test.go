package metrica

import (
	"math"
	"testing"
)

func quase(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestROI(t *testing.T) {
	casos := []struct {
		nome         string
		valorVendido float64
		valorGasto   float64
		esperado     float64
	}{
		{"lucro", 2000, 500, 300},
		{"prejuizo", 250, 500, -50},
		{"empate", 500, 500, 0},
		{"gasto zero", 2000, 0, 0},
		{"tudo zero", 0, 0, 0},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := ROI(c.valorVendido, c.valorGasto); !quase(got, c.esperado) {
				t.Fatalf("ROI(%v, %v) = %v, esperado %v", c.valorVendido, c.valorGasto, got, c.esperado)
			}
		})
	}
}

func TestCustoPorLead(t *testing.T) {
	casos := []struct {
		nome       string
		valorGasto float64
		leads      int
		esperado   float64
	}{
		{"divisao simples", 500, 50, 10},
		{"fracionario", 100, 3, 100.0 / 3.0},
		{"sem leads", 500, 0, 0},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := CustoPorLead(c.valorGasto, c.leads); !quase(got, c.esperado) {
				t.Fatalf("CustoPorLead(%v, %d) = %v, esperado %v", c.valorGasto, c.leads, got, c.esperado)
			}
		})
	}
}

func TestTaxaConversao(t *testing.T) {
	casos := []struct {
		nome     string
		vendas   int
		leads    int
		esperado float64
	}{
		{"vinte por cento", 10, 50, 20},
		{"cem por cento", 5, 5, 100},
		{"sem leads", 10, 0, 0},
		{"sem vendas", 0, 50, 0},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := TaxaConversao(c.vendas, c.leads); !quase(got, c.esperado) {
				t.Fatalf("TaxaConversao(%d, %d) = %v, esperado %v", c.vendas, c.leads, got, c.esperado)
			}
		})
	}
}

func TestTicketMedio(t *testing.T) {
	casos := []struct {
		nome         string
		valorVendido float64
		vendas       int
		esperado     float64
	}{
		{"ticket de duzentos", 2000, 10, 200},
		{"sem vendas", 2000, 0, 0},
	}

	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := TicketMedio(c.valorVendido, c.vendas); !quase(got, c.esperado) {
				t.Fatalf("TicketMedio(%v, %d) = %v, esperado %v", c.valorVendido, c.vendas, got, c.esperado)
			}
		})
	}
}
