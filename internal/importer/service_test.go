package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/polodash/api/internal/metrica"
	"github.com/polodash/api/internal/repo"
)

type stubDiretorio struct {
	usuarios     map[uuid.UUID]repo.Usuario
	ativos       []repo.Usuario
	subordinados []repo.Usuario
}

func (s *stubDiretorio) GetUsuarioByID(_ context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubDiretorio) ListUsuariosAtivos(context.Context) ([]repo.Usuario, error) {
	return s.ativos, nil
}

func (s *stubDiretorio) ListSubordinados(context.Context, uuid.UUID) ([]repo.Usuario, error) {
	return s.subordinados, nil
}

type stubMetricas struct {
	existentes map[string]bool
	criadas    []metrica.MetricaDiaria
	createErr  error
}

func chaveMetrica(usuarioID uuid.UUID, data time.Time) string {
	return usuarioID.String() + "|" + data.Format("2006-01-02")
}

func (s *stubMetricas) FindByUsuarioEData(_ context.Context, usuarioID uuid.UUID, data time.Time) (*metrica.MetricaDiaria, error) {
	if s.existentes[chaveMetrica(usuarioID, data)] {
		return &metrica.MetricaDiaria{UsuarioID: usuarioID, Data: data}, nil
	}
	return nil, nil
}

func (s *stubMetricas) Create(_ context.Context, m metrica.MetricaDiaria) (metrica.MetricaDiaria, error) {
	if s.createErr != nil {
		return metrica.MetricaDiaria{}, s.createErr
	}
	if s.existentes == nil {
		s.existentes = map[string]bool{}
	}
	s.existentes[chaveMetrica(m.UsuarioID, m.Data)] = true
	s.criadas = append(s.criadas, m)
	return m, nil
}

func novoCenario() (*stubDiretorio, *stubMetricas, repo.Usuario, repo.Usuario) {
	gestor := repo.Usuario{ID: uuid.New(), Nome: "Carlos Silva", Papel: repo.PapelGestor, Ativo: true}
	atendente := repo.Usuario{ID: uuid.New(), Nome: "Maria Souza", Papel: repo.PapelAtendente, Ativo: true, GestorID: &gestor.ID}

	dir := &stubDiretorio{
		usuarios:     map[uuid.UUID]repo.Usuario{gestor.ID: gestor, atendente.ID: atendente},
		ativos:       []repo.Usuario{gestor, atendente},
		subordinados: []repo.Usuario{atendente},
	}
	return dir, &stubMetricas{existentes: map[string]bool{}}, gestor, atendente
}

func cabecalhoPadrao() []any {
	return []any{"Data", "Valor Gasto (R$)", "Quantidade de Leads", "Quantidade de Vendas", "Valor Vendido (R$)", "Atendente"}
}

func TestProcessarPlanilhaImportacaoCompleta(t *testing.T) {
	dir, armazem, gestor, atendente := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "R$ 500,00", "50", "10", "R$ 2.000,00", "Maria"},
		{"2024-06-11", "300", "30", "6", "900", "Maria Souza"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if !resultado.Sucesso {
		t.Fatalf("importação deveria ter sucesso: %+v", resultado)
	}
	if resultado.LinhasOK != 2 || resultado.LinhasComErro != 0 {
		t.Errorf("contagem = %d ok / %d erro, esperado 2/0", resultado.LinhasOK, resultado.LinhasComErro)
	}
	if resultado.MetricasCriadas != 2 {
		t.Fatalf("criadas = %d, esperado 2", resultado.MetricasCriadas)
	}
	if resultado.Mensagem != "Importação concluída: 2 métricas criadas" {
		t.Errorf("mensagem inesperada: %q", resultado.Mensagem)
	}
	if len(resultado.Avisos) != 0 || len(resultado.Erros) != 0 {
		t.Errorf("avisos/erros inesperados: %v / %v", resultado.Avisos, resultado.Erros)
	}

	primeira := armazem.criadas[0]
	if primeira.UsuarioID != atendente.ID {
		t.Errorf("dono da métrica = %s, esperado a atendente %s", primeira.UsuarioID, atendente.ID)
	}
	if primeira.ROI != 300 || primeira.CustoPorLead != 10 || primeira.TaxaConversao != 20 || primeira.TicketMedio != 200 {
		t.Errorf("derivados = roi %v, cpl %v, conv %v, ticket %v",
			primeira.ROI, primeira.CustoPorLead, primeira.TaxaConversao, primeira.TicketMedio)
	}
}

func TestProcessarPlanilhaLinhaInvalidaNaoInterrompe(t *testing.T) {
	dir, armazem, gestor, _ := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
		{"data ruim", "300", "30", "6", "900", "Maria"},
		{"2024-06-12", "100", "10", "2", "400", "Maria"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if !resultado.Sucesso {
		t.Fatalf("linhas válidas deveriam ser importadas mesmo com erro no meio: %+v", resultado)
	}
	if resultado.LinhasOK != 2 || resultado.LinhasComErro != 1 {
		t.Errorf("contagem = %d ok / %d erro, esperado 2/1", resultado.LinhasOK, resultado.LinhasComErro)
	}
	if resultado.MetricasCriadas != 2 {
		t.Errorf("criadas = %d, esperado 2", resultado.MetricasCriadas)
	}
	if len(resultado.Erros) != 1 || !strings.HasPrefix(resultado.Erros[0], "Linha 3:") {
		t.Errorf("erro deveria apontar a linha 3, obtido %v", resultado.Erros)
	}
}

func TestProcessarPlanilhaLinhasVaziasIgnoradas(t *testing.T) {
	dir, armazem, gestor, _ := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
		{"", "", "", "", "", ""},
		{"2024-06-12", "", "", "", "", ""},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if resultado.LinhasOK != 1 || resultado.LinhasComErro != 0 {
		t.Errorf("linhas vazias não deveriam contar: %d ok / %d erro", resultado.LinhasOK, resultado.LinhasComErro)
	}
	if resultado.MetricasCriadas != 1 {
		t.Errorf("criadas = %d, esperado 1", resultado.MetricasCriadas)
	}
}

func TestProcessarPlanilhaMetricaDuplicadaPula(t *testing.T) {
	dir, armazem, gestor, atendente := novoCenario()
	dia := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	armazem.existentes[chaveMetrica(atendente.ID, dia)] = true
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if resultado.Sucesso {
		t.Fatal("sem nenhuma métrica criada a importação não tem sucesso")
	}
	if resultado.MetricasCriadas != 0 {
		t.Errorf("criadas = %d, esperado 0", resultado.MetricasCriadas)
	}
	if resultado.Mensagem != "Nenhuma métrica foi importada" {
		t.Errorf("mensagem inesperada: %q", resultado.Mensagem)
	}
	if len(resultado.Avisos) != 1 || !strings.Contains(resultado.Avisos[0], "Métrica já existe para 10/06/2024") {
		t.Errorf("aviso de duplicata inesperado: %v", resultado.Avisos)
	}
}

func TestProcessarPlanilhaReimportacaoIdempotente(t *testing.T) {
	dir, armazem, gestor, _ := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
	})

	primeira := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)
	if !primeira.Sucesso || primeira.MetricasCriadas != 1 {
		t.Fatalf("primeira importação deveria criar 1 métrica: %+v", primeira)
	}

	segunda := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)
	if segunda.Sucesso || segunda.MetricasCriadas != 0 {
		t.Fatalf("segunda importação deveria pular tudo: %+v", segunda)
	}
	if len(armazem.criadas) != 1 {
		t.Errorf("armazenamento deveria ter exatamente 1 métrica, tem %d", len(armazem.criadas))
	}
}

func TestProcessarPlanilhaFallbackDeDono(t *testing.T) {
	t.Run("gestor sem nomes na linha usa subordinada atendente", func(t *testing.T) {
		dir, armazem, gestor, atendente := novoCenario()
		svc := NewService(dir, armazem)

		arquivo := planilhaTeste(t, "Dados Diários", [][]any{
			{"Data", "Valor Gasto (R$)", "Quantidade de Leads", "Quantidade de Vendas", "Valor Vendido (R$)"},
			{"2024-06-10", "500", "50", "10", "2000"},
		})

		resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)
		if !resultado.Sucesso {
			t.Fatalf("importação deveria ter sucesso: %+v", resultado)
		}
		if armazem.criadas[0].UsuarioID != atendente.ID {
			t.Errorf("dono = %s, esperado a subordinada %s", armazem.criadas[0].UsuarioID, atendente.ID)
		}
	})

	t.Run("atendente importando fica com a própria métrica", func(t *testing.T) {
		dir, armazem, _, atendente := novoCenario()
		dir.subordinados = nil
		svc := NewService(dir, armazem)

		arquivo := planilhaTeste(t, "Dados Diários", [][]any{
			{"Data", "Valor Gasto (R$)", "Quantidade de Leads", "Quantidade de Vendas", "Valor Vendido (R$)"},
			{"2024-06-10", "500", "50", "10", "2000"},
		})

		resultado := svc.ProcessarPlanilha(context.Background(), arquivo, atendente.ID)
		if !resultado.Sucesso {
			t.Fatalf("importação deveria ter sucesso: %+v", resultado)
		}
		if armazem.criadas[0].UsuarioID != atendente.ID {
			t.Errorf("dono = %s, esperado a própria atendente %s", armazem.criadas[0].UsuarioID, atendente.ID)
		}
	})

	t.Run("nome desconhecido gera aviso e cai no importador", func(t *testing.T) {
		dir, armazem, gestor, _ := novoCenario()
		dir.subordinados = nil
		svc := NewService(dir, armazem)

		arquivo := planilhaTeste(t, "Dados Diários", [][]any{
			cabecalhoPadrao(),
			{"2024-06-10", "500", "50", "10", "2000", "Fulano Inexistente"},
		})

		resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)
		if !resultado.Sucesso {
			t.Fatalf("importação deveria ter sucesso: %+v", resultado)
		}
		if armazem.criadas[0].UsuarioID != gestor.ID {
			t.Errorf("dono = %s, esperado o importador %s", armazem.criadas[0].UsuarioID, gestor.ID)
		}
		if len(resultado.Avisos) != 1 || !strings.Contains(resultado.Avisos[0], `Atendente "Fulano Inexistente" não encontrado`) {
			t.Errorf("aviso inesperado: %v", resultado.Avisos)
		}
	})
}

func TestProcessarPlanilhaAbaAusente(t *testing.T) {
	dir, armazem, gestor, _ := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Resumo", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if resultado.Sucesso {
		t.Fatal("planilha sem aba de dados não pode ter sucesso")
	}
	if len(resultado.Erros) != 1 {
		t.Fatalf("esperado exatamente 1 erro descritivo, obtido %v", resultado.Erros)
	}
	if resultado.Mensagem != ErrAbaNaoEncontrada.Error() {
		t.Errorf("mensagem inesperada: %q", resultado.Mensagem)
	}
}

func TestProcessarPlanilhaImportadorDesconhecido(t *testing.T) {
	dir, armazem, _, _ := novoCenario()
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, uuid.New())

	if resultado.Sucesso {
		t.Fatal("importador inexistente não pode ter sucesso")
	}
	if resultado.Mensagem != "usuário importador não encontrado" {
		t.Errorf("mensagem inesperada: %q", resultado.Mensagem)
	}
}

func TestProcessarPlanilhaErroDePersistencia(t *testing.T) {
	dir, armazem, gestor, _ := novoCenario()
	armazem.createErr = fmt.Errorf("conexão perdida")
	svc := NewService(dir, armazem)

	arquivo := planilhaTeste(t, "Dados Diários", [][]any{
		cabecalhoPadrao(),
		{"2024-06-10", "500", "50", "10", "2000", "Maria"},
	})

	resultado := svc.ProcessarPlanilha(context.Background(), arquivo, gestor.ID)

	if resultado.Sucesso {
		t.Fatal("falha total de persistência não pode ter sucesso")
	}
	if len(resultado.Erros) != 1 || !strings.Contains(resultado.Erros[0], "erro ao salvar métrica de 10/06/2024") {
		t.Errorf("erro inesperado: %v", resultado.Erros)
	}
}
