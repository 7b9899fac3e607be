package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/polodash/api/internal/metrica"
	"github.com/polodash/api/internal/repo"
)

// DiretorioUsuarios é o colaborador que fornece o diretório de colaboradores.
type DiretorioUsuarios interface {
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	ListUsuariosAtivos(ctx context.Context) ([]repo.Usuario, error)
	ListSubordinados(ctx context.Context, gestorID uuid.UUID) ([]repo.Usuario, error)
}

// ArmazenamentoMetricas é o colaborador de persistência das métricas diárias.
type ArmazenamentoMetricas interface {
	FindByUsuarioEData(ctx context.Context, usuarioID uuid.UUID, data time.Time) (*metrica.MetricaDiaria, error)
	Create(ctx context.Context, m metrica.MetricaDiaria) (metrica.MetricaDiaria, error)
}

// Service orquestra a importação de planilhas de ponta a ponta. Não guarda
// estado entre chamadas; cada importação é uma passada linear única.
type Service struct {
	usuarios DiretorioUsuarios
	metricas ArmazenamentoMetricas
}

func NewService(usuarios DiretorioUsuarios, metricas ArmazenamentoMetricas) *Service {
	return &Service{usuarios: usuarios, metricas: metricas}
}

// ProcessarPlanilha importa o arquivo em nome do usuário informado. Nunca
// retorna erro: todo desfecho, inclusive falha total, vem no Resultado.
func (s *Service) ProcessarPlanilha(ctx context.Context, arquivo []byte, importadorID uuid.UUID) *Resultado {
	linhas, err := LerPlanilha(arquivo)
	if err != nil {
		return resultadoFalha(err.Error())
	}

	resultado := novoResultado()

	// Primeira passada: normalização linha a linha. A linha 1 é o cabeçalho,
	// então a linha de origem do índice i é i+2.
	fila := make([]*LinhaNormalizada, 0, len(linhas))
	for i, bruta := range linhas {
		normalizada, err := NormalizarLinha(bruta, i+2)
		if err != nil {
			resultado.LinhasComErro++
			resultado.Erros = append(resultado.Erros, err.Error())
			continue
		}
		if normalizada == nil {
			continue
		}
		resultado.LinhasOK++
		fila = append(fila, normalizada)
	}

	if len(fila) == 0 {
		resultado.Mensagem = "Nenhuma métrica foi importada"
		return resultado
	}

	importador, err := s.usuarios.GetUsuarioByID(ctx, importadorID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return resultadoFalha("usuário importador não encontrado")
		}
		return resultadoFalha(fmt.Sprintf("falha ao carregar usuário importador: %v", err))
	}

	ativos, err := s.usuarios.ListUsuariosAtivos(ctx)
	if err != nil {
		return resultadoFalha(fmt.Sprintf("falha ao carregar diretório de usuários: %v", err))
	}
	diretorio := NovoDiretorio(ativos)

	var subordinados []repo.Usuario
	if repo.PapelGerencia(importador.Papel) {
		subordinados, err = s.usuarios.ListSubordinados(ctx, importador.ID)
		if err != nil {
			return resultadoFalha(fmt.Sprintf("falha ao carregar equipe do gestor: %v", err))
		}
	}

	for _, linha := range fila {
		dono := s.resolverDono(linha, diretorio, importador, subordinados, resultado)
		dataFmt := linha.Data.Format("02/01/2006")

		existente, err := s.metricas.FindByUsuarioEData(ctx, dono, linha.Data)
		if err != nil {
			resultado.Erros = append(resultado.Erros,
				fmt.Sprintf("erro ao verificar métrica de %s: %v", dataFmt, err))
			continue
		}
		if existente != nil {
			nome := diretorio.Nome(dono)
			if nome == "" {
				nome = importador.Nome
			}
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("Métrica já existe para %s - %s, pulando", dataFmt, nome))
			continue
		}

		if _, err := s.metricas.Create(ctx, montarMetrica(linha, dono)); err != nil {
			resultado.Erros = append(resultado.Erros,
				fmt.Sprintf("erro ao salvar métrica de %s: %v", dataFmt, err))
			continue
		}
		resultado.MetricasCriadas++
	}

	resultado.Sucesso = resultado.MetricasCriadas > 0
	if resultado.Sucesso {
		resultado.Mensagem = fmt.Sprintf("Importação concluída: %d métricas criadas", resultado.MetricasCriadas)
	} else {
		resultado.Mensagem = "Nenhuma métrica foi importada"
	}

	log.Info().
		Int("linhas_ok", resultado.LinhasOK).
		Int("linhas_erro", resultado.LinhasComErro).
		Int("criadas", resultado.MetricasCriadas).
		Msg("importação de planilha concluída")

	return resultado
}

// resolverDono aplica a política de identidade: atendente da linha, depois
// gestor da linha, depois o fallback pelo papel do importador.
func (s *Service) resolverDono(linha *LinhaNormalizada, diretorio *Diretorio, importador repo.Usuario, subordinados []repo.Usuario, resultado *Resultado) uuid.UUID {
	if linha.NomeAtendente != "" {
		if id, ok := diretorio.Resolver(linha.NomeAtendente); ok {
			return id
		}
		resultado.Avisos = append(resultado.Avisos,
			fmt.Sprintf("Atendente %q não encontrado, usando usuário importador", linha.NomeAtendente))
	}

	if linha.NomeGestor != "" {
		if id, ok := diretorio.Resolver(linha.NomeGestor); ok {
			return id
		}
		resultado.Avisos = append(resultado.Avisos,
			fmt.Sprintf("Gestor %q não encontrado, usando usuário importador", linha.NomeGestor))
	}

	if strings.EqualFold(importador.Papel, repo.PapelAtendente) {
		return importador.ID
	}

	for _, sub := range subordinados {
		if strings.EqualFold(sub.Papel, repo.PapelAtendente) {
			return sub.ID
		}
	}

	return importador.ID
}

func montarMetrica(linha *LinhaNormalizada, dono uuid.UUID) metrica.MetricaDiaria {
	return metrica.MetricaDiaria{
		UsuarioID:     dono,
		Data:          linha.Data,
		ValorGasto:    linha.ValorGasto,
		Leads:         linha.Leads,
		Vendas:        linha.Vendas,
		ValorVendido:  linha.ValorVendido,
		ROI:           linha.ROI,
		CustoPorLead:  linha.CustoPorLead,
		TaxaConversao: linha.TaxaConversao,
		TicketMedio:   linha.TicketMedio,
		BM:            linha.BM,
		ContaAnuncio:  linha.ContaAnuncio,
		Criativo:      linha.Criativo,
		Pagina:        linha.Pagina,
		CartaoUsado:   linha.CartaoUsado,
		Comissao:      linha.Comissao,
		Cliques:       linha.Cliques,
	}
}
