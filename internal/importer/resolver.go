package importer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/polodash/api/internal/repo"
)

// Diretorio resolve nomes livres de gestor/atendente para usuários conhecidos.
// A tabela é montada uma única vez por importação e é somente leitura depois.
type Diretorio struct {
	porNome map[string]uuid.UUID
	nomes   map[uuid.UUID]string
}

// NovoDiretorio indexa os usuários por nome completo minúsculo e também pelo
// primeiro nome. Nomes duplicados resolvem para o último usuário da lista
// (a ordem de entrada é estável: crescente por criação).
func NovoDiretorio(usuarios []repo.Usuario) *Diretorio {
	d := &Diretorio{
		porNome: make(map[string]uuid.UUID, len(usuarios)*2),
		nomes:   make(map[uuid.UUID]string, len(usuarios)),
	}

	for _, u := range usuarios {
		nome := strings.ToLower(strings.TrimSpace(u.Nome))
		if nome == "" {
			continue
		}
		d.porNome[nome] = u.ID
		if primeiro := strings.Fields(nome); len(primeiro) > 0 {
			d.porNome[primeiro[0]] = u.ID
		}
		d.nomes[u.ID] = u.Nome
	}

	return d
}

// Resolver devolve o usuário correspondente ao nome, se houver. A busca por
// primeiro nome já está embutida na tabela, então um único lookup basta.
func (d *Diretorio) Resolver(nome string) (uuid.UUID, bool) {
	chave := strings.ToLower(strings.TrimSpace(nome))
	if chave == "" {
		return uuid.Nil, false
	}
	id, ok := d.porNome[chave]
	return id, ok
}

// Nome devolve o nome cadastrado do usuário (vazio se desconhecido).
func (d *Diretorio) Nome(id uuid.UUID) string {
	return d.nomes[id]
}
