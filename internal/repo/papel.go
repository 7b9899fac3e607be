package repo

import "strings"

// Papéis da hierarquia da agência, do menor para o maior nível de acesso.
const (
	PapelAtendente = "atendente"
	PapelGestor    = "gestor"
	PapelGerente   = "gerente"
	PapelCIO       = "cio"
)

var nivelPapel = map[string]int{
	PapelAtendente: 1,
	PapelGestor:    2,
	PapelGerente:   3,
	PapelCIO:       4,
}

// PapelValido indica se o papel pertence ao conjunto fechado.
func PapelValido(papel string) bool {
	_, ok := nivelPapel[strings.ToLower(papel)]
	return ok
}

// NivelPapel retorna o nível hierárquico do papel (0 para desconhecido).
func NivelPapel(papel string) int {
	return nivelPapel[strings.ToLower(papel)]
}

// PapelGerencia indica se o papel lidera equipe (gestor ou acima).
func PapelGerencia(papel string) bool {
	return NivelPapel(papel) >= nivelPapel[PapelGestor]
}
