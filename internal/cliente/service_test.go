package cliente

import "testing"

func TestNormalizeSlug(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"Agencia Norte", "agencia-norte"},
		{"  LOJA-10  ", "loja-10"},
		{"Café & Cia", "caf--cia"},
		{"ja-normalizado", "ja-normalizado"},
		{"", ""},
	}

	for _, c := range casos {
		if got := normalizeSlug(c.entrada); got != c.esperado {
			t.Errorf("normalizeSlug(%q) = %q, esperado %q", c.entrada, got, c.esperado)
		}
	}
}
