package importer

// Resultado acumula o desfecho de uma importação de planilha. Falhas por
// linha nunca interrompem o lote: tudo é capturado aqui e devolvido ao
// chamador como um objeto completo.
type Resultado struct {
	Sucesso         bool     `json:"success"`
	Mensagem        string   `json:"message"`
	LinhasOK        int      `json:"processedRows"`
	LinhasComErro   int      `json:"errorRows"`
	MetricasCriadas int      `json:"createdMetrics"`
	Avisos          []string `json:"warnings"`
	Erros           []string `json:"errors"`
}

func novoResultado() *Resultado {
	return &Resultado{Avisos: []string{}, Erros: []string{}}
}

func resultadoFalha(mensagem string) *Resultado {
	r := novoResultado()
	r.Mensagem = mensagem
	r.Erros = append(r.Erros, mensagem)
	return r
}
