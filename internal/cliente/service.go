package cliente

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugInvalido = regexp.MustCompile(`[^a-z0-9-]`)

// Service contém as regras de cadastro de contas de cliente.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create valida e registra um novo cliente.
func (s *Service) Create(ctx context.Context, input CreateClienteInput) (Cliente, error) {
	input.Nome = strings.TrimSpace(input.Nome)
	if input.Nome == "" {
		return Cliente{}, errors.New("nome obrigatório")
	}

	input.Slug = normalizeSlug(input.Slug)
	if input.Slug == "" {
		input.Slug = normalizeSlug(input.Nome)
	}
	if input.Slug == "" {
		return Cliente{}, errors.New("slug obrigatório")
	}

	return s.repo.Create(ctx, input)
}

// Get busca um cliente pelo identificador.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Cliente, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve todos os clientes ativos.
func (s *Service) List(ctx context.Context) ([]Cliente, error) {
	return s.repo.List(ctx)
}

// Deactivate desativa a conta do cliente.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func normalizeSlug(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slugInvalido.ReplaceAllString(slug, "")
}
