package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/polodash/api/internal/auth"
	"github.com/polodash/api/internal/db"
	"github.com/polodash/api/internal/repo"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatal().Msg("DB_DSN não definido")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com o banco falhou")
	}
	defer pool.Close()

	queries := repo.New(pool)

	switch os.Args[1] {
	case "create":
		runCreate(ctx, queries, os.Args[2:])
	case "list":
		runList(ctx, queries)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: usuario <create|list> [flags]")
	fmt.Fprintln(os.Stderr, "  create --nome NOME --email EMAIL --senha SENHA --papel PAPEL [--gestor UUID]")
	fmt.Fprintln(os.Stderr, "  list")
}

func runCreate(ctx context.Context, queries *repo.Queries, args []string) {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	nome := fs.String("nome", "", "nome completo do colaborador")
	email := fs.String("email", "", "e-mail de acesso")
	senha := fs.String("senha", "", "senha inicial")
	papel := fs.String("papel", repo.PapelAtendente, "papel: atendente, gestor, gerente ou cio")
	gestor := fs.String("gestor", "", "uuid do gestor direto (opcional)")
	_ = fs.Parse(args)

	if *nome == "" || *email == "" || *senha == "" {
		log.Fatal().Msg("--nome, --email e --senha são obrigatórios")
	}
	if !repo.PapelValido(*papel) {
		log.Fatal().Str("papel", *papel).Msg("papel desconhecido")
	}

	var gestorID *uuid.UUID
	if *gestor != "" {
		id, err := uuid.Parse(*gestor)
		if err != nil {
			log.Fatal().Err(err).Msg("--gestor inválido")
		}
		gestorID = &id
	}

	hash, err := auth.Hash(*senha)
	if err != nil {
		log.Fatal().Err(err).Msg("hash da senha falhou")
	}

	criado, err := queries.CreateUsuario(ctx, repo.Usuario{
		ID:        uuid.New(),
		Nome:      *nome,
		Email:     *email,
		SenhaHash: hash,
		Papel:     *papel,
		GestorID:  gestorID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("criação de usuário falhou")
	}

	criado.SenhaHash = ""
	printJSON(criado)
}

func runList(ctx context.Context, queries *repo.Queries) {
	usuarios, err := queries.ListUsuariosAtivos(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("listagem de usuários falhou")
	}

	for i := range usuarios {
		usuarios[i].SenhaHash = ""
	}
	printJSON(usuarios)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("serialização falhou")
	}
	fmt.Println(string(out))
}
