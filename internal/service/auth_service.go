package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/polodash/api/internal/auth"
	"github.com/polodash/api/internal/repo"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido ou expirado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
	// ErrForbidden indica ausência de permissão.
	ErrForbidden = errors.New("acesso negado")
)

type authRepository interface {
	GetUsuarioByEmail(ctx context.Context, email string) (repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	RotateRefreshToken(ctx context.Context, oldHash string, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra regras de autenticação e sessões.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(r authRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Subject      uuid.UUID
	Papel        string
	Profile      Profile
}

// Profile descreve o colaborador autenticado.
type Profile struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Papel string `json:"papel"`
}

// Login autentica colaborador por e-mail e senha.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUsuarioByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.SenhaHash)
	if err != nil || !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	if !user.Ativo {
		return nil, ErrAccountDisabled
	}

	return s.issueTokens(ctx, user)
}

// Refresh troca refresh token válido por novo par de tokens (rotação).
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	hash := auth.HashRefreshToken(rawToken)

	token, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if token.Revogado || time.Now().After(token.Expiracao) {
		return nil, ErrRefreshInvalid
	}

	if s.redis != nil {
		if err := s.redis.Get(ctx, auth.RefreshRedisKey(hash)).Err(); errors.Is(err, redis.Nil) {
			return nil, ErrRefreshInvalid
		} else if err != nil {
			log.Warn().Err(err).Msg("refresh: redis indisponível, validando apenas pelo banco")
		}
	}

	user, err := s.repo.GetUsuarioByID(ctx, token.UsuarioID)
	if err != nil {
		return nil, ErrRefreshInvalid
	}
	if !user.Ativo {
		return nil, ErrAccountDisabled
	}

	return s.issueTokensRotacionando(ctx, user, hash)
}

// Logout revoga o refresh token da sessão corrente.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	hash := auth.HashRefreshToken(rawToken)
	return s.revoke(ctx, hash)
}

// Me devolve o perfil do colaborador autenticado.
func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (Profile, error) {
	user, err := s.repo.GetUsuarioByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return perfilDe(user), nil
}

func (s *AuthService) issueTokens(ctx context.Context, user repo.Usuario) (*LoginResult, error) {
	return s.issue(ctx, user, "")
}

// issueTokensRotacionando emite novo par de tokens revogando o refresh
// anterior na mesma transação.
func (s *AuthService) issueTokensRotacionando(ctx context.Context, user repo.Usuario, oldHash string) (*LoginResult, error) {
	return s.issue(ctx, user, oldHash)
}

func (s *AuthService) issue(ctx context.Context, user repo.Usuario, rotacionaHash string) (*LoginResult, error) {
	access, _, err := s.jwt.GenerateAccessToken(user.ID.String(), strings.ToLower(user.Papel))
	if err != nil {
		return nil, err
	}

	rawRefresh, hashRefresh, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.refreshTTL)
	params := repo.InsertRefreshTokenParams{
		UsuarioID: user.ID,
		TokenHash: hashRefresh,
		Expiracao: expiry,
	}

	if rotacionaHash != "" {
		if _, err := s.repo.RotateRefreshToken(ctx, rotacionaHash, params); err != nil {
			return nil, err
		}
		if s.redis != nil {
			_ = s.redis.Del(ctx, auth.RefreshRedisKey(rotacionaHash)).Err()
		}
	} else if _, err := s.repo.InsertRefreshToken(ctx, params); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, auth.RefreshRedisKey(hashRefresh), user.ID.String(), s.refreshTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("refresh: falha ao registrar sessão no redis")
		}
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: rawRefresh,
		Subject:      user.ID,
		Papel:        strings.ToLower(user.Papel),
		Profile:      perfilDe(user),
	}, nil
}

func (s *AuthService) revoke(ctx context.Context, hash string) error {
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return err
	}
	if s.redis != nil {
		_ = s.redis.Del(ctx, auth.RefreshRedisKey(hash)).Err()
	}
	return nil
}

func perfilDe(user repo.Usuario) Profile {
	return Profile{
		ID:    user.ID.String(),
		Nome:  user.Nome,
		Email: user.Email,
		Papel: strings.ToLower(user.Papel),
	}
}
