package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)
	sub := uuid.NewString()

	token, jti, err := mgr.GenerateAccessToken(sub, "gestor")
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}
	if jti == "" {
		t.Error("jti não deveria ser vazio")
	}

	claims, err := mgr.ParseAndValidate(token)
	if err != nil {
		t.Fatalf("validar token: %v", err)
	}
	if claims.Subject != sub {
		t.Errorf("subject = %q, esperado %q", claims.Subject, sub)
	}
	if claims.Papel != "gestor" {
		t.Errorf("papel = %q, esperado gestor", claims.Papel)
	}
}

func TestJWTSegredoErrado(t *testing.T) {
	mgr := NewJWTManager("segredo-de-teste-com-32-caracteres!", time.Minute)
	outro := NewJWTManager("outro-segredo-tambem-com-32-chars!!", time.Minute)

	token, _, err := mgr.GenerateAccessToken(uuid.NewString(), "atendente")
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}

	if _, err := outro.ParseAndValidate(token); err == nil {
		t.Error("token assinado com outro segredo deveria ser rejeitado")
	}
}

func TestJWTExpirado(t *testing.T) {
	mgr := NewJWTManager("segredo-de-teste-com-32-caracteres!", -time.Minute)

	token, _, err := mgr.GenerateAccessToken(uuid.NewString(), "atendente")
	if err != nil {
		t.Fatalf("gerar token: %v", err)
	}

	if _, err := mgr.ParseAndValidate(token); err == nil {
		t.Error("token expirado deveria ser rejeitado")
	}
}

func TestHashEVerify(t *testing.T) {
	hash, err := Hash("senha-forte-123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "senha-forte-123" {
		t.Fatal("hash não pode ser a senha em claro")
	}

	ok, err := Verify("senha-forte-123", hash)
	if err != nil || !ok {
		t.Errorf("senha correta deveria verificar (ok=%v, err=%v)", ok, err)
	}

	ok, err = Verify("senha-errada", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Error("senha errada não pode verificar")
	}
}

func TestRefreshToken(t *testing.T) {
	raw, hash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("gerar refresh: %v", err)
	}
	if raw == "" || hash == "" || raw == hash {
		t.Fatalf("token e hash inválidos: %q / %q", raw, hash)
	}

	if HashRefreshToken(raw) != hash {
		t.Error("hash do token deveria ser determinístico")
	}

	outroRaw, outroHash, err := GenerateRefreshToken()
	if err != nil {
		t.Fatalf("gerar refresh: %v", err)
	}
	if outroRaw == raw || outroHash == hash {
		t.Error("tokens gerados em sequência não podem colidir")
	}
}
