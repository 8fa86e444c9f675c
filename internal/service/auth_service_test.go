package service_test

import (
	"context"
	"errors"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Activo {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func buildAuthSvc(t *testing.T) (service.AuthService, *stubUsuarioRepo, *model.Usuario) {
	t.Helper()
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.Usuario{
		ID:           uuid.New(),
		Username:     "cajero1",
		Nombre:       "Cajero Uno",
		PasswordHash: string(hash),
		Rol:          "cajero",
		Activo:       true,
	}
	repo.usuarios[user.ID] = user
	return service.NewAuthService(repo, cfg), repo, user
}

func TestLogin_OK(t *testing.T) {
	svc, _, _ := buildAuthSvc(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "cajero", resp.User.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, _, _ := buildAuthSvc(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "otra"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	svc, repo, user := buildAuthSvc(t)
	repo.usuarios[user.ID].Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	assert.ErrorContains(t, err, "credenciales invalidas")
}

func TestRefresh_RotaTokens(t *testing.T) {
	svc, _, _ := buildAuthSvc(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "cajero1", resp.User.Username)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _, _ := buildAuthSvc(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorContains(t, err, "invalido")
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	svc, repo, user := buildAuthSvc(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "secreta123"})
	require.NoError(t, err)

	repo.usuarios[user.ID].Activo = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "inactivo")
}

func TestCrearUsuario_HasheaPassword(t *testing.T) {
	svc, repo, _ := buildAuthSvc(t)

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "super1",
		Nombre:   "Supervisora",
		Password: "clave-larga",
		Rol:      "supervisor",
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)

	stored, err := repo.FindByUsername(context.Background(), "super1")
	require.NoError(t, err)
	assert.NotEqual(t, "clave-larga", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("clave-larga")))
}
