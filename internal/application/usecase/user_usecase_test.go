package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

func TestUsers_CrearInvalidaListado(t *testing.T) {
	api := newFakeBackend()
	api.users = []entity.User{{ID: "7", Email: "admin@tienda.cl", Role: "admin"}}
	uc := NewUserUseCase(api, newQuery())
	s := sessionWithConn()
	ctx := context.Background()

	list, err := uc.List(ctx, s, false)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Create(ctx, s, dto.CreateUserRequest{Email: " nuevo@tienda.cl ", Name: "Nuevo", Password: "secreta1", Role: "operador"})
	require.NoError(t, err)

	list, err = uc.List(ctx, s, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "nuevo@tienda.cl", list[1].Email)
	assert.Equal(t, 2, api.count("users"))
}

func TestUsers_Validaciones(t *testing.T) {
	api := newFakeBackend()
	uc := NewUserUseCase(api, newQuery())
	s := sessionWithConn()

	_, err := uc.Create(context.Background(), s, dto.CreateUserRequest{Email: "x@y.cl"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(context.Background(), s, " ", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.Delete(context.Background(), s, s.UserID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Zero(t, api.count("delete_user"))

	require.NoError(t, uc.Delete(context.Background(), s, "9"))
	assert.Equal(t, "9", api.deletedUser)
}

func TestUsers_UpdateSoloCamposInformados(t *testing.T) {
	api := newFakeBackend()
	uc := NewUserUseCase(api, newQuery())
	role := "lector"

	u, err := uc.Update(context.Background(), sessionWithConn(), "9", dto.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "lector", u.Role)
	assert.Empty(t, u.Name)
}
