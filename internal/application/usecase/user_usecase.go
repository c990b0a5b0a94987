package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/application/ports"
	"github.com/jhoicas/meli-sync-admin/internal/application/query"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// UserUseCase administración de usuarios y roles del backend. Solo rol admin (lo exige el router).
type UserUseCase struct {
	api ports.UserAPI
	q   *query.Client
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(api ports.UserAPI, q *query.Client) *UserUseCase {
	return &UserUseCase{api: api, q: q}
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, s *entity.Session, refresh bool) ([]entity.User, error) {
	res, err := query.Fetch(ctx, uc.q, query.Key{Scope: scopeAdmin, Resource: resUsers}, func(ctx context.Context) ([]entity.User, error) {
		list, err := uc.api.Users(ctx, s.BackendToken)
		if list == nil && err == nil {
			list = []entity.User{}
		}
		return list, err
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	return res.Data, nil
}

// Create crea un usuario.
func (uc *UserUseCase) Create(ctx context.Context, s *entity.Session, in dto.CreateUserRequest) (*entity.User, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	u, err := uc.api.CreateUser(ctx, s.BackendToken, ports.UserInput{
		Email:    strings.TrimSpace(in.Email),
		Name:     strings.TrimSpace(in.Name),
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("crear usuario: %w", err)
	}
	uc.invalidate(ctx)
	return u, nil
}

// Update modifica un usuario; solo se envían los campos informados.
func (uc *UserUseCase) Update(ctx context.Context, s *entity.Session, id string, in dto.UpdateUserRequest) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id de usuario vacío", domain.ErrInvalidInput)
	}
	var ui ports.UserInput
	if in.Email != nil {
		ui.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		ui.Name = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		ui.Password = *in.Password
	}
	if in.Role != nil {
		ui.Role = *in.Role
	}
	ui.Active = in.Active

	u, err := uc.api.UpdateUser(ctx, s.BackendToken, id, ui)
	if err != nil {
		return nil, fmt.Errorf("actualizar usuario %s: %w", id, err)
	}
	uc.invalidate(ctx)
	return u, nil
}

// Delete elimina un usuario. No permite eliminar al usuario de la propia sesión.
func (uc *UserUseCase) Delete(ctx context.Context, s *entity.Session, id string) error {
	if id == s.UserID {
		return fmt.Errorf("%w: no puede eliminar su propio usuario", domain.ErrForbidden)
	}
	if err := uc.api.DeleteUser(ctx, s.BackendToken, id); err != nil {
		return fmt.Errorf("eliminar usuario %s: %w", id, err)
	}
	uc.invalidate(ctx)
	return nil
}

// Roles lista los roles disponibles.
func (uc *UserUseCase) Roles(ctx context.Context, s *entity.Session, refresh bool) ([]entity.Role, error) {
	res, err := query.Fetch(ctx, uc.q, query.Key{Scope: scopeAdmin, Resource: resRoles}, func(ctx context.Context) ([]entity.Role, error) {
		list, err := uc.api.Roles(ctx, s.BackendToken)
		if list == nil && err == nil {
			list = []entity.Role{}
		}
		return list, err
	}, fetchOpts(refresh)...)
	if err != nil {
		return nil, fmt.Errorf("listar roles: %w", err)
	}
	return res.Data, nil
}

func (uc *UserUseCase) invalidate(ctx context.Context) {
	_ = uc.q.Invalidate(ctx, query.Key{Scope: scopeAdmin, Resource: resUsers}.Prefix())
}
