package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/meli-sync-admin/internal/application/dto"
	"github.com/jhoicas/meli-sync-admin/internal/domain"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
	"github.com/jhoicas/meli-sync-admin/internal/domain/repository"
)

// DefaultSearchHistoryMax tamaño por defecto del historial por vista.
const DefaultSearchHistoryMax = 10

var scopePattern = regexp.MustCompile(`^[a-z0-9_-]{1,40}$`)

// SearchHistoryUseCase búsquedas recientes por usuario y vista (productos, stock, ventas...).
type SearchHistoryUseCase struct {
	repo     repository.SearchHistoryRepository
	maxItems int
	now      func() time.Time
}

// NewSearchHistoryUseCase construye el caso de uso. maxItems <= 0 usa DefaultSearchHistoryMax.
func NewSearchHistoryUseCase(repo repository.SearchHistoryRepository, maxItems int) *SearchHistoryUseCase {
	if maxItems <= 0 {
		maxItems = DefaultSearchHistoryMax
	}
	return &SearchHistoryUseCase{repo: repo, maxItems: maxItems, now: time.Now}
}

// List historial de la vista, más reciente primero.
func (uc *SearchHistoryUseCase) List(ctx context.Context, s *entity.Session, scope string) ([]entity.SearchEntry, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, s.UserID, scope)
	if err != nil {
		return nil, fmt.Errorf("historial %s: %w", scope, err)
	}
	return list, nil
}

// Record agrega una búsqueda al frente del historial: sin duplicados por clave y a lo sumo maxItems.
func (uc *SearchHistoryUseCase) Record(ctx context.Context, s *entity.Session, scope string, in dto.RecordSearchRequest) ([]entity.SearchEntry, error) {
	if err := validScope(scope); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(in.Key)
	if key == "" {
		return nil, fmt.Errorf("%w: la búsqueda está vacía", domain.ErrInvalidInput)
	}
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = key
	}

	entry := entity.SearchEntry{Key: key, Label: label, UsedAt: uc.now()}
	next, err := uc.repo.Push(ctx, s.UserID, scope, entry, uc.maxItems)
	if err != nil {
		return nil, fmt.Errorf("guardar historial %s: %w", scope, err)
	}
	return next, nil
}

// Clear vacía el historial de la vista.
func (uc *SearchHistoryUseCase) Clear(ctx context.Context, s *entity.Session, scope string) error {
	if err := validScope(scope); err != nil {
		return err
	}
	return uc.repo.Clear(ctx, s.UserID, scope)
}

func validScope(scope string) error {
	if !scopePattern.MatchString(scope) {
		return fmt.Errorf("%w: vista %q", domain.ErrInvalidInput, scope)
	}
	return nil
}
