package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Is(t *testing.T) {
	expired := fmt.Errorf("ventas: %w", &APIError{Kind: KindSessionExpired, Status: 401})
	assert.True(t, errors.Is(expired, ErrSessionExpired))
	assert.False(t, errors.Is(expired, ErrNotFound))

	notFound := &APIError{Kind: KindNotFound, Status: 404}
	assert.True(t, errors.Is(notFound, ErrNotFound))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "stock no disponible", UserMessage(fmt.Errorf("x: %w", &APIError{Kind: KindUpstream, Status: 500, Message: "stock no disponible"})))
	assert.Equal(t, ErrNoConnection.Error(), UserMessage(fmt.Errorf("productos: %w", ErrNoConnection)))
	assert.Equal(t, MsgFallback, UserMessage(errors.New("pgx: conn closed")))
	assert.Empty(t, UserMessage(nil))
}
