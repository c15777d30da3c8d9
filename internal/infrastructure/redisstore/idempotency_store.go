package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/jhoicas/stock-rentals-api/internal/application/stock"
	"github.com/jhoicas/stock-rentals-api/internal/domain"
)

var _ stock.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	idempotencyKeyPrefix = "stockout:idem:"
	idempotencyKeyTTL    = 24 * time.Hour
)

// IdempotencyStore guarda claves de idempotencia en Redis con SetNX.
// Una salida de stock reintentada con la misma clave no se aplica dos veces.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore construye el store sobre un cliente Redis.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// SetIdempotency registra la clave si no existía. Devuelve false si la clave
// ya estaba registrada (petición repetida). Un Redis caído se reporta como
// ErrUnavailable: preferimos rechazar la petición a aplicarla dos veces.
func (s *IdempotencyStore) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: redis: %v", domain.ErrUnavailable, err)
	}
	return ok, nil
}
