package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"solemart/models"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 30 * 24 * time.Hour

// RedisPersister stores each session's cart as a JSON array under
// cart:<sessionID>.
type RedisPersister struct {
	Conn *redis.Client
}

func (p *RedisPersister) Save(ctx context.Context, sessionID string, lines []models.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return p.Conn.Set(ctx, "cart:"+sessionID, data, cartTTL).Err()
}

func (p *RedisPersister) Load(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	data, err := p.Conn.Get(ctx, "cart:"+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// MemoryPersister keeps carts in process memory. Tests use it, and it is
// the fallback when Redis is not configured.
type MemoryPersister struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{carts: make(map[string][]byte)}
}

func (p *MemoryPersister) Save(ctx context.Context, sessionID string, lines []models.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.carts[sessionID] = data
	return nil
}

func (p *MemoryPersister) Load(ctx context.Context, sessionID string) ([]models.CartLine, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.carts[sessionID]
	if !ok {
		return nil, nil
	}
	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}
