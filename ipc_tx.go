package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

type IPCTx struct {
	log   *LeveledLogger
	redis *redis.Client
	mu    sync.Mutex
	ctx   context.Context
}

func NewIPCTx(logger *LeveledLogger, redis *redis.Client) *IPCTx {
	return &IPCTx{
		log:   logger,
		redis: redis,
		ctx:   context.Background(),
	}
}

func (tx *IPCTx) Destroy() {}

func (tx *IPCTx) SendDriveStatus(data RedisDriveStatus) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	pipe := tx.redis.Pipeline()

	pipe.HSet(tx.ctx, "rover", map[string]interface{}{
		"state":     data.State,
		"directive": data.Directive,
		"speed":     data.Speed,
	})

	// Notify listeners of drive state changes
	pipe.Publish(tx.ctx, "rover state", nil)

	_, err := pipe.Exec(tx.ctx)
	if err != nil {
		return fmt.Errorf("failed to send drive status: %v", err)
	}

	return nil
}

func (tx *IPCTx) SendAngle(data RedisAngleStatus) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	pipe := tx.redis.Pipeline()

	pipe.HSet(tx.ctx, "rover",
		"angle", data.Angle,
	)

	// Also publish angle updates
	pipe.Publish(tx.ctx, "rover angle", nil)

	_, err := pipe.Exec(tx.ctx)
	if err != nil {
		return fmt.Errorf("failed to send angle: %v", err)
	}

	return nil
}
