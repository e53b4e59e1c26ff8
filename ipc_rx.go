package main

import (
	"context"
	"sync"

	"github.com/go-redis/redis/v8"
)

const IpcRxCommandChannel = "rover:command"

// IPCRx subscribes to the command channel and injects payloads into the
// control loop's queue. The loop stays the sole owner of vehicle state; this
// component only feeds it bytes.
type IPCRx struct {
	log    *LeveledLogger
	redis  *redis.Client
	inject chan<- []byte
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc

	commandSubscription *redis.PubSub
}

func NewIPCRx(logger *LeveledLogger, redis *redis.Client, inject chan<- []byte) *IPCRx {
	ctx, cancel := context.WithCancel(context.Background())

	rx := &IPCRx{
		log:    logger,
		redis:  redis,
		inject: inject,
		ctx:    ctx,
		cancel: cancel,
	}

	rx.commandSubscription = rx.redis.Subscribe(rx.ctx, IpcRxCommandChannel)
	go rx.handleCommandSubscription()

	return rx
}

func (rx *IPCRx) handleCommandSubscription() {
	rx.log.Info("Starting command subscription handler")

	for {
		msg, err := rx.commandSubscription.Receive(rx.ctx)
		if err != nil {
			if err == context.Canceled {
				return
			}
			// Check for closed client - panic to trigger systemd restart
			if err.Error() == "redis: client is closed" {
				rx.log.Error("Redis connection lost on command subscription - restarting service")
				panic("Redis disconnected")
			}
			rx.log.Error("Command subscription error: %v", err)
			continue
		}

		switch m := msg.(type) {
		case *redis.Message:
			rx.log.Debug("Command message received: channel=%s, payload=%s", m.Channel, m.Payload)

			select {
			case rx.inject <- []byte(m.Payload):
			default:
				rx.log.Warn("Command queue full, dropping injected payload %q", m.Payload)
			}

		case *redis.Subscription:
			rx.log.Debug("Command subscription event: %s %s", m.Channel, m.Kind)
		}
	}
}

func (rx *IPCRx) Destroy() {
	rx.mu.Lock()
	defer rx.mu.Unlock()

	if rx.cancel != nil {
		rx.cancel()
	}

	if rx.commandSubscription != nil {
		rx.commandSubscription.Close()
	}
}
