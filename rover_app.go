package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"rover-service/drive"

	"github.com/brutella/can"
	"github.com/go-redis/redis/v8"
	"go.bug.st/serial"
)

const (
	// SerialReadTimeout bounds every port read so the control loop keeps its
	// polling cadence even with no traffic on the link.
	SerialReadTimeout = 100 * time.Millisecond

	// InjectQueueSize is the depth of the Redis command injection queue.
	InjectQueueSize = 16
)

type RoverApp struct {
	log        *LeveledLogger
	redis      *redis.Client
	ipcRx      *IPCRx
	ipcTx      *IPCTx
	diag       *Diag
	port       serial.Port
	drive      drive.DriveInterface
	decoder    *drive.Decoder
	dispatcher *drive.Dispatcher
	inject     chan []byte
	mu         sync.Mutex
	ctx        context.Context
	cancel     context.CancelFunc

	lastState     drive.State
	lastDirective drive.MotionDirective
}

// writeDefaultRedisState writes default values to Redis
func (app *RoverApp) writeDefaultRedisState() {
	app.mu.Lock()
	defer app.mu.Unlock()

	status := RedisDriveStatus{
		State:     drive.StateRunning.String(),
		Directive: drive.DirectiveStop.String(),
		Speed:     app.dispatcher.Vehicle().Speed,
	}

	if err := app.ipcTx.SendDriveStatus(status); err != nil {
		app.log.Printf("Failed to send default drive status: %v", err)
	}

	if err := app.ipcTx.SendAngle(RedisAngleStatus{Angle: 0}); err != nil {
		app.log.Printf("Failed to send default angle: %v", err)
	}

	app.log.Printf("Default Redis state written")
}

func NewRoverApp(opts *Options) (*RoverApp, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &RoverApp{
		log:    NewLeveledLogger(log.New(log.Writer(), fmt.Sprintf("%s: ", ProjectName), log.LstdFlags), opts.LogLevel),
		ctx:    ctx,
		cancel: cancel,
	}

	// Initialize Redis client with timeouts
	app.redis = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.RedisServerAddr, opts.RedisServerPort),
		Password:     "",
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	// Test Redis connection with timeout
	connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
	defer connectCancel()

	app.log.Printf("Connecting to Redis at %s:%d...", opts.RedisServerAddr, opts.RedisServerPort)

	if err := app.redis.Ping(connectCtx).Err(); err != nil {
		app.log.Printf("Failed to connect to Redis: %v", err)
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	app.log.Printf("Successfully connected to Redis")

	app.ipcTx = NewIPCTx(app.log, app.redis)
	app.log.Printf("IPC TX component initialized")

	app.diag = NewDiag(app.log, app.redis)
	app.log.Printf("Diagnostics component initialized")

	app.dispatcher = drive.NewDispatcher(app.log, opts.Speed)
	app.lastState = app.dispatcher.State()
	app.lastDirective = drive.DirectiveStop
	app.log.Printf("Dispatcher initialized (speed=%d)", opts.Speed)

	// Write default values to Redis after ipcTx is initialized
	app.writeDefaultRedisState()

	// Start health check goroutine
	go app.redisHealthCheck()

	// Open the serial command link with a bounded read timeout
	port, err := serial.Open(opts.SerialDevice, &serial.Mode{BaudRate: opts.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial device %s: %v", opts.SerialDevice, err)
	}
	if err := port.SetReadTimeout(SerialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set serial read timeout: %v", err)
	}
	app.port = port
	app.log.Printf("Serial link open on %s at %d baud", opts.SerialDevice, opts.BaudRate)

	app.decoder = drive.NewDecoder(port, app.log)

	// Create and initialize the drive backend
	driveConfig := drive.DriveConfig{
		Logger:    app.log,
		Pins:      drive.DefaultPins(),
		CANDevice: opts.CANDevice,
	}

	if opts.DriveType == drive.DriveTypeCANBridge {
		bus, err := can.NewBusForInterfaceWithName(opts.CANDevice)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize CAN bus: %v", err)
		}
		driveConfig.CANBus = bus

		// Start CAN message publishing
		go func() {
			if err := bus.ConnectAndPublish(); err != nil {
				app.log.Printf("CAN bus publish error: %v", err)
			}
		}()
	}

	app.drive = drive.NewDrive(opts.DriveType)
	if app.drive == nil {
		return nil, fmt.Errorf("failed to create drive of type %v", opts.DriveType)
	}

	if err := app.drive.Initialize(ctx, driveConfig); err != nil {
		return nil, fmt.Errorf("failed to initialize drive: %v", err)
	}
	app.log.Printf("Drive component initialized - selected drive type: %v", opts.DriveType)

	app.inject = make(chan []byte, InjectQueueSize)

	app.ipcRx = NewIPCRx(app.log, app.redis, app.inject)
	if app.ipcRx == nil {
		return nil, fmt.Errorf("failed to initialize IPC RX")
	}
	app.log.Printf("IPC RX component initialized")

	go app.controlLoop()

	return app, nil
}

func (app *RoverApp) redisHealthCheck() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(app.ctx, 2*time.Second)
			if err := app.redis.Ping(ctx).Err(); err != nil {
				app.log.Printf("Redis health check failed: %v", err)
			}
			cancel()
		}
	}
}

func (app *RoverApp) Destroy() {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.log.Printf("Shutting down rover application...")

	if app.cancel != nil {
		app.cancel()
	}

	if app.ipcRx != nil {
		app.ipcRx.Destroy()
		app.log.Printf("IPC RX shutdown complete")
	}

	if app.port != nil {
		if err := app.port.Close(); err != nil {
			app.log.Printf("Error closing serial port: %v", err)
		} else {
			app.log.Printf("Serial port closed")
		}
	}

	if app.drive != nil {
		app.drive.Cleanup()
		app.log.Printf("Drive shutdown complete")
	}

	if app.diag != nil {
		app.diag.Destroy()
		app.log.Printf("Diagnostics shutdown complete")
	}

	if app.ipcTx != nil {
		app.ipcTx.Destroy()
		app.log.Printf("IPC TX shutdown complete")
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.Printf("Error closing Redis connection: %v", err)
		} else {
			app.log.Printf("Redis connection closed")
		}
	}

	app.log.Printf("Rover application shutdown complete")
}
