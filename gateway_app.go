package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/brutella/can"
	"github.com/go-redis/redis/v8"

	"dbw-service/dbw"
)

type GatewayApp struct {
	log     *LeveledLogger
	redis   *redis.Client
	gateway *dbw.Gateway
	ipcRx   *IPCRx
	ipcTx   *IPCTx
	diag    *Diag
	bus     *can.Bus
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewGatewayApp(opts *Options) (*GatewayApp, error) {
	ctx, cancel := context.WithCancel(context.Background())

	app := &GatewayApp{
		log: NewLeveledLogger(
			log.New(log.Writer(), fmt.Sprintf("%s: ", ProjectName), log.LstdFlags),
			opts.LogLevel,
		),
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

	app.log.Info("Connecting to Redis at %s:%d...", opts.RedisServerAddr, opts.RedisServerPort)

	if err := app.redis.Ping(connectCtx).Err(); err != nil {
		app.log.Error("Failed to connect to Redis: %v", err)
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}
	app.log.Info("Successfully connected to Redis")

	app.ipcTx = NewIPCTx(app.log, app.redis)
	app.log.Info("IPC TX component initialized")

	app.diag = NewDiag(app.log, app.redis)
	app.log.Info("Diagnostics component initialized")

	// Start health check goroutine
	go app.redisHealthCheck()

	// Initialize CAN bus
	bus, err := can.NewBusForInterfaceWithName(opts.CANDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CAN bus: %v", err)
	}
	app.bus = bus

	app.gateway, err = dbw.NewGateway(dbw.Config{
		Logger:               app.log,
		Frames:               bus,
		Reports:              app.ipcTx,
		Events:               app.diag,
		FrameID:              opts.FrameID,
		Buttons:              opts.Buttons,
		AckermannWheelbase:   opts.AckermannWheelbase,
		AckermannTrack:       opts.AckermannTrack,
		SteeringRatio:        opts.SteeringRatio,
		MaxSteerAngle:        opts.MaxSteerAngle,
		MaxDumpAngle:         opts.MaxDumpAngle,
		MaxArticulationAngle: opts.MaxArticulationAngle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway: %v", err)
	}
	app.log.Info("Gateway component initialized on %s", opts.CANDevice)

	// Seed Redis with the disabled state before any frames arrive
	app.gateway.PublishInitialState()

	// Create frame handler for CAN messages
	handler := &frameHandler{app: app}
	bus.Subscribe(handler)

	// Start CAN message publishing
	go func() {
		if err := bus.ConnectAndPublish(); err != nil {
			app.log.Error("CAN bus publish error: %v", err)
		}
	}()

	go app.gateway.RunFailsafe(ctx)

	app.ipcRx = NewIPCRx(app.log, app.redis, app.gateway)
	app.log.Info("IPC RX component initialized")

	return app, nil
}

// Frame handler for CAN messages
type frameHandler struct {
	app *GatewayApp
}

func (h *frameHandler) Handle(frame can.Frame) {
	if err := h.app.gateway.HandleFrame(frame); err != nil {
		h.app.log.Error("Error handling CAN frame: %v", err)
	}
}

func (app *GatewayApp) redisHealthCheck() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-app.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(app.ctx, 2*time.Second)
			if err := app.redis.Ping(ctx).Err(); err != nil {
				app.log.Error("Redis health check failed: %v", err)
			}
			cancel()
		}
	}
}

func (app *GatewayApp) Destroy() {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.log.Info("Shutting down gateway application...")

	if app.cancel != nil {
		app.cancel()
	}

	if app.ipcRx != nil {
		app.ipcRx.Destroy()
		app.log.Info("IPC RX shutdown complete")
	}

	if app.bus != nil {
		if err := app.bus.Disconnect(); err != nil {
			app.log.Error("Error disconnecting CAN bus: %v", err)
		} else {
			app.log.Info("CAN bus disconnected")
		}
	}

	if app.diag != nil {
		app.diag.Destroy()
		app.log.Info("Diagnostics shutdown complete")
	}

	if app.ipcTx != nil {
		app.ipcTx.Destroy()
		app.log.Info("IPC TX shutdown complete")
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.log.Error("Error closing Redis connection: %v", err)
		} else {
			app.log.Info("Redis connection closed")
		}
	}

	app.log.Info("Gateway application shutdown complete")
}
