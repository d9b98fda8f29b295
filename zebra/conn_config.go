package zebra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/go-zebra/logger"
)

// Default configuration values.
const (
	DefaultBaudRate = 115200

	DefaultCommandTimeout = 1 * time.Second
	DefaultFlashTimeout   = 3 * time.Second // flash erase stalls the unit
	DefaultWriteTimeout   = 1 * time.Second
	DefaultOpenTimeout    = 5 * time.Second
	DefaultCloseTimeout   = 3 * time.Second

	DefaultFastPollInterval = 200 * time.Millisecond
	DefaultSlowPollInterval = 10 * time.Second

	DefaultInterruptBufferSize = 4096
	DefaultEventQueueSize      = 1024
)

// Configuration bounds.
const (
	MinCommandTimeout = 200 * time.Millisecond
	MinFlashTimeout   = 1 * time.Second
	MinWriteTimeout   = 100 * time.Millisecond
	MinOpenTimeout    = 1 * time.Second

	MinFastPollInterval = 50 * time.Millisecond
	MinSlowPollInterval = 1 * time.Second

	MinInterruptBufferSize = 1024
	MinEventQueueSize      = 16
)

// Dialer opens the transport a Connection runs on. The default dialer opens
// the configured serial device; tests inject pipe-backed transports.
type Dialer func(ctx context.Context) (io.ReadWriteCloser, error)

// ConnectionConfig holds all configuration for a device connection.
type ConnectionConfig struct {
	// device is the serial device path, e.g. /dev/ttyUSB0. It may be empty
	// when a custom dialer is supplied.
	device   string
	baudRate int
	dialer   Dialer

	// Command protocol timeouts.
	commandTimeout time.Duration
	flashTimeout   time.Duration

	// Transport timeouts.
	writeTimeout time.Duration
	openTimeout  time.Duration
	closeTimeout time.Duration

	// Poll scheduler cadences.
	fastPollInterval time.Duration
	slowPollInterval time.Duration

	// Buffer sizes.
	interruptBufferSize int
	eventQueueSize      int

	logger logger.Logger
}

// NewConnectionConfig creates a new device connection configuration.
//
// device is the serial device path. opts are functional options applied in
// order; see the With* functions.
func NewConnectionConfig(device string, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		device:              device,
		baudRate:            DefaultBaudRate,
		commandTimeout:      DefaultCommandTimeout,
		flashTimeout:        DefaultFlashTimeout,
		writeTimeout:        DefaultWriteTimeout,
		openTimeout:         DefaultOpenTimeout,
		closeTimeout:        DefaultCloseTimeout,
		fastPollInterval:    DefaultFastPollInterval,
		slowPollInterval:    DefaultSlowPollInterval,
		interruptBufferSize: DefaultInterruptBufferSize,
		eventQueueSize:      DefaultEventQueueSize,
		logger:              logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.device == "" && cfg.dialer == nil {
		return nil, errors.New("zebra: device path is empty and no dialer is set")
	}

	if cfg.flashTimeout < cfg.commandTimeout {
		return nil, fmt.Errorf("zebra: flash timeout %v shorter than command timeout %v",
			cfg.flashTimeout, cfg.commandTimeout)
	}

	if cfg.dialer == nil {
		cfg.dialer = serialDialer(cfg.device, cfg.baudRate)
	}

	return cfg, nil
}

// --- Getters ---

// Device returns the configured serial device path.
func (cfg *ConnectionConfig) Device() string { return cfg.device }

// BaudRate returns the configured baud rate.
func (cfg *ConnectionConfig) BaudRate() int { return cfg.baudRate }

// CommandTimeout returns the reply timeout for register commands.
func (cfg *ConnectionConfig) CommandTimeout() time.Duration { return cfg.commandTimeout }

// FlashTimeout returns the reply timeout for flash save/load commands.
func (cfg *ConnectionConfig) FlashTimeout() time.Duration { return cfg.flashTimeout }

// WriteTimeout returns the transport write timeout.
func (cfg *ConnectionConfig) WriteTimeout() time.Duration { return cfg.writeTimeout }

// OpenTimeout returns the timeout for opening the device.
func (cfg *ConnectionConfig) OpenTimeout() time.Duration { return cfg.openTimeout }

// CloseTimeout returns the timeout for closing the connection.
func (cfg *ConnectionConfig) CloseTimeout() time.Duration { return cfg.closeTimeout }

// FastPollInterval returns the status register poll cadence.
func (cfg *ConnectionConfig) FastPollInterval() time.Duration { return cfg.fastPollInterval }

// SlowPollInterval returns the configuration register poll cadence.
func (cfg *ConnectionConfig) SlowPollInterval() time.Duration { return cfg.slowPollInterval }

// InterruptBufferSize returns the capacity of the interrupt line buffer.
func (cfg *ConnectionConfig) InterruptBufferSize() int { return cfg.interruptBufferSize }

// EventQueueSize returns the per-subscriber event queue capacity.
func (cfg *ConnectionConfig) EventQueueSize() int { return cfg.eventQueueSize }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// --- ConnOption ---

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithBaudRate sets the serial baud rate. The unit ships at 115200 and the
// framing is fixed at 8N1.
func WithBaudRate(baudRate int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if baudRate <= 0 {
			return fmt.Errorf("zebra: invalid baud rate %d", baudRate)
		}
		cfg.baudRate = baudRate

		return nil
	})
}

// WithDialer replaces the serial dialer with a custom transport factory.
// The device path is ignored when a dialer is set.
func WithDialer(dialer Dialer) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if dialer == nil {
			return errors.New("zebra: dialer must not be nil")
		}
		cfg.dialer = dialer

		return nil
	})
}

// WithCommandTimeout sets the reply timeout for register commands.
func WithCommandTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinCommandTimeout {
			return fmt.Errorf("zebra: command timeout %v below minimum %v", d, MinCommandTimeout)
		}
		cfg.commandTimeout = d

		return nil
	})
}

// WithFlashTimeout sets the reply timeout for the save/load flash commands.
// It must not be shorter than the command timeout.
func WithFlashTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinFlashTimeout {
			return fmt.Errorf("zebra: flash timeout %v below minimum %v", d, MinFlashTimeout)
		}
		cfg.flashTimeout = d

		return nil
	})
}

// WithWriteTimeout sets the transport write timeout. It only takes effect
// on transports that support write deadlines.
func WithWriteTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinWriteTimeout {
			return fmt.Errorf("zebra: write timeout %v below minimum %v", d, MinWriteTimeout)
		}
		cfg.writeTimeout = d

		return nil
	})
}

// WithOpenTimeout sets the timeout for opening the device.
func WithOpenTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinOpenTimeout {
			return fmt.Errorf("zebra: open timeout %v below minimum %v", d, MinOpenTimeout)
		}
		cfg.openTimeout = d

		return nil
	})
}

// WithCloseTimeout sets the timeout for closing the connection.
func WithCloseTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("zebra: close timeout must be positive")
		}
		cfg.closeTimeout = d

		return nil
	})
}

// WithFastPollInterval sets the status register poll cadence.
func WithFastPollInterval(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinFastPollInterval {
			return fmt.Errorf("zebra: fast poll interval %v below minimum %v", d, MinFastPollInterval)
		}
		cfg.fastPollInterval = d

		return nil
	})
}

// WithSlowPollInterval sets the configuration register poll cadence.
func WithSlowPollInterval(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < MinSlowPollInterval {
			return fmt.Errorf("zebra: slow poll interval %v below minimum %v", d, MinSlowPollInterval)
		}
		cfg.slowPollInterval = d

		return nil
	})
}

// WithInterruptBufferSize sets the capacity of the buffer between the reader
// task and the decoder. Interrupt lines arriving while the buffer is full
// are dropped and counted.
func WithInterruptBufferSize(size int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if size < MinInterruptBufferSize {
			return fmt.Errorf("zebra: interrupt buffer size %d below minimum %d", size, MinInterruptBufferSize)
		}
		cfg.interruptBufferSize = size

		return nil
	})
}

// WithEventQueueSize sets the per-subscriber event queue capacity.
func WithEventQueueSize(size int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if size < MinEventQueueSize {
			return fmt.Errorf("zebra: event queue size %d below minimum %d", size, MinEventQueueSize)
		}
		cfg.eventQueueSize = size

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("zebra: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
