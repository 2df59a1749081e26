package i2c

import (
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout bounds a single register transaction.
const DefaultTimeout = time.Second

var ErrTimeout = errors.New("i2c transaction timed out")

type timeoutDevice struct {
	dev     Device
	timeout time.Duration
	// Holds a token while a transaction runs on dev, including one that
	// was abandoned after its timeout.
	busy chan struct{}
}

// WithTimeout returns a Device that gives up on any transaction taking
// longer than d, including time spent waiting for an abandoned
// transaction to finish. Transactions never overlap on the underlying
// device.
func WithTimeout(dev Device, d time.Duration) Device {
	if d <= 0 {
		return dev
	}
	return &timeoutDevice{dev: dev, timeout: d, busy: make(chan struct{}, 1)}
}

func (d *timeoutDevice) SetAddress(address int) error {
	return d.do(func() error {
		return d.dev.SetAddress(address)
	})
}

func (d *timeoutDevice) ReadByteData(reg uint8) (uint8, error) {
	res := make(chan uint8, 1)
	err := d.do(func() error {
		val, err := d.dev.ReadByteData(reg)
		res <- val
		return err
	})
	if err != nil {
		return 0, err
	}
	return <-res, nil
}

func (d *timeoutDevice) WriteByteData(reg, val uint8) error {
	return d.do(func() error {
		return d.dev.WriteByteData(reg, val)
	})
}

func (d *timeoutDevice) do(fn func() error) error {
	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case d.busy <- struct{}{}:
	case <-timer.C:
		return ErrTimeout
	}

	res := make(chan error, 1)
	go func() {
		defer func() { <-d.busy }()
		res <- fn()
	}()

	select {
	case err := <-res:
		return err
	case <-timer.C:
		return ErrTimeout
	}
}
