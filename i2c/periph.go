package i2c

import (
	"sync"

	"github.com/pkg/errors"
	pi2c "periph.io/x/conn/v3/i2c"
)

// PeriphDevice adapts a periph.io I²C bus to Device.
type PeriphDevice struct {
	mut sync.Mutex
	dev pi2c.Dev
}

func NewPeriphDevice(bus pi2c.Bus) *PeriphDevice {
	return &PeriphDevice{dev: pi2c.Dev{Bus: bus}}
}

func (d *PeriphDevice) SetAddress(address int) error {
	if address < 0 || address > 0x7f {
		return errors.Errorf("invalid 7 bit address 0x%x", address)
	}
	d.mut.Lock()
	d.dev.Addr = uint16(address)
	d.mut.Unlock()
	return nil
}

func (d *PeriphDevice) ReadByteData(reg uint8) (uint8, error) {
	d.mut.Lock()
	defer d.mut.Unlock()
	var buf [1]byte
	if err := d.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteByteData sends the register address followed by the data byte.
func (d *PeriphDevice) WriteByteData(reg, val uint8) error {
	d.mut.Lock()
	defer d.mut.Unlock()
	return d.dev.Tx([]byte{reg, val}, nil)
}
