package i2c

import (
	"github.com/go-daq/smbus"
	"github.com/pkg/errors"
)

// SMBusDevice adapts a github.com/go-daq/smbus connection to Device.
type SMBusDevice struct {
	conn *smbus.Conn
	addr uint8
}

func NewSMBusDevice(conn *smbus.Conn) *SMBusDevice {
	return &SMBusDevice{conn: conn}
}

func (d *SMBusDevice) SetAddress(address int) error {
	if address < 0 || address > 0x7f {
		return errors.Errorf("invalid 7 bit address 0x%x", address)
	}
	d.addr = uint8(address)
	return d.conn.SetAddr(d.addr)
}

func (d *SMBusDevice) ReadByteData(reg uint8) (uint8, error) {
	return d.conn.ReadReg(d.addr, reg)
}

func (d *SMBusDevice) WriteByteData(reg, val uint8) error {
	return d.conn.WriteReg(d.addr, reg, val)
}

func (d *SMBusDevice) Close() error {
	return d.conn.Close()
}
