package i2c

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// A Device is typically a *sysfs.I2cDevice (gobot.io/x/gobot/sysfs), a
// *PeriphDevice or a *SMBusDevice.
type Device interface {
	SetAddress(address int) error
	ReadByteData(reg uint8) (val uint8, err error)
	WriteByteData(reg, val uint8) error
}

// Reader runs a sequence of register transactions against a device. A
// failed transaction is recorded and the sequence carries on; failed reads
// yield zero.
type Reader struct {
	dev    Device
	errors error
}

func NewReader(dev Device) *Reader {
	return &Reader{dev: dev}
}

// Err returns all faults recorded since the last Reset, combined.
func (r *Reader) Err() error {
	return r.errors
}

// Faults returns the number of failed transactions since the last Reset.
func (r *Reader) Faults() int {
	return len(multierr.Errors(r.errors))
}

func (r *Reader) Reset() {
	r.errors = nil
}

func (r *Reader) fault(err error) {
	log.Debugln("register fault:", err)
	r.errors = multierr.Append(r.errors, err)
}

func (r *Reader) Byte(reg uint8) uint8 {
	val, err := r.dev.ReadByteData(reg)
	if err != nil {
		r.fault(errors.Wrapf(err, "read register 0x%02x", reg))
		return 0
	}
	return val
}

func (r *Reader) Int8(reg uint8) int8 {
	return int8(r.Byte(reg))
}

// Read reads each register in turn, in the order given.
func (r *Reader) Read(regs ...uint8) []byte {
	res := make([]byte, len(regs))
	for i, reg := range regs {
		res[i] = r.Byte(reg)
	}
	return res
}

// Uint16 reads a little endian register pair.
func (r *Reader) Uint16(lsb, msb uint8) uint16 {
	data := r.Read(lsb, msb)
	return unsigned(data[1], data[0])
}

// Int16 reads a little endian register pair as a two's complement value.
func (r *Reader) Int16(lsb, msb uint8) int16 {
	return int16(r.Uint16(lsb, msb))
}

func (r *Reader) Write(reg, val uint8) {
	if err := r.dev.WriteByteData(reg, val); err != nil {
		r.fault(errors.Wrapf(err, "write register 0x%02x", reg))
	}
}

// Modify reads reg, keeps the bits in keep, sets the bits in set and writes
// the result back. Nothing is written when the read fails.
func (r *Reader) Modify(reg, keep, set uint8) {
	val, err := r.dev.ReadByteData(reg)
	if err != nil {
		r.fault(errors.Wrapf(err, "read register 0x%02x", reg))
		return
	}
	r.Write(reg, modify(val, keep, set))
}

func modify(val, keep, set uint8) uint8 {
	return val&keep | set&^keep
}

func unsigned(msb, lsb byte) uint16 {
	return uint16(msb)<<8 | uint16(lsb)
}
