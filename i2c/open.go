package i2c

import (
	"io"
	"strconv"
	"time"

	"github.com/go-daq/smbus"
	"github.com/pkg/errors"
	"gobot.io/x/gobot/sysfs"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Transport drivers accepted by Open.
const (
	DriverSysfs  = "sysfs"
	DriverPeriph = "periph"
	DriverSMBus  = "smbus"
)

// Open opens the named bus with the given driver. For sysfs the bus is a
// device path ("/dev/i2c-1"), for periph a registry name ("1", or "" for
// the first bus), for smbus a bus number. Every transaction on the returned
// device is bounded by timeout.
func Open(driver, bus string, timeout time.Duration) (Device, io.Closer, error) {
	switch driver {
	case DriverSysfs, "":
		dev, err := sysfs.NewI2cDevice(bus)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open sysfs device")
		}
		return WithTimeout(dev, timeout), dev, nil

	case DriverPeriph:
		if _, err := host.Init(); err != nil {
			return nil, nil, errors.Wrap(err, "init periph host")
		}
		b, err := i2creg.Open(bus)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open periph bus")
		}
		return WithTimeout(NewPeriphDevice(b), timeout), b, nil

	case DriverSMBus:
		n, err := strconv.Atoi(bus)
		if err != nil {
			return nil, nil, errors.Wrap(err, "parse smbus number")
		}
		conn, err := smbus.OpenFile(n)
		if err != nil {
			return nil, nil, errors.Wrap(err, "open smbus")
		}
		dev := NewSMBusDevice(conn)
		return WithTimeout(dev, timeout), dev, nil

	default:
		return nil, nil, errors.Errorf("unknown i2c driver %q", driver)
	}
}
