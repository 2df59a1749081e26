// Package bme688 drives the Bosch BME688 temperature, pressure, humidity
// and gas sensor in forced mode over I²C.
//
// A measurement cycle must be run in order: ForceMeasurement,
// ReadTemperature, ReadPressure and ReadHumidity with that temperature,
// ConfigureHeater, ReadGas. Measure does all of it. A BME688 must not be
// used from more than one goroutine at a time.
package bme688

import (
	"fmt"
	"time"

	"github.com/calmh/boatenv/i2c"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	// Gas plate target temperature, °C.
	HeaterTemperature float64
	// How long the plate is held at target before the gas conversion.
	HeaterDuration time.Duration
	// Settle time after triggering a measurement.
	MeasureDelay time.Duration
	// Settle time after configuring the heater.
	HeaterDelay time.Duration
	// When nonzero, the measuring status bit is polled for at most this
	// long instead of sleeping MeasureDelay.
	PollTimeout time.Duration
}

var DefaultConfig = Config{
	HeaterTemperature: 250,
	HeaterDuration:    50 * time.Millisecond,
	MeasureDelay:      10 * time.Millisecond,
	HeaterDelay:       300 * time.Millisecond,
}

const pollInterval = time.Millisecond

var errBusy = errors.New("measurement still in progress")

// IdentityError is returned by Init when the variant ID register does not
// hold the BME688 value, meaning a different device or bad wiring.
type IdentityError struct {
	Got uint8
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("unexpected variant id 0x%02x (expected 0x%02x)", e.Got, variantID)
}

type BME688 struct {
	device i2c.Device
	addr   int
	cfg    Config
	cal    Calibration
	last   Reading
}

func New(dev i2c.Device, addr int, cfg Config) *BME688 {
	return &BME688{device: dev, addr: addr, cfg: cfg}
}

// Init verifies the device identity, programs forced mode, 8x oversampling
// on all channels and the IIR filter, then reads the calibration
// coefficients. It returns the number of register transactions that
// failed; any nonzero count means the calibration can't be trusted. The
// error is set only when the device could not be identified, in which case
// nothing else is attempted.
func (s *BME688) Init() (int, error) {
	s.last = Reading{}

	if err := s.device.SetAddress(s.addr); err != nil {
		return 0, errors.Wrap(err, "set device address")
	}

	r := i2c.NewReader(s.device)

	id := r.Byte(regVariantID)
	if err := r.Err(); err != nil {
		return r.Faults(), errors.Wrap(err, "read variant id")
	}
	if id != variantID {
		return r.Faults(), &IdentityError{Got: id}
	}

	r.Modify(regCtrlMeas, ^uint8(ctrlMeasModeMask), modeForced)
	r.Modify(regCtrlHum, ctrlHumKeep, ctrlHumOSRS)
	r.Modify(regCtrlMeas, ctrlMeasKeep, ctrlMeasOSRS)
	r.Modify(regConfig, configKeep, configFilter)

	s.cal = readCalibration(r)

	if n := r.Faults(); n > 0 {
		log.WithFields(log.Fields{
			"address": fmt.Sprintf("0x%02x", s.addr),
			"faults":  n,
		}).Warnln("bme688 init incomplete:", r.Err())
		return n, nil
	}
	log.WithField("address", fmt.Sprintf("0x%02x", s.addr)).Debugf("bme688 calibration %+v", s.cal)
	return 0, nil
}

func (s *BME688) Calibration() Calibration {
	return s.cal
}

// Last returns the most recent readings.
func (s *BME688) Last() Reading {
	return s.last
}

// ForceMeasurement starts a single temperature, pressure, humidity and gas
// conversion and waits for it to finish.
func (s *BME688) ForceMeasurement() error {
	if err := s.device.SetAddress(s.addr); err != nil {
		return errors.Wrap(err, "set device address")
	}

	val, err := s.device.ReadByteData(regCtrlMeas)
	if err != nil {
		return errors.Wrap(err, "read ctrl_meas")
	}
	val = val&^ctrlMeasModeMask | modeForced
	if err := s.device.WriteByteData(regCtrlMeas, val); err != nil {
		return errors.Wrap(err, "write ctrl_meas")
	}

	if s.cfg.PollTimeout > 0 {
		return s.waitStatus(statusMeasuring, s.cfg.PollTimeout)
	}
	time.Sleep(s.cfg.MeasureDelay)
	return nil
}

// waitStatus polls meas_status_0 until the bits in mask are clear.
func (s *BME688) waitStatus(mask uint8, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		val, err := s.device.ReadByteData(regMeasStatus0)
		if err != nil {
			return errors.Wrap(err, "read meas_status")
		}
		if val&mask == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return errBusy
		}
		time.Sleep(pollInterval)
	}
}

func (s *BME688) ReadTemperature() (Temperature, error) {
	data, err := s.read(regTempMSB0, regTempLSB0, regTempXLSB0)
	if err != nil {
		return Temperature{}, err
	}
	t := s.cal.Temperature(raw20(data))
	s.last.Temperature = t.Celsius
	return t, nil
}

// ReadPressure returns Pa. t must be the temperature from the same
// measurement cycle.
func (s *BME688) ReadPressure(t Temperature) (float64, error) {
	data, err := s.read(regPressMSB0, regPressLSB0, regPressXLSB0)
	if err != nil {
		return 0, err
	}
	p := s.cal.Pressure(raw20(data), t)
	s.last.Pressure = p
	return p, nil
}

// ReadHumidity returns %RH. t must be the temperature from the same
// measurement cycle.
func (s *BME688) ReadHumidity(t Temperature) (float64, error) {
	data, err := s.read(regHumMSB0, regHumLSB0)
	if err != nil {
		return 0, err
	}
	h := s.cal.Humidity(raw16(data), t)
	s.last.Humidity = h
	return h, nil
}

// ConfigureHeater programs heater profile 0 for the configured target
// temperature and duration at the given ambient temperature, enables the
// gas conversion and waits for the plate to settle.
func (s *BME688) ConfigureHeater(ambient Temperature) error {
	if err := s.device.SetAddress(s.addr); err != nil {
		return errors.Wrap(err, "set device address")
	}

	res := s.cal.HeaterResistance(s.cfg.HeaterTemperature, ambient)
	if err := s.device.WriteByteData(regResHeat0, res); err != nil {
		return errors.Wrap(err, "write res_heat_0")
	}
	if err := s.device.WriteByteData(regGasWait0, GasWait(s.cfg.HeaterDuration)); err != nil {
		return errors.Wrap(err, "write gas_wait_0")
	}
	if err := s.device.WriteByteData(regCtrlGas1, ctrlGas1RunHS); err != nil {
		return errors.Wrap(err, "write ctrl_gas_1")
	}

	time.Sleep(s.cfg.HeaterDelay)
	return nil
}

// Gas is a compensated gas resistance reading. HeatStable and Valid are
// the device's own flags; they are reported, not checked.
type Gas struct {
	Ohms       int64
	Raw        uint16
	Range      uint8
	HeatStable bool
	Valid      bool
}

func (s *BME688) ReadGas() (Gas, error) {
	data, err := s.read(regGasRMSB0, regGasRLSB0)
	if err != nil {
		return Gas{}, err
	}
	g := Gas{
		Raw:        uint16(data[0])<<2 | uint16(data[1])>>6,
		Range:      data[1] & gasRangeMask,
		HeatStable: data[1]&gasHeatStab != 0,
		Valid:      data[1]&gasValid != 0,
	}
	g.Ohms = GasResistance(g.Raw, g.Range)
	s.last.GasResistance = g.Ohms
	s.last.HeatStable = g.HeatStable
	return g, nil
}

// Measure runs one complete measurement cycle.
func (s *BME688) Measure() (Reading, error) {
	if err := s.ForceMeasurement(); err != nil {
		return Reading{}, errors.Wrap(err, "force measurement")
	}
	t, err := s.ReadTemperature()
	if err != nil {
		return Reading{}, errors.Wrap(err, "temperature")
	}
	p, err := s.ReadPressure(t)
	if err != nil {
		return Reading{}, errors.Wrap(err, "pressure")
	}
	h, err := s.ReadHumidity(t)
	if err != nil {
		return Reading{}, errors.Wrap(err, "humidity")
	}
	if err := s.ConfigureHeater(t); err != nil {
		return Reading{}, errors.Wrap(err, "configure heater")
	}
	g, err := s.ReadGas()
	if err != nil {
		return Reading{}, errors.Wrap(err, "gas")
	}
	return Reading{
		Temperature:   t.Celsius,
		Pressure:      p,
		Humidity:      h,
		GasResistance: g.Ohms,
		HeatStable:    g.HeatStable,
	}, nil
}

// read reads the given data registers, failing if any of them failed.
func (s *BME688) read(regs ...uint8) ([]byte, error) {
	if err := s.device.SetAddress(s.addr); err != nil {
		return nil, errors.Wrap(err, "set device address")
	}
	r := i2c.NewReader(s.device)
	data := r.Read(regs...)
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, "read data")
	}
	return data, nil
}

func raw20(data []byte) int32 {
	return int32(data[0])<<12 | int32(data[1])<<4 | int32(data[2])>>4
}

func raw16(data []byte) int32 {
	return int32(data[0])<<8 | int32(data[1])
}
