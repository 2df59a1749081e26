// Package config handles the exporter's settings file.
package config

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/calmh/boatenv/bme688"
	"github.com/calmh/boatenv/i2c"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Settings struct {
	Driver  string        `yaml:"driver"`
	Bus     string        `yaml:"bus"`
	Address int           `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`

	Interval          time.Duration `yaml:"interval"`
	HeaterTemperature float64       `yaml:"heaterTemperature"`
	HeaterDuration    time.Duration `yaml:"heaterDuration"`
	MeasureDelay      time.Duration `yaml:"measureDelay"`
	HeaterDelay       time.Duration `yaml:"heaterDelay"`
	PollTimeout       time.Duration `yaml:"pollTimeout"`

	Listen    string        `yaml:"listen"`
	Database  string        `yaml:"database"`
	Retention time.Duration `yaml:"retention"`
}

var Default = Settings{
	Driver:  i2c.DriverSysfs,
	Bus:     "/dev/i2c-1",
	Address: bme688.AddressLow,
	Timeout: i2c.DefaultTimeout,

	Interval:          2 * time.Second,
	HeaterTemperature: bme688.DefaultConfig.HeaterTemperature,
	HeaterDuration:    bme688.DefaultConfig.HeaterDuration,
	MeasureDelay:      bme688.DefaultConfig.MeasureDelay,
	HeaterDelay:       bme688.DefaultConfig.HeaterDelay,

	Listen:    ":9120",
	Database:  "bme688.sqlite",
	Retention: 7 * 24 * time.Hour,
}

// Load reads the settings at path. If the file does not exist it is
// created with the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Settings, error) {
	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		if err := Save(path, Default); err != nil {
			return Settings{}, err
		}
		return Default, nil
	}
	if err != nil {
		return Settings{}, errors.Wrap(err, "read settings")
	}

	s := Default
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parse settings")
	}
	if err := s.validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "marshal settings")
	}
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "write settings")
	}
	return nil
}

func (s Settings) validate() error {
	switch s.Driver {
	case i2c.DriverSysfs, i2c.DriverPeriph, i2c.DriverSMBus:
	default:
		return errors.Errorf("unknown driver %q", s.Driver)
	}
	if s.Address != bme688.AddressLow && s.Address != bme688.AddressHigh {
		return errors.Errorf("address 0x%02x is not 0x%02x or 0x%02x", s.Address, bme688.AddressLow, bme688.AddressHigh)
	}
	if s.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}

// Sensor returns the driver configuration.
func (s Settings) Sensor() bme688.Config {
	return bme688.Config{
		HeaterTemperature: s.HeaterTemperature,
		HeaterDuration:    s.HeaterDuration,
		MeasureDelay:      s.MeasureDelay,
		HeaterDelay:       s.HeaterDelay,
		PollTimeout:       s.PollTimeout,
	}
}
