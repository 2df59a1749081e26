// Package store keeps a history of readings in SQLite.
package store

import (
	"time"

	"github.com/calmh/boatenv/bme688"
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Measurement struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	Taken         time.Time `gorm:"index" json:"when"`
	Temperature   float64   `json:"temperature_c"`
	Pressure      float64   `json:"pressure_pa"`
	Humidity      float64   `json:"humidity_rh"`
	GasResistance int64     `json:"gas_resistance_ohm"`
	HeatStable    bool      `json:"heat_stable"`
}

func (m Measurement) Reading() bme688.Reading {
	return bme688.Reading{
		Temperature:   m.Temperature,
		Pressure:      m.Pressure,
		Humidity:      m.Humidity,
		GasResistance: m.GasResistance,
		HeatStable:    m.HeatStable,
	}
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.AutoMigrate(&Measurement{}); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}
	return &Store{db: db}, nil
}

func (s *Store) Add(when time.Time, r bme688.Reading) error {
	m := Measurement{
		Taken:         when,
		Temperature:   r.Temperature,
		Pressure:      r.Pressure,
		Humidity:      r.Humidity,
		GasResistance: r.GasResistance,
		HeatStable:    r.HeatStable,
	}
	if res := s.db.Create(&m); res.Error != nil {
		return errors.Wrap(res.Error, "insert measurement")
	}
	return nil
}

// Recent returns at most n measurements, newest first.
func (s *Store) Recent(n int) ([]Measurement, error) {
	var ms []Measurement
	if res := s.db.Order("taken desc").Limit(n).Find(&ms); res.Error != nil {
		return nil, errors.Wrap(res.Error, "query measurements")
	}
	return ms, nil
}

// Prune deletes measurements older than before and returns how many were
// removed.
func (s *Store) Prune(before time.Time) (int64, error) {
	res := s.db.Where("taken < ?", before).Delete(&Measurement{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "prune measurements")
	}
	return res.RowsAffected, nil
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
