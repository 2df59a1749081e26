package main

import (
	"sync"
	"time"

	"github.com/calmh/boatenv/bme688"
	"github.com/calmh/boatenv/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

// Consecutive failed cycles before the sensor is initialized again.
const reinitAfter = 3

var (
	failedCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "failed_cycles_total",
		Help:      "Measurement cycles that failed on a bus fault",
	})
	reinits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "reinits_total",
		Help:      "Sensor re-initializations after repeated failures",
	})
)

type sensor interface {
	Init() (int, error)
	Measure() (bme688.Reading, error)
	Calibration() bme688.Calibration
}

// sampler is the only user of the sensor; everything else reads the
// latest values from it. Readings are only taken while the sensor is
// ready, meaning its last Init reported no faults.
type sampler struct {
	sensor    sensor
	store     *store.Store
	intv      time.Duration
	retention time.Duration

	mut      sync.Mutex
	ready    bool
	reading  bme688.Reading
	when     time.Time
	cal      bme688.Calibration
	failures int
	pruned   time.Time
}

// newSampler takes a sensor that has already been initialized once; ready
// says whether that Init was clean.
func newSampler(s sensor, st *store.Store, intv, retention time.Duration, ready bool) *sampler {
	a := &sampler{
		sensor:    s,
		store:     st,
		intv:      intv,
		retention: retention,
		ready:     ready,
	}
	if ready {
		a.cal = s.Calibration()
	}
	return a
}

func (a *sampler) serve() {
	for now := range time.NewTicker(a.intv).C {
		a.sample(now)
	}
}

func (a *sampler) sample(now time.Time) {
	a.mut.Lock()
	ready := a.ready
	a.mut.Unlock()
	if !ready && !a.init() {
		return
	}

	r, err := a.sensor.Measure()
	if err != nil {
		failedCycles.Inc()
		log.Warnln("measure bme688:", err)
		a.failed()
		return
	}

	a.mut.Lock()
	a.reading = r
	a.when = now
	a.failures = 0
	a.mut.Unlock()

	if a.store == nil {
		return
	}
	if err := a.store.Add(now, r); err != nil {
		log.Warnln("store reading:", err)
	}
	if a.retention > 0 && now.Sub(a.pruned) > time.Hour {
		n, err := a.store.Prune(now.Add(-a.retention))
		if err != nil {
			log.Warnln("prune readings:", err)
		} else if n > 0 {
			log.Debugf("pruned %d readings", n)
		}
		a.pruned = now
	}
}

func (a *sampler) failed() {
	a.mut.Lock()
	a.failures++
	reinit := a.failures >= reinitAfter
	if reinit {
		a.failures = 0
		a.ready = false
	}
	a.mut.Unlock()

	if reinit {
		a.init()
	}
}

// init initializes the sensor again and reports whether it is usable. A
// sensor with any Init fault stays unready and is retried next cycle.
func (a *sampler) init() bool {
	reinits.Inc()
	n, err := a.sensor.Init()
	switch {
	case err != nil:
		log.Errorln("reinit bme688:", err)
		return false
	case n > 0:
		log.Warnf("reinit bme688: %d register faults, retrying", n)
		return false
	}

	a.mut.Lock()
	a.ready = true
	a.cal = a.sensor.Calibration()
	a.mut.Unlock()
	log.Infoln("bme688 ready")
	return true
}

// Ready reports whether readings are being taken.
func (a *sampler) Ready() bool {
	a.mut.Lock()
	defer a.mut.Unlock()
	return a.ready
}

func (a *sampler) Reading() (bme688.Reading, time.Time) {
	a.mut.Lock()
	defer a.mut.Unlock()
	return a.reading, a.when
}

func (a *sampler) Calibration() bme688.Calibration {
	a.mut.Lock()
	defer a.mut.Unlock()
	return a.cal
}
