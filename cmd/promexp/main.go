package main

import (
	"flag"
	"net/http"
	"strconv"

	"github.com/calmh/boatenv/bme688"
	"github.com/calmh/boatenv/config"
	"github.com/calmh/boatenv/i2c"
	"github.com/calmh/boatenv/store"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	settingsFile := flag.String("settings", "bme688.yml", "Settings file")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalln("log level:", err)
	}
	log.SetLevel(lvl)

	settings, err := config.Load(*settingsFile)
	if err != nil {
		log.Fatalln("load settings:", err)
	}

	dev, closer, err := i2c.Open(settings.Driver, settings.Bus, settings.Timeout)
	if err != nil {
		log.Fatalln("open I2C bus:", err)
	}
	defer closer.Close()

	sensor := bme688.New(dev, settings.Address, settings.Sensor())
	n, err := sensor.Init()
	if err != nil {
		log.Fatalln("init BME688:", err)
	}
	if n > 0 {
		log.Warnf("init BME688: %d register faults, no readings until a clean init", n)
	}

	var st *store.Store
	if settings.Database != "" {
		st, err = store.Open(settings.Database)
		if err != nil {
			log.Fatalln("open store:", err)
		}
		defer st.Close()
	}

	s := newSampler(sensor, st, settings.Interval, settings.Retention, n == 0)
	go s.serve()

	registerGauges(s)
	gin.SetMode(gin.ReleaseMode)
	log.Infoln("listening on", settings.Listen)
	if err := http.ListenAndServe(settings.Listen, newRouter(s, st)); err != nil {
		log.Fatalln("serve:", err)
	}
}

func registerGauges(s *sampler) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "temperature_celsius",
	}, func() float64 {
		r, _ := s.Reading()
		return r.Round(2).Temperature
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "pressure_pascals",
	}, func() float64 {
		r, _ := s.Reading()
		return r.Round(0).Pressure
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "humidity_percent",
	}, func() float64 {
		r, _ := s.Reading()
		return r.Round(2).Humidity
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "gas_resistance_ohms",
	}, func() float64 {
		r, _ := s.Reading()
		return float64(r.GasResistance)
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "heater_stable",
	}, func() float64 {
		r, _ := s.Reading()
		if r.HeatStable {
			return 1
		}
		return 0
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "ready",
		Help:      "1 when the last init reported no register faults",
	}, func() float64 {
		if s.Ready() {
			return 1
		}
		return 0
	})
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "sensors",
		Subsystem: "bme688",
		Name:      "last_reading_timestamp_seconds",
	}, func() float64 {
		_, when := s.Reading()
		if when.IsZero() {
			return 0
		}
		return float64(when.Unix())
	})
}

const defaultHistory = 100

func newRouter(s *sampler, st *store.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/reading", func(c *gin.Context) {
		if !s.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sensor not ready"})
			return
		}
		rd, when := s.Reading()
		if when.IsZero() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no reading yet"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"when": when, "reading": rd})
	})

	r.GET("/calibration", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Calibration())
	})

	r.GET("/history", func(c *gin.Context) {
		if st == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
			return
		}
		n := defaultHistory
		if v := c.Query("n"); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil || i <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
				return
			}
			n = i
		}
		ms, err := st.Recent(n)
		if err != nil {
			log.Warnln("history:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, ms)
	})

	return r
}
