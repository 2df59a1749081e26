package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmh/boatenv/bme688"
	"github.com/calmh/boatenv/i2c"
	log "github.com/sirupsen/logrus"
)

func main() {
	driver := flag.String("driver", i2c.DriverSysfs, "I2C driver (sysfs, periph, smbus)")
	bus := flag.String("bus", "/dev/i2c-1", "I2C bus")
	address := flag.Int("address", bme688.AddressLow, "Sensor address")
	timeout := flag.Duration("timeout", i2c.DefaultTimeout, "Per transaction timeout")
	interval := flag.Duration("interval", 3*time.Second, "Interval between measurements")
	decimals := flag.Int("decimals", 2, "Rounding precision")
	buffer := flag.Bool("buffer", false, "Use output buffering")
	display := flag.Bool("display", false, "Also show readings on the terminal display")
	flag.Parse()

	dev, closer, err := i2c.Open(*driver, *bus, *timeout)
	if err != nil {
		log.Fatalln("open I2C bus:", err)
	}
	defer closer.Close()

	sensor := bme688.New(dev, *address, bme688.DefaultConfig)
	n, err := sensor.Init()
	if err != nil {
		log.Fatalln("init BME688:", err)
	}
	if n > 0 {
		log.Warnf("init BME688: %d register faults, retrying each interval", n)
	}

	var bw *bufio.Writer
	out := io.Writer(os.Stdout)
	if *buffer {
		bw = bufio.NewWriter(out)
		out = bw
	}

	c := &console{
		sensor:   sensor,
		ready:    n == 0,
		decimals: *decimals,
		enc:      json.NewEncoder(out),
		fields:   make(map[string]interface{}),
	}
	if *display {
		c.disp = newTerminal(os.Stderr, displayLines)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(*interval)
	for {
		select {
		case now := <-ticker.C:
			if err := c.tick(now); err != nil {
				log.Errorln("write output:", err)
			}
		case <-sigs:
			if bw != nil {
				if err := bw.Flush(); err != nil {
					log.Errorln("flush output:", err)
				}
			}
			return
		}
	}
}

type sensor interface {
	Init() (int, error)
	Measure() (bme688.Reading, error)
}

// console takes one measurement per tick and writes it as a JSON line.
// Nothing is measured until Init has reported no faults.
type console struct {
	sensor   sensor
	ready    bool
	decimals int
	enc      *json.Encoder
	disp     lineWriter
	fields   map[string]interface{}
}

func (c *console) tick(now time.Time) error {
	if !c.ready {
		n, err := c.sensor.Init()
		switch {
		case err != nil:
			log.Warnln("init BME688:", err)
			return nil
		case n > 0:
			log.Warnf("init BME688: %d register faults", n)
			return nil
		}
		c.ready = true
	}

	r, err := c.sensor.Measure()
	if err != nil {
		// Keep going; the next cycle may succeed.
		log.Warnln("measure:", err)
		return nil
	}

	rr := r.Round(c.decimals)
	c.fields["when"] = now
	c.fields["bme688_temperature_c"] = rr.Temperature
	c.fields["bme688_pressure_pa"] = rr.Pressure
	c.fields["bme688_humidity_rh"] = rr.Humidity
	c.fields["bme688_gas_resistance_ohm"] = r.GasResistance
	c.fields["bme688_heat_stable"] = r.HeatStable
	if err := c.enc.Encode(c.fields); err != nil {
		return err
	}

	if c.disp != nil {
		show(c.disp, r)
	}
	return nil
}

// show renders one reading on a four line display.
func show(d lineWriter, r bme688.Reading) {
	lines := []string{
		fmt.Sprintf("T %6.2f C", r.Temperature),
		fmt.Sprintf("P %7.2f hPa", r.Pressure/100),
		fmt.Sprintf("H %6.2f %%", r.Humidity),
		fmt.Sprintf("G %d ohm", r.GasResistance),
	}
	if !r.HeatStable {
		lines[3] += " *"
	}
	for i, l := range lines {
		if err := d.WriteLine(i, l); err != nil {
			log.Debugln("display:", err)
		}
	}
}
