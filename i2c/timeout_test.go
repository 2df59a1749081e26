package i2c

import (
	"testing"
	"time"
)

func TestTimeout(t *testing.T) {
	dev := newFakeDevice(map[uint8]uint8{0xf0: 0x01})
	tdev := WithTimeout(dev, 50*time.Millisecond)

	v, err := tdev.ReadByteData(0xf0)
	if err != nil || v != 0x01 {
		t.Fatalf("read: 0x%02x, %v", v, err)
	}

	dev.delay = 200 * time.Millisecond
	if _, err := tdev.ReadByteData(0xf0); err != ErrTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if err := tdev.WriteByteData(0x74, 0x01); err != ErrTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestZeroTimeoutPassesThrough(t *testing.T) {
	dev := newFakeDevice(nil)
	if WithTimeout(dev, 0) != Device(dev) {
		t.Error("zero timeout should return the device unchanged")
	}
}

// hangDevice never completes a transaction on hang until release is closed.
type hangDevice struct {
	hang    uint8
	release chan struct{}
}

func (d *hangDevice) SetAddress(address int) error {
	return nil
}

func (d *hangDevice) ReadByteData(reg uint8) (uint8, error) {
	if reg == d.hang {
		<-d.release
	}
	return reg, nil
}

func (d *hangDevice) WriteByteData(reg, val uint8) error {
	return nil
}

func TestTimeoutAfterHungTransaction(t *testing.T) {
	dev := &hangDevice{hang: 0xf0, release: make(chan struct{})}
	tdev := WithTimeout(dev, 50*time.Millisecond)

	if _, err := tdev.ReadByteData(0xf0); err != ErrTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}

	// The hung read still occupies the bus; the next call must give up
	// in bounded time rather than wait for it.
	done := make(chan error, 1)
	go func() {
		_, err := tdev.ReadByteData(0x74)
		done <- err
	}()
	select {
	case err := <-done:
		if err != ErrTimeout {
			t.Fatalf("expected timeout, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second call blocked behind the hung transaction")
	}

	close(dev.release)
	deadline := time.Now().Add(time.Second)
	for {
		v, err := tdev.ReadByteData(0x74)
		if err == nil {
			if v != 0x74 {
				t.Errorf("read 0x%02x, expected 0x74", v)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("bus did not recover: %v", err)
		}
	}
}
