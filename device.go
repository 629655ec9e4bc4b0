package cp2102n

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// Default USB identifiers for the CP210x bridge family.
const (
	VendorID  gousb.ID = 0x10C4 // Silicon Labs
	ProductID gousb.ID = 0xEA60 // CP210x UART bridge
)

// Configuration requests ride on a single vendor bRequest, selected by
// wValue [AN978].
const (
	requestCfg = 0xFF

	cfgModel       = 0x370B // part number register, 1 byte
	cfgReadConfig  = 0x000E // read the configuration block
	cfgWriteConfig = 0x370F // write the configuration block
)

// Part numbers reported by the CP2102N package variants.
const (
	PartQFN28 = 0x20
	PartQFN24 = 0x21
	PartQFN20 = 0x22
)

const transferTimeout = 500 * time.Millisecond

// ErrDeviceNotFound is returned by Open when no device on the bus matches
// the requested vendor/product ID.
var ErrDeviceNotFound = errors.New("no matching device found")

// UnsupportedPartError is returned when the part number register reports
// anything other than a CP2102N package variant.
type UnsupportedPartError byte

func (e UnsupportedPartError) Error() string {
	return fmt.Sprintf("device is not a CP2102N (0x%02X)", byte(e))
}

// Device holds an open handle to a single CP2102N.
type Device struct {
	ctx *gousb.Context
	dev *gousb.Device
}

// Open scans the USB bus for a device matching vid/pid and opens the first
// match. The caller must Close the returned Device on every path.
func Open(vid, pid gousb.ID) (*Device, error) {
	ctx := gousb.NewContext()

	devs, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == vid && desc.Product == pid
	})
	// only the first match is used
	if len(devs) > 1 {
		for _, d := range devs[1:] {
			d.Close()
		}
	}
	if err != nil {
		if len(devs) > 0 {
			devs[0].Close()
		}
		ctx.Close()
		return nil, fmt.Errorf("listing USB devices failed: %w", err)
	}
	if len(devs) == 0 {
		ctx.Close()
		return nil, fmt.Errorf("%w for %s:%s", ErrDeviceNotFound, vid, pid)
	}

	dev := devs[0]
	dev.ControlTimeout = transferTimeout

	return &Device{ctx: ctx, dev: dev}, nil
}

// Close releases the device handle and the USB context.
func (d *Device) Close() error {
	err := d.dev.Close()
	if cerr := d.ctx.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Desc returns the USB descriptor of the open device.
func (d *Device) Desc() *gousb.DeviceDesc { return d.dev.Desc }

// ProductString returns the product string descriptor of the open device.
func (d *Device) ProductString() (string, error) { return d.dev.Product() }

// Model reads the part number register.
func (d *Device) Model() (byte, error) {
	buf := make([]byte, 1)
	if _, err := d.controlRead(cfgModel, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// VerifyModel checks that the open device is one of the supported CP2102N
// package variants. Call it before any write: the configuration interface
// differs across CP210x parts and a write to the wrong one is destructive.
func (d *Device) VerifyModel() error {
	part, err := d.Model()
	if err != nil {
		return err
	}
	switch part {
	case PartQFN28, PartQFN24, PartQFN20:
		return nil
	}
	return UnsupportedPartError(part)
}

// ReadConfig reads the whole configuration block from the device.
func (d *Device) ReadConfig() (*Config, error) {
	cfg := &Config{}
	n, err := d.controlRead(cfgReadConfig, cfg.raw[:])
	if err != nil {
		return nil, err
	}
	if n != ConfigSize {
		return nil, fmt.Errorf("short config block read (%d != %d bytes)", n, ConfigSize)
	}
	return cfg, nil
}

// WriteConfig updates the block checksum and writes the whole block back
// to the device.
func (d *Device) WriteConfig(cfg *Config) error {
	cfg.UpdateChecksum()
	return d.controlWrite(cfgWriteConfig, cfg.raw[:])
}

// Reset performs a USB port reset so a rewritten configuration takes
// effect without replugging the device.
func (d *Device) Reset() error {
	return d.dev.Reset()
}

func (d *Device) controlRead(req uint16, buf []byte) (int, error) {
	n, err := d.dev.Control(gousb.ControlIn|gousb.ControlVendor|gousb.ControlDevice,
		requestCfg, req, 0, buf)
	if err != nil {
		return 0, fmt.Errorf("config read 0x%04X failed: %w", req, err)
	}
	return n, nil
}

func (d *Device) controlWrite(req uint16, buf []byte) error {
	_, err := d.dev.Control(gousb.ControlOut|gousb.ControlVendor|gousb.ControlDevice,
		requestCfg, req, 0, buf)
	if err != nil {
		return fmt.Errorf("config write 0x%04X failed: %w", req, err)
	}
	return nil
}
