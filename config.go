package cp2102n

import (
	"encoding/binary"
	"fmt"
)

// ConfigSize is the size of the CP2102N configuration block in bytes.
const ConfigSize = 678

// Block layout [AN978]. Offsets are absolute within the block and are part
// of the device contract; they must not change.
//
//	 0   preamble (55 bytes, reserved; holds the max-power byte at 31)
//	55   language descriptor (4 bytes)
//	59   manufacturer string descriptor (2-byte BE length + type tag)
//	62   manufacturer string (128 bytes, wide chars)
//	190  product string descriptor
//	193  product string (256 bytes, wide chars)
//	449  serial string descriptor
//	452  serial string (128 bytes, wide chars)
//	580  postamble (96 bytes; GPIO mode and port option bytes)
//	676  checksum (2 bytes, big-endian)
const (
	offMaxPower = 31 // USB max power, stored as mA/2

	offManufacturerDesc = 59
	offManufacturer     = 62
	lenManufacturer     = 128

	offProductDesc = 190
	offProduct     = 193
	lenProduct     = 256

	offSerialDesc = 449
	offSerial     = 452
	lenSerial     = 128

	offModeResetP1 = 581 // reset-state pin mode byte for port 1
	offPortSet     = 600 // port option byte

	offChecksum = 676 // covers bytes [0, 676)
)

// Pin mode and port option bits.
const (
	modeGPIO0 = 0x08
	modeGPIO1 = 0x10

	portSetTXLED = 0x04
	portSetRXLED = 0x08
)

// MaxPowerLimit is the highest settable USB bus power draw in mA.
const MaxPowerLimit = 500

// ChecksumError reports a configuration block whose embedded checksum does
// not match a fresh computation over its contents.
type ChecksumError struct {
	Computed uint16
	Stored   uint16
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("bad checksum (0x%04X != 0x%04X)", e.Computed, e.Stored)
}

// Config is an in-memory copy of the device configuration block. One Config
// flows through a whole invocation: read (or loaded from a dump file),
// edited in place, then written back.
//
// The USB vendor/product ID fields inside the block are deliberately not
// exposed: changing them can make the device unreachable through standard
// drivers.
type Config struct {
	raw [ConfigSize]byte
}

// Bytes returns the backing block. The slice aliases the Config.
func (c *Config) Bytes() []byte { return c.raw[:] }

// Manufacturer decodes the manufacturer string field.
func (c *Config) Manufacturer() string {
	return decodeUCS2(c.raw[offManufacturer : offManufacturer+lenManufacturer])
}

// Product decodes the product string field.
func (c *Config) Product() string {
	return decodeUCS2(c.raw[offProduct : offProduct+lenProduct])
}

// SerialNumber decodes the serial number string field.
func (c *Config) SerialNumber() string {
	return decodeUCS2(c.raw[offSerial : offSerial+lenSerial])
}

// SetManufacturer replaces the manufacturer string (up to 63 characters).
func (c *Config) SetManufacturer(s string) error {
	return c.setString(s, offManufacturerDesc, offManufacturer, lenManufacturer)
}

// SetProduct replaces the product string (up to 127 characters).
func (c *Config) SetProduct(s string) error {
	return c.setString(s, offProductDesc, offProduct, lenProduct)
}

// SetSerialNumber replaces the serial number string (up to 63 characters).
func (c *Config) SetSerialNumber(s string) error {
	return c.setString(s, offSerialDesc, offSerial, lenSerial)
}

// setString zero-fills the field, writes the wide encoding of s and sets
// the paired descriptor length to (len(s)+1)*2, counting the terminator.
func (c *Config) setString(s string, descOff, off, size int) error {
	enc, err := encodeUCS2(s)
	if err != nil {
		return err
	}
	if len(enc)+2 > size {
		return fmt.Errorf("string %q too long (max %d characters)", s, size/2-1)
	}

	field := c.raw[off : off+size]
	clear(field)
	copy(field, enc)

	binary.BigEndian.PutUint16(c.raw[descOff:descOff+2], uint16((len(s)+1)*2))
	return nil
}

// SetGPIO sets or clears the GPIO0/GPIO1 reset mode bits together with the
// TX/RX LED port functions. Applying the same state twice is a no-op.
func (c *Config) SetGPIO(on bool) {
	if on {
		c.raw[offModeResetP1] |= modeGPIO0 | modeGPIO1
		c.raw[offPortSet] |= portSetTXLED | portSetRXLED
	} else {
		c.raw[offModeResetP1] &^= modeGPIO0 | modeGPIO1
		c.raw[offPortSet] &^= portSetTXLED | portSetRXLED
	}
}

// GPIO reports whether the GPIO0/GPIO1 reset mode bits are set.
func (c *Config) GPIO() bool {
	return c.raw[offModeResetP1]&(modeGPIO0|modeGPIO1) != 0
}

// SetMaxPower sets the USB bus power draw in milliamps, 0 to 500
// inclusive. The device stores the value divided by two.
func (c *Config) SetMaxPower(mA int) error {
	if mA < 0 || mA > MaxPowerLimit {
		return fmt.Errorf("power value %d out of range (0-%d mA)", mA, MaxPowerLimit)
	}
	c.raw[offMaxPower] = byte(mA >> 1)
	return nil
}

// MaxPower returns the configured USB bus power draw in milliamps.
func (c *Config) MaxPower() int { return int(c.raw[offMaxPower]) * 2 }

// Checksum returns the checksum embedded in the block.
func (c *Config) Checksum() uint16 {
	return binary.BigEndian.Uint16(c.raw[offChecksum:])
}

// UpdateChecksum recomputes the checksum over the block contents and
// stores it in the checksum field.
func (c *Config) UpdateChecksum() {
	binary.BigEndian.PutUint16(c.raw[offChecksum:], fletcher16(c.raw[:offChecksum]))
}

// VerifyChecksum checks the embedded checksum against a fresh computation.
func (c *Config) VerifyChecksum() error {
	want := fletcher16(c.raw[:offChecksum])
	if got := c.Checksum(); got != want {
		return &ChecksumError{Computed: want, Stored: got}
	}
	return nil
}
