package cp2102n

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func TestSetStringDescriptorLength(t *testing.T) {
	tests := []struct {
		name     string
		set      func(*Config, string) error
		get      func(*Config) string
		descOff  int
		capacity int
	}{
		{"manufacturer", (*Config).SetManufacturer, (*Config).Manufacturer, offManufacturerDesc, 63},
		{"product", (*Config).SetProduct, (*Config).Product, offProductDesc, 127},
		{"serial", (*Config).SetSerialNumber, (*Config).SerialNumber, offSerialDesc, 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range []string{"X", "Acme Widgets", strings.Repeat("q", tt.capacity)} {
				cfg := &Config{}
				if err := tt.set(cfg, s); err != nil {
					t.Fatalf("set(%q) failed: %v", s, err)
				}
				if got := tt.get(cfg); got != s {
					t.Errorf("get() = %q, want %q", got, s)
				}
				wantLen := uint16((len(s) + 1) * 2)
				if got := binary.BigEndian.Uint16(cfg.raw[tt.descOff:]); got != wantLen {
					t.Errorf("descriptor length = %d, want %d", got, wantLen)
				}
			}
		})
	}
}

func TestSetStringZeroFillsField(t *testing.T) {
	cfg := &Config{}
	if err := cfg.SetSerialNumber(strings.Repeat("9", 63)); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetSerialNumber("1"); err != nil {
		t.Fatal(err)
	}
	if got := cfg.SerialNumber(); got != "1" {
		t.Errorf("SerialNumber() = %q, want %q", got, "1")
	}
	// no leftovers from the longer previous value
	for i, b := range cfg.raw[offSerial+2 : offSerial+lenSerial] {
		if b != 0 {
			t.Fatalf("stale byte 0x%02X at field offset %d", b, i+2)
		}
	}
}

func TestSetStringTooLong(t *testing.T) {
	cfg := &Config{}
	if err := cfg.SetManufacturer(strings.Repeat("a", 64)); err == nil {
		t.Error("SetManufacturer accepted 64 characters")
	}
	if err := cfg.SetProduct(strings.Repeat("a", 128)); err == nil {
		t.Error("SetProduct accepted 128 characters")
	}
	if err := cfg.SetSerialNumber(strings.Repeat("a", 64)); err == nil {
		t.Error("SetSerialNumber accepted 64 characters")
	}
}

func TestSetMaxPower(t *testing.T) {
	tests := []struct {
		name    string
		mA      int
		want    byte
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"typical", 100, 50, false},
		{"odd value rounds down", 301, 150, false},
		{"maximum", 500, 250, false},
		{"over maximum", 501, 0, true},
		{"negative", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := cfg.SetMaxPower(tt.mA)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SetMaxPower(%d) succeeded, want error", tt.mA)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetMaxPower(%d) failed: %v", tt.mA, err)
			}
			if got := cfg.raw[offMaxPower]; got != tt.want {
				t.Errorf("stored byte = %d, want %d", got, tt.want)
			}
			if got := cfg.MaxPower(); got != int(tt.want)*2 {
				t.Errorf("MaxPower() = %d, want %d", got, int(tt.want)*2)
			}
		})
	}
}

func TestSetGPIOIdempotent(t *testing.T) {
	cfg := &Config{}
	// surrounding bits in both bytes must survive the edits
	cfg.raw[offModeResetP1] = 0xA7
	cfg.raw[offPortSet] = 0x51

	cfg.SetGPIO(true)
	once := [2]byte{cfg.raw[offModeResetP1], cfg.raw[offPortSet]}
	cfg.SetGPIO(true)
	twice := [2]byte{cfg.raw[offModeResetP1], cfg.raw[offPortSet]}
	if once != twice {
		t.Errorf("second SetGPIO(true) changed state: % X != % X", twice, once)
	}
	if !cfg.GPIO() {
		t.Error("GPIO() = false after SetGPIO(true)")
	}
	if cfg.raw[offModeResetP1] != 0xA7|modeGPIO0|modeGPIO1 {
		t.Errorf("mode byte = 0x%02X", cfg.raw[offModeResetP1])
	}
	if cfg.raw[offPortSet] != 0x51|portSetTXLED|portSetRXLED {
		t.Errorf("port set byte = 0x%02X", cfg.raw[offPortSet])
	}

	cfg.SetGPIO(false)
	once = [2]byte{cfg.raw[offModeResetP1], cfg.raw[offPortSet]}
	cfg.SetGPIO(false)
	twice = [2]byte{cfg.raw[offModeResetP1], cfg.raw[offPortSet]}
	if once != twice {
		t.Errorf("second SetGPIO(false) changed state: % X != % X", twice, once)
	}
	if cfg.GPIO() {
		t.Error("GPIO() = true after SetGPIO(false)")
	}
	if cfg.raw[offModeResetP1] != 0xA7&^(modeGPIO0|modeGPIO1) {
		t.Errorf("mode byte = 0x%02X", cfg.raw[offModeResetP1])
	}
	if cfg.raw[offPortSet] != 0x51&^(portSetTXLED|portSetRXLED) {
		t.Errorf("port set byte = 0x%02X", cfg.raw[offPortSet])
	}
}

func TestChecksumInvariant(t *testing.T) {
	cfg := &Config{}
	for i := range cfg.raw {
		cfg.raw[i] = byte(i * 3)
	}

	cfg.UpdateChecksum()
	if err := cfg.VerifyChecksum(); err != nil {
		t.Fatalf("VerifyChecksum after UpdateChecksum failed: %v", err)
	}

	// any edit invalidates the stored checksum until it is recomputed
	if err := cfg.SetMaxPower(200); err != nil {
		t.Fatal(err)
	}
	var ce *ChecksumError
	err := cfg.VerifyChecksum()
	if !errors.As(err, &ce) {
		t.Fatalf("VerifyChecksum = %v, want *ChecksumError", err)
	}
	if ce.Stored == ce.Computed {
		t.Errorf("ChecksumError with equal values: 0x%04X", ce.Stored)
	}

	cfg.UpdateChecksum()
	if err := cfg.VerifyChecksum(); err != nil {
		t.Fatalf("VerifyChecksum after recompute failed: %v", err)
	}
}

func TestUnsupportedPartError(t *testing.T) {
	err := UnsupportedPartError(0x02)
	if got := err.Error(); !strings.Contains(got, "0x02") {
		t.Errorf("Error() = %q, want the part byte included", got)
	}
}
