// Command cp2102ncfg customizes the configuration block of a Silicon Labs
// CP2102N USB-to-UART bridge: vendor/product/serial strings, GPIO/LED
// mode, USB power budget, and raw dump/restore of the whole block.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/serialtools/cp2102n"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
	cp2102ncfg [-d file] [-l file] [-m mfgr string]
		[-p product string] [-s serial # string]
		[-g on|off] [-x usb power] [-r]
`)
}

type options struct {
	dumpFile string
	loadFile string
	mfgr     string
	product  string
	serial   string
	gpio     string
	power    string
	reset    bool
}

func main() {
	fs := flag.NewFlagSet("cp2102ncfg", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var opt options
	fs.StringVar(&opt.dumpFile, "d", "", "dump configuration block to `file` and exit")
	fs.StringVar(&opt.loadFile, "l", "", "load configuration block from `file`")
	fs.StringVar(&opt.mfgr, "m", "", "set manufacturer string")
	fs.StringVar(&opt.product, "p", "", "set product string")
	fs.StringVar(&opt.serial, "s", "", "set serial number string")
	fs.StringVar(&opt.gpio, "g", "", "turn GPIO/LED mode `on|off`")
	fs.StringVar(&opt.power, "x", "", "set USB max power in `mA` (0-500)")
	fs.BoolVar(&opt.reset, "r", false, "reset the device after writing")

	// A bare or unknown invocation prints usage and exits 0, matching the
	// tool this replaces.
	if len(os.Args) < 2 {
		usage()
		os.Exit(0)
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		usage()
		os.Exit(0)
	}

	if err := run(&opt); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func run(opt *options) error {
	dev, err := cp2102n.Open(cp2102n.VendorID, cp2102n.ProductID)
	if err != nil {
		return err
	}
	defer dev.Close()

	desc := dev.Desc()
	fmt.Printf("Found match for %s:%s at bus %d device %d\n",
		desc.Vendor, desc.Product, desc.Bus, desc.Address)
	if id, err := dev.ProductString(); err == nil {
		fmt.Printf("Device ID string: [%s]\n", id)
	}

	if err := dev.VerifyModel(); err != nil {
		return err
	}

	cfg, err := dev.ReadConfig()
	if err != nil {
		return fmt.Errorf("reading config block failed: %w", err)
	}

	fmt.Printf("Vendor: %s\n", cfg.Manufacturer())
	fmt.Printf("Product: %s\n", cfg.Product())
	fmt.Printf("Serial: %s\n", cfg.SerialNumber())

	if opt.dumpFile != "" {
		return dumpConfig(cfg, opt.dumpFile)
	}

	// A loaded block is already complete and validated; it skips the edit
	// flags and goes straight to the device.
	if opt.loadFile != "" {
		cfg, err = loadConfig(opt.loadFile)
		if err != nil {
			return err
		}
		return writeBack(dev, cfg, opt.reset)
	}

	switch opt.gpio {
	case "":
	case "on":
		cfg.SetGPIO(true)
	case "off":
		cfg.SetGPIO(false)
	default:
		return fmt.Errorf("unexpected gpio command (%s)", opt.gpio)
	}

	if opt.power != "" {
		mA, err := strconv.Atoi(opt.power)
		if err != nil {
			return fmt.Errorf("bad power value (%s)", opt.power)
		}
		if err := cfg.SetMaxPower(mA); err != nil {
			return err
		}
	}

	if opt.mfgr != "" {
		if err := cfg.SetManufacturer(opt.mfgr); err != nil {
			return err
		}
		fmt.Printf("New vendor: %s\n", cfg.Manufacturer())
	}

	if opt.product != "" {
		if err := cfg.SetProduct(opt.product); err != nil {
			return err
		}
		fmt.Printf("New product: %s\n", cfg.Product())
	}

	if opt.serial != "" {
		if err := cfg.SetSerialNumber(opt.serial); err != nil {
			return err
		}
		fmt.Printf("New serial: %s\n", cfg.SerialNumber())
	}

	return writeBack(dev, cfg, opt.reset)
}

func writeBack(dev *cp2102n.Device, cfg *cp2102n.Config, reset bool) error {
	if err := dev.WriteConfig(cfg); err != nil {
		return fmt.Errorf("writing config block failed: %w", err)
	}
	if reset {
		if err := dev.Reset(); err != nil {
			return fmt.Errorf("resetting device failed: %w", err)
		}
	}
	return nil
}

func dumpConfig(cfg *cp2102n.Config, name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("opening dump file failed: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := cfg.WriteDump(w); err != nil {
		f.Close()
		return fmt.Errorf("writing dump file failed: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing dump file failed: %w", err)
	}
	return f.Close()
}

func loadConfig(name string) (*cp2102n.Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening load file failed: %w", err)
	}
	defer f.Close()
	return cp2102n.LoadDump(bufio.NewReader(f))
}
