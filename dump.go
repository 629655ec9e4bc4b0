package cp2102n

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump file format: one uppercase "0xHH" token plus a separator per block
// byte, terminated by a newline. Interoperates with files written by the
// vendor tooling, so the loader consumes a fixed five bytes per token and
// needs at least four significant characters in each.
const dumpTokenLen = 5

// DumpLengthError reports a dump file with the wrong number of byte
// tokens.
type DumpLengthError struct {
	Got  int
	Want int
}

func (e *DumpLengthError) Error() string {
	return fmt.Sprintf("wrong number of config bytes (%d != %d)", e.Got, e.Want)
}

// WriteDump serializes the block in the dump file format.
func (c *Config) WriteDump(w io.Writer) error {
	for _, b := range c.raw {
		if _, err := fmt.Fprintf(w, "0x%02X ", b); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// LoadDump parses a dump file into a configuration block and validates its
// embedded checksum. The token count must equal ConfigSize exactly; the
// trailing newline does not count as a token.
func LoadDump(r io.Reader) (*Config, error) {
	cfg := &Config{}
	buf := make([]byte, dumpTokenLen)

	count := 0
	for {
		n, _ := io.ReadFull(r, buf)
		if n < dumpTokenLen-1 {
			break
		}
		if count < ConfigSize {
			tok := strings.TrimSpace(string(buf[:n]))
			v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 16)
			if err != nil {
				return nil, fmt.Errorf("bad config byte token %q: %w", tok, err)
			}
			cfg.raw[count] = byte(v)
		}
		count++
	}
	if count != ConfigSize {
		return nil, &DumpLengthError{Got: count, Want: ConfigSize}
	}

	if err := cfg.VerifyChecksum(); err != nil {
		return nil, err
	}
	return cfg, nil
}
