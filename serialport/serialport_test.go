package serialport

import (
	"testing"

	"github.com/woazboat/go-kuaiqu/psu"
)

// The driver relies on these without naming *Port directly.
var (
	_ psu.Channel = (*Port)(nil)
	_ psu.Flusher = (*Port)(nil)
)

func TestOptions(t *testing.T) {
	cfg := Config{BaudRate: DefaultBaudRate}
	WithBaudRate(115200)(&cfg)

	if cfg.BaudRate != 115200 {
		t.Errorf("got baud rate %d, want 115200", cfg.BaudRate)
	}
}

func TestOpenMissingDevice(t *testing.T) {
	if _, err := Open("/dev/nonexistent-kuaiqu-port"); err == nil {
		t.Fatal("expected error opening missing device")
	}
}
