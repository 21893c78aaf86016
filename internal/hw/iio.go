package hw

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// sysfsADC reads raw sample counts from a Linux IIO device directory, e.g.
// /sys/bus/iio/devices/iio:device0. Channel N is the in_voltageN_raw
// attribute.
type sysfsADC struct {
	dir string
}

func newSysfsADC(dir string) *sysfsADC {
	return &sysfsADC{dir: dir}
}

func (a *sysfsADC) Read(ch int) (uint16, error) {
	name := filepath.Join(a.dir, fmt.Sprintf("in_voltage%d_raw", ch))
	b, err := os.ReadFile(name)
	if err != nil {
		return 0, fmt.Errorf("read adc channel %d: %w", ch, err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse adc channel %d: %w", ch, err)
	}
	return uint16(v), nil
}
