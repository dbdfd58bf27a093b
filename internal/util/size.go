package util

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

var iecUnits = []struct {
	size uint64
	name string
}{
	{humanize.PiByte, "PiB"},
	{humanize.TiByte, "TiB"},
	{humanize.GiByte, "GiB"},
	{humanize.MiByte, "MiB"},
	{humanize.KiByte, "KiB"},
}

// ToSize renders bytes with IEC units and two decimals, e.g. "1.50 GiB";
// 0 renders "Unknown".
func ToSize(bytes int64) string {
	if bytes <= 0 {
		return "Unknown"
	}
	for _, unit := range iecUnits {
		if uint64(bytes) >= unit.size {
			return fmt.Sprintf("%.2f %s", float64(bytes)/float64(unit.size), unit.name)
		}
	}
	return humanize.IBytes(uint64(bytes))
}

// ParseSize accepts both SI and IEC suffixes, -1 when unparseable.
func ParseSize(size string) int64 {
	bytes, err := humanize.ParseBytes(size)
	if err != nil {
		return -1
	}
	return int64(bytes)
}
