// Package units formats byte counts and rates for display.
package units

import (
	"fmt"
	"math"
)

var (
	byteUnits = []string{"B", "KB", "MB", "GB", "TB"}
	rateUnits = []string{"B/s", "KB/s", "MB/s", "GB/s"}
)

// Bytes formats a byte count with binary (1024) scaling, e.g. "512 B",
// "1.5 KB", "3.2 GB".
func Bytes(n uint64) string {
	return scaled(float64(n), byteUnits)
}

// ByteRate formats a bytes-per-second rate, e.g. "0 B/s", "1.5 MB/s".
// Negative and NaN rates render as "0 B/s".
func ByteRate(perSec float64) string {
	if perSec < 0 || math.IsNaN(perSec) {
		perSec = 0
	}
	return scaled(perSec, rateUnits)
}

func scaled(v float64, names []string) string {
	u := 0
	for v >= 1024 && u < len(names)-1 {
		v /= 1024
		u++
	}
	if u == 0 {
		return fmt.Sprintf("%d %s", int64(v), names[u])
	}
	return fmt.Sprintf("%.1f %s", v, names[u])
}

// Percent formats a percentage with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
