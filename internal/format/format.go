// Package format turns raw router counters into short human readable text.
package format

import (
	"fmt"
	"strings"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// Duration renders seconds as the non-zero day/hour/minute/second parts,
// e.g. "1d 1h" or "1m 1s". Zero renders as "0s".
func Duration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	days, seconds := seconds/86400, seconds%86400
	hours, seconds := seconds/3600, seconds%3600
	minutes, seconds := seconds/60, seconds%60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}

// Bytes renders a byte count in binary steps of 1024, stopping at PB.
func Bytes(n float64) string {
	unit := byteUnits[0]
	for _, u := range byteUnits[1:] {
		if n < 1024 {
			break
		}
		n /= 1024
		unit = u
	}
	return fmt.Sprintf("%.2f %s", n, unit)
}

type rateScale struct {
	limit   int64
	divisor float64
	unit    string
}

var (
	bitRateScales = []rateScale{
		{1_000, 1, "bps"},
		{1_000_000, 1_000, "Kbps"},
		{0, 1_000_000, "Mbps"},
	}
	linkSpeedScales = []rateScale{
		{1_000, 1, "Kbps"},
		{1_000_000, 1_000, "Mbps"},
		{0, 1_000_000, "Gbps"},
	}
)

// Throughput renders a download/upload pair given in bytes per second as bits
// per second. Both values share the unit picked by the larger one.
func Throughput(down, up int64) string {
	return pair(down*8, up*8, bitRateScales)
}

// LinkSpeed renders an rx/tx link rate pair reported in Kbps.
func LinkSpeed(rx, tx int64) string {
	return pair(rx, tx, linkSpeedScales)
}

func pair(a, b int64, scales []rateScale) string {
	peak := a
	if b > peak {
		peak = b
	}

	scale := scales[len(scales)-1]
	for _, s := range scales[:len(scales)-1] {
		if peak < s.limit {
			scale = s
			break
		}
	}

	if scale.divisor == 1 {
		return fmt.Sprintf("%d/%d %s", a, b, scale.unit)
	}
	return fmt.Sprintf("%.2f/%.2f %s", float64(a)/scale.divisor, float64(b)/scale.divisor, scale.unit)
}
