package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{1, "1s"},
		{59, "59s"},
		{60, "1m"},
		{61, "1m 1s"},
		{3600, "1h"},
		{3661, "1h 1m 1s"},
		{86400, "1d"},
		{86401, "1d 1s"},
		{90000, "1d 1h"},
		{93784, "1d 2h 3m 4s"},
		{30 * 86400, "30d"},
		{-5, "0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.seconds), "Duration(%d)", tt.seconds)
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{2.35 * 1024 * 1024, "2.35 MB"},
		{math.Pow(1024, 3) * 7.5, "7.50 GB"},
		{math.Pow(1024, 4), "1.00 TB"},
		{math.Pow(1024, 5), "1.00 PB"},
		{math.Pow(1024, 6), "1024.00 PB"},
		{math.Pow(1024, 7), "1048576.00 PB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Bytes(tt.in), "Bytes(%v)", tt.in)
	}
}

func TestThroughput(t *testing.T) {
	tests := []struct {
		name     string
		down, up int64
		want     string
	}{
		{"idle", 0, 0, "0/0 bps"},
		{"below first threshold", 124, 3, "992/24 bps"},
		{"exactly 1000 bits promotes", 125, 0, "1.00/0.00 Kbps"},
		{"upload picks unit", 0, 125, "0.00/1.00 Kbps"},
		{"kilobits", 1000, 500, "8.00/4.00 Kbps"},
		{"exactly 1000000 bits promotes", 125_000, 0, "1.00/0.00 Mbps"},
		{"shared unit from the larger value", 10, 200_000, "0.00/1.60 Mbps"},
		{"fast line", 12_500_000, 1_250_000, "100.00/10.00 Mbps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Throughput(tt.down, tt.up))
		})
	}
}

func TestBitRateBoundaries(t *testing.T) {
	// Bit values that cannot be produced from whole bytes.
	assert.Equal(t, "999/0 bps", pair(999, 0, bitRateScales))
	assert.Equal(t, "1.00/0.00 Kbps", pair(1000, 0, bitRateScales))
	assert.Equal(t, "0/999 bps", pair(0, 999, bitRateScales))
	assert.Equal(t, "0.00/1.00 Kbps", pair(0, 1000, bitRateScales))
	assert.Equal(t, "1000.00/0.00 Kbps", pair(999_999, 0, bitRateScales))
	assert.Equal(t, "1.00/0.00 Mbps", pair(1_000_000, 0, bitRateScales))
}

func TestLinkSpeed(t *testing.T) {
	tests := []struct {
		name   string
		rx, tx int64
		want   string
	}{
		{"zero", 0, 0, "0/0 Kbps"},
		{"kilobits", 999, 12, "999/12 Kbps"},
		{"exactly 1000 promotes", 999, 1000, "1.00/1.00 Mbps"},
		{"wifi 5", 866_000, 144_000, "866.00/144.00 Mbps"},
		{"rx picks unit", 1_201_000, 5, "1.20/0.00 Gbps"},
		{"tx picks unit", 5, 2_402_000, "0.00/2.40 Gbps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinkSpeed(tt.rx, tt.tx))
		})
	}
}
