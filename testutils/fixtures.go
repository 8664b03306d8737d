package testutils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// TestPassword is the admin password the mock router accepts by default
const TestPassword = "testpassword123"

// MAC addresses used by the mesh fixtures
const (
	MainMAC      = "AA-BB-CC-00-00-01"
	SatelliteMAC = "AA-BB-CC-00-00-02"
)

// FirmwareJSON is the data of admin/firmware?form=upgrade
const FirmwareJSON = `{
	"hardware_version": "Archer C5400X v1.0",
	"model": "Archer C5400X",
	"firmware_version": "1.1.6 Build 20200831"
}`

// StatusJSON is the data of admin/status?form=all. Two wired, two wireless
// and one guest client.
const StatusJSON = `{
	"wan_ipv4_uptime": 90061,
	"cpu_usage": 0.12,
	"mem_usage": "0.5",
	"access_devices_wired": [{"hostname": "nas"}, {"hostname": "desktop"}],
	"access_devices_wireless_host": [{"hostname": "pixel"}, {"hostname": "laptop"}],
	"access_devices_wireless_guest": [{"hostname": "visitor"}]
}`

// MeshListJSON is the data of get_mesh_device_list_all: the main router on
// ethernet, a satellite and a node that reports no MAC address.
const MeshListJSON = `[
	{"name": "Archer", "device_type": "main", "ip": "192.168.0.1", "mac": "AA-BB-CC-00-00-01", "client_num": 2, "location": ""},
	{"name": "Deco", "device_type": "satellite", "ip": "192.168.0.2", "mac": "AA-BB-CC-00-00-02", "client_num": "2", "location": "living_room", "signal_strength": 4},
	{"device_type": "satellite", "location": "_"}
]`

// MeshClientsMapJSON is a client detail with a mapping shaped station list.
const MeshClientsMapJSON = `{
	"mesh_nclient_list": [{"name": "tv", "mac": "11-22-33-44-55-01"}],
	"mesh_sclient_list": {
		"11-22-33-44-55-02": {"name": "phone"},
		"11-22-33-44-55-03": {"mac": "11-22-33-44-55-03"}
	}
}`

// MeshClientsListJSON is a client detail with a list shaped station list.
const MeshClientsListJSON = `{
	"mesh_sclient_list": [{"name": "laptop"}, {"name": "printer"}]
}`

// SmartDevicesJSON is the data of the game accelerator device list. The last
// element is not a record and is expected to be skipped.
const SmartDevicesJSON = `[
	{"deviceName": "Pixel", "deviceType": "phone", "ip": "192.168.0.50", "trafficUsage": 2464154,
	 "downloadSpeed": 125000, "uploadSpeed": 100, "rxrate": 866000, "txrate": "866000", "signal": 81},
	{"deviceName": "NAS", "deviceType": "storage", "ip": "192.168.0.10", "trafficUsage": 512},
	"garbage"
]`

// NewTestLogger returns a logrus logger that only prints warnings and above
func NewTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel) // Reduce noise in tests
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
	})
	return logger
}

// NewSilentLogger returns a logrus logger that discards everything
func NewSilentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
