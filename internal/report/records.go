package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fbettag/router-stats/internal/format"
	"github.com/fbettag/router-stats/internal/router"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	unknown        = "Unknown"
	notAvailable   = "N/A"
	locationNotSet = "Not set"
	wired          = "Wired"
)

var locationSeparators = strings.NewReplacer("_", " ", "-", " ")

// MeshDevice is a normalized mesh node.
type MeshDevice struct {
	Name             string        `json:"name"`
	DeviceType       string        `json:"device_type"`
	IP               string        `json:"ip"`
	MAC              string        `json:"mac"`
	ConnectedClients int64         `json:"connected_clients"`
	Location         string        `json:"location"`
	SignalStrength   router.Signal `json:"signal_strength"`
	ClientNames      []string      `json:"client_names"`
}

// NewMeshDevice applies defaults to a raw mesh node. clientNames may be nil
// when the node's client list was not fetched.
func NewMeshDevice(node router.MeshNode, clientNames []string) MeshDevice {
	if clientNames == nil {
		clientNames = []string{}
	}
	return MeshDevice{
		Name:             node.Name.Or(unknown),
		DeviceType:       node.DeviceType.Or(unknown),
		IP:               node.IP.Or(notAvailable),
		MAC:              node.MAC.Or(notAvailable),
		ConnectedClients: node.ClientNum.Or(0),
		Location:         NormalizeLocation(node.Location.Or("")),
		SignalStrength:   node.SignalStrength,
		ClientNames:      clientNames,
	}
}

// HasMAC reports whether the node's client detail can be requested.
func (d MeshDevice) HasMAC() bool {
	return d.MAC != notAvailable && d.MAC != ""
}

// SignalText is the signal strength out of five, or the sentinel.
func (d MeshDevice) SignalText() string {
	if !d.SignalStrength.Valid {
		return router.SignalNotApplicable
	}
	return fmt.Sprintf("%d/5", d.SignalStrength.Value)
}

// Row returns the cells printed for this node, in meshColumns order.
func (d MeshDevice) Row() []string {
	return []string{
		d.Name,
		d.DeviceType,
		d.IP,
		strconv.FormatInt(d.ConnectedClients, 10),
		d.Location,
		d.SignalText(),
		strings.Join(d.ClientNames, ", "),
	}
}

// NormalizeLocation turns a location id such as "living_room" into
// "Living Room". Blank or single character locations become "Not set".
func NormalizeLocation(loc string) string {
	loc = strings.Join(strings.Fields(locationSeparators.Replace(loc)), " ")
	if utf8.RuneCountInString(loc) <= 1 {
		return locationNotSet
	}
	return cases.Title(language.Und).String(loc)
}

// ClientNames flattens both client lists of a mesh node into the names of
// the entries that have one.
func ClientNames(mc router.MeshClients) []string {
	names := []string{}
	for _, list := range []router.ClientList{mc.NClients, mc.SClients} {
		for _, c := range list {
			if c.Name.Set {
				names = append(names, c.Name.Val)
			}
		}
	}
	return names
}

// SmartDevice is a normalized traffic accelerator record.
type SmartDevice struct {
	Name          string        `json:"name"`
	DeviceType    string        `json:"device_type"`
	IP            string        `json:"ip"`
	TrafficUsage  int64         `json:"traffic_usage"`
	DownloadSpeed int64         `json:"download_speed"`
	UploadSpeed   int64         `json:"upload_speed"`
	RxRate        int64         `json:"rx_rate"`
	TxRate        int64         `json:"tx_rate"`
	Signal        router.Signal `json:"signal"`
}

// NewSmartDevice applies defaults to a raw accelerator record.
func NewSmartDevice(c router.SmartClient) SmartDevice {
	return SmartDevice{
		Name:          c.DeviceName.Or(unknown),
		DeviceType:    c.DeviceType.Or(unknown),
		IP:            c.IP.Or(notAvailable),
		TrafficUsage:  c.TrafficUsage.Or(0),
		DownloadSpeed: c.DownloadSpeed.Or(0),
		UploadSpeed:   c.UploadSpeed.Or(0),
		RxRate:        c.RxRate.Or(0),
		TxRate:        c.TxRate.Or(0),
		Signal:        c.Signal,
	}
}

// Wired reports whether the device has no wireless signal reading.
func (d SmartDevice) Wired() bool {
	return !d.Signal.Valid
}

// LinkText is the negotiated link speed, or "Wired" for ethernet clients.
func (d SmartDevice) LinkText() string {
	if d.Wired() {
		return wired
	}
	return format.LinkSpeed(d.RxRate, d.TxRate)
}

// Row returns the cells printed for this device, in deviceColumns order.
func (d SmartDevice) Row() []string {
	return []string{
		d.Name,
		d.DeviceType,
		d.IP,
		format.Bytes(float64(d.TrafficUsage)),
		format.Throughput(d.DownloadSpeed, d.UploadSpeed),
		d.Signal.String(),
		d.LinkText(),
	}
}
