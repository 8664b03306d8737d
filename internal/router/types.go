package router

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Firmware identifies the router hardware and software.
type Firmware struct {
	HardwareVersion string `json:"hardware_version"`
	Model           string `json:"model"`
	FirmwareVersion string `json:"firmware_version"`
}

// Status is the router-wide summary shown on top of the report.
// CPUUsage and MemoryUsage are fractions in [0,1].
type Status struct {
	Uptime       int64   `json:"uptime"`
	CPUUsage     float64 `json:"cpu_usage"`
	MemoryUsage  float64 `json:"memory_usage"`
	ClientsTotal int     `json:"clients_total"`
	WiredTotal   int     `json:"wired_total"`
	WifiTotal    int     `json:"wifi_total"`
}

// MeshNode is one entry of the mesh device list as the router reports it.
// Every field is optional; defaults are applied by the report normalizer.
type MeshNode struct {
	Name           FlexString `json:"name"`
	DeviceType     FlexString `json:"device_type"`
	IP             FlexString `json:"ip"`
	MAC            FlexString `json:"mac"`
	ClientNum      FlexInt    `json:"client_num"`
	Location       FlexString `json:"location"`
	SignalStrength Signal     `json:"signal_strength"`
}

// SmartClient is one per-device traffic record from the traffic accelerator.
type SmartClient struct {
	DeviceName    FlexString `json:"deviceName"`
	DeviceType    FlexString `json:"deviceType"`
	IP            FlexString `json:"ip"`
	TrafficUsage  FlexInt    `json:"trafficUsage"`
	DownloadSpeed FlexInt    `json:"downloadSpeed"`
	UploadSpeed   FlexInt    `json:"uploadSpeed"`
	RxRate        FlexInt    `json:"rxrate"`
	TxRate        FlexInt    `json:"txrate"`
	Signal        Signal     `json:"signal"`
}

// ClientEntry is a client attached to a mesh node. Entries without a name
// are kept so callers can see them, but carry Name.Set == false.
type ClientEntry struct {
	Name FlexString `json:"name"`
}

// ClientList is a list of client entries that the router sends either as a
// JSON array or as an object keyed by some client id. Objects are flattened
// in document order.
type ClientList []ClientEntry

func (l *ClientList) UnmarshalJSON(b []byte) error {
	*l = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, jsonNull) {
		return nil
	}

	var raws []json.RawMessage
	switch b[0] {
	case '[':
		if err := json.Unmarshal(b, &raws); err != nil {
			return fmt.Errorf("client list: %w", err)
		}
	case '{':
		values, err := orderedValues(b)
		if err != nil {
			return fmt.Errorf("client map: %w", err)
		}
		raws = values
	default:
		// Neither shape; nothing to extract.
		return nil
	}

	entries := make(ClientList, 0, len(raws))
	for _, raw := range raws {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var e ClientEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	*l = entries
	return nil
}

// orderedValues returns the values of a JSON object in the order they appear.
func orderedValues(b []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// MeshClients is the per-node client detail. The two lists are reported
// separately by the router; names are extracted from both in order.
type MeshClients struct {
	NClients ClientList `json:"mesh_nclient_list"`
	SClients ClientList `json:"mesh_sclient_list"`
}
