package tplink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fbettag/router-stats/internal/router"
)

const (
	firmwarePath     = "admin/firmware?form=upgrade&operation=read"
	statusPath       = "admin/status?form=all&operation=read"
	meshListPath     = "admin/easymesh_network?form=get_mesh_device_list_all&operation=read"
	meshClientsPath  = "admin/easymesh_network?form=mesh_sclient_detail&operation=read&mac="
	smartDevicesPath = "admin/smart_network?form=game_accelerator&operation=loadDevice"

	readPayload       = "operation=read"
	loadDevicePayload = "operation=loadDevice"
)

// Firmware returns hardware and firmware versions.
func (c *Client) Firmware() (router.Firmware, error) {
	data, err := c.Request(firmwarePath, readPayload)
	if err != nil {
		return router.Firmware{}, err
	}

	var fw struct {
		HardwareVersion router.FlexString `json:"hardware_version"`
		Model           router.FlexString `json:"model"`
		FirmwareVersion router.FlexString `json:"firmware_version"`
	}
	if err := json.Unmarshal(data, &fw); err != nil {
		return router.Firmware{}, fmt.Errorf("failed to decode firmware: %w", err)
	}

	return router.Firmware{
		HardwareVersion: fw.HardwareVersion.Val,
		Model:           fw.Model.Val,
		FirmwareVersion: fw.FirmwareVersion.Val,
	}, nil
}

// itemCount decodes a JSON array into its length. Anything that is not an
// array counts as empty; some firmwares send "" for an empty host list.
type itemCount int

func (n *itemCount) UnmarshalJSON(b []byte) error {
	*n = 0
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil
	}
	*n = itemCount(len(items))
	return nil
}

// Status returns uptime, load and the connected client counts. Guest
// wireless clients are counted as wifi clients.
func (c *Client) Status() (router.Status, error) {
	data, err := c.Request(statusPath, readPayload)
	if err != nil {
		return router.Status{}, err
	}

	var st struct {
		WanIPv4Uptime router.FlexInt   `json:"wan_ipv4_uptime"`
		CPUUsage      router.FlexFloat `json:"cpu_usage"`
		MemUsage      router.FlexFloat `json:"mem_usage"`
		Wired         itemCount        `json:"access_devices_wired"`
		Wireless      itemCount        `json:"access_devices_wireless_host"`
		Guest         itemCount        `json:"access_devices_wireless_guest"`
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return router.Status{}, fmt.Errorf("failed to decode status: %w", err)
	}

	wired := int(st.Wired)
	wifi := int(st.Wireless) + int(st.Guest)
	return router.Status{
		Uptime:       st.WanIPv4Uptime.Or(0),
		CPUUsage:     st.CPUUsage.Val,
		MemoryUsage:  st.MemUsage.Val,
		ClientsTotal: wired + wifi,
		WiredTotal:   wired,
		WifiTotal:    wifi,
	}, nil
}

// MeshNodes lists the main router and its satellites.
func (c *Client) MeshNodes() ([]router.MeshNode, error) {
	data, err := c.Request(meshListPath, readPayload)
	if err != nil {
		return nil, err
	}
	return decodeList[router.MeshNode](c, "mesh device", data)
}

// MeshClients returns the clients attached to the mesh node with the given MAC.
func (c *Client) MeshClients(mac string) (router.MeshClients, error) {
	data, err := c.Request(meshClientsPath+url.QueryEscape(mac), readPayload)
	if err != nil {
		return router.MeshClients{}, err
	}

	var mc router.MeshClients
	if isNull(data) {
		return mc, nil
	}
	if err := json.Unmarshal(data, &mc); err != nil {
		c.logger.Warnf("Ignoring unreadable client list of %s: %v", mac, err)
		return router.MeshClients{}, nil
	}
	return mc, nil
}

// SmartDevices returns the traffic accelerator's per-device records.
func (c *Client) SmartDevices() ([]router.SmartClient, error) {
	data, err := c.Request(smartDevicesPath, loadDevicePayload)
	if err != nil {
		return nil, err
	}
	return decodeList[router.SmartClient](c, "device", data)
}

// decodeList decodes a JSON array element by element. Elements that are not
// records are logged and skipped; a payload that is not an array is an error.
func decodeList[T any](c *Client, what string, data json.RawMessage) ([]T, error) {
	if isNull(data) {
		return []T{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", what, err)
	}

	items := make([]T, 0, len(raws))
	for i, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			c.logger.Warnf("Skipping %s #%d: %v", what, i, err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func isNull(data json.RawMessage) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || bytes.Equal(data, []byte("null"))
}
