// Package report normalizes router records and renders them as console
// tables and a JSON snapshot.
package report

import (
	"fmt"

	"github.com/fbettag/router-stats/internal/router"
	"github.com/sirupsen/logrus"
)

// Reporter runs the fixed fetch, print and collect sequence against one
// authorized router session.
type Reporter struct {
	Console      *Console
	Logger       *logrus.Logger
	SnapshotPath string // empty disables the snapshot file
}

// NewReporter creates a reporter printing to console.
func NewReporter(console *Console, logger *logrus.Logger, snapshotPath string) *Reporter {
	return &Reporter{
		Console:      console,
		Logger:       logger,
		SnapshotPath: snapshotPath,
	}
}

// Run queries c and prints the report as it goes. Rows follow the order the
// router returns them in. Any request error aborts the run.
func (r *Reporter) Run(c router.Client) (*Snapshot, error) {
	snap := &Snapshot{
		MeshData: []MeshDevice{},
		Devices:  []SmartDevice{},
	}

	firmware, err := c.Firmware()
	if err != nil {
		return nil, fmt.Errorf("failed to get firmware: %w", err)
	}
	snap.Firmware = firmware
	r.Logger.Debugf("Router %s, firmware %s", firmware.Model, firmware.FirmwareVersion)

	status, err := c.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	snap.Status = status
	r.Console.Status(status)

	nodes, err := c.MeshNodes()
	if err != nil {
		return nil, fmt.Errorf("failed to get mesh devices: %w", err)
	}
	r.Logger.Debugf("Router reported %d mesh nodes", len(nodes))

	r.Console.MeshHeader()
	for _, node := range nodes {
		device := NewMeshDevice(node, nil)
		if device.HasMAC() {
			clients, err := c.MeshClients(device.MAC)
			if err != nil {
				return nil, fmt.Errorf("failed to get clients of mesh node %s: %w", device.MAC, err)
			}
			device.ClientNames = ClientNames(clients)
		} else {
			r.Logger.Debugf("Mesh node %q has no MAC address, skipping client lookup", device.Name)
		}

		r.Console.MeshRow(device)
		snap.MeshData = append(snap.MeshData, device)
	}
	r.Console.EndTable()

	clients, err := c.SmartDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to get device traffic: %w", err)
	}
	r.Logger.Debugf("Router reported %d devices", len(clients))

	r.Console.DeviceHeader()
	for _, client := range clients {
		device := NewSmartDevice(client)
		r.Console.DeviceRow(device)
		snap.Devices = append(snap.Devices, device)
	}
	r.Console.EndTable()

	if err := r.Console.Err(); err != nil {
		return nil, fmt.Errorf("failed to print report: %w", err)
	}

	if r.SnapshotPath != "" {
		if err := snap.WriteFile(r.SnapshotPath); err != nil {
			return nil, err
		}
		r.Logger.Infof("Snapshot written to %s", r.SnapshotPath)
	}

	return snap, nil
}

// Render prints a previously collected snapshot exactly as Run printed it.
func (r *Reporter) Render(snap *Snapshot) error {
	r.Console.Status(snap.Status)

	r.Console.MeshHeader()
	for _, device := range snap.MeshData {
		r.Console.MeshRow(device)
	}
	r.Console.EndTable()

	r.Console.DeviceHeader()
	for _, device := range snap.Devices {
		r.Console.DeviceRow(device)
	}
	r.Console.EndTable()

	return r.Console.Err()
}
