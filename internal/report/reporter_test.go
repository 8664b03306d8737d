package report

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fbettag/router-stats/internal/router"
	"github.com/fbettag/router-stats/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRouter struct {
	firmware router.Firmware
	status   router.Status
	nodes    []router.MeshNode
	clients  map[string]router.MeshClients
	devices  []router.SmartClient
	failOn   string
	calls    []string
}

func (f *fakeRouter) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (f *fakeRouter) Authorize() error { return f.call("authorize") }
func (f *fakeRouter) Logout() error    { return f.call("logout") }

func (f *fakeRouter) Firmware() (router.Firmware, error) {
	return f.firmware, f.call("firmware")
}

func (f *fakeRouter) Status() (router.Status, error) {
	return f.status, f.call("status")
}

func (f *fakeRouter) MeshNodes() ([]router.MeshNode, error) {
	return f.nodes, f.call("mesh")
}

func (f *fakeRouter) MeshClients(mac string) (router.MeshClients, error) {
	return f.clients[mac], f.call("clients:" + mac)
}

func (f *fakeRouter) SmartDevices() ([]router.SmartClient, error) {
	return f.devices, f.call("devices")
}

func newFakeRouter() *fakeRouter {
	return &fakeRouter{
		firmware: router.Firmware{HardwareVersion: "Archer C5400X v1.0", Model: "Archer C5400X", FirmwareVersion: "1.1.6"},
		status: router.Status{
			Uptime:       90000,
			CPUUsage:     0.125,
			MemoryUsage:  0.5,
			ClientsTotal: 5,
			WiredTotal:   2,
			WifiTotal:    3,
		},
		nodes: []router.MeshNode{
			{
				Name:           router.String("Living Room Deco"),
				DeviceType:     router.String("satellite"),
				IP:             router.String("192.168.0.2"),
				MAC:            router.String("AA-BB-CC-00-00-02"),
				ClientNum:      router.Int(2),
				Location:       router.String("living_room"),
				SignalStrength: router.SignalOf(4),
			},
			{
				Name:       router.String("Archer"),
				DeviceType: router.String("main"),
				IP:         router.String("192.168.0.1"),
			},
			{
				Name:      router.String("Office Deco"),
				MAC:       router.String("AA-BB-CC-00-00-03"),
				ClientNum: router.Int(1),
			},
		},
		clients: map[string]router.MeshClients{
			"AA-BB-CC-00-00-02": {
				NClients: router.ClientList{{Name: router.String("tv")}},
				SClients: router.ClientList{{Name: router.String("phone")}, {}},
			},
			"AA-BB-CC-00-00-03": {
				SClients: router.ClientList{{Name: router.String("printer")}},
			},
		},
		devices: []router.SmartClient{
			{
				DeviceName:    router.String("Pixel"),
				DeviceType:    router.String("phone"),
				IP:            router.String("192.168.0.50"),
				TrafficUsage:  router.Int(2_464_154),
				DownloadSpeed: router.Int(125_000),
				UploadSpeed:   router.Int(100),
				RxRate:        router.Int(866_000),
				TxRate:        router.Int(866_000),
				Signal:        router.SignalOf(81),
			},
			{
				DeviceName:   router.String("NAS"),
				DeviceType:   router.String("storage"),
				IP:           router.String("192.168.0.10"),
				TrafficUsage: router.Int(512),
			},
		},
	}
}

func TestReporterRun(t *testing.T) {
	fake := newFakeRouter()
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "snapshot.json")

	r := NewReporter(NewConsole(&out, PlainTheme()), testutils.NewSilentLogger(), path)
	snap, err := r.Run(fake)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"firmware",
		"status",
		"mesh",
		"clients:AA-BB-CC-00-00-02",
		"clients:AA-BB-CC-00-00-03",
		"devices",
	}, fake.calls, "nodes without MAC get no client lookup")

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "Uptime: 1d 1h | CPU: 12.5% | RAM: 50.0%", lines[0])
	assert.Equal(t, "Devices connected: 5 (2 wired/3 wifi)", lines[1])
	assert.Equal(t, "", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Device Name          Type             IP Address       Clients Location"))
	assert.Equal(t, strings.Join([]string{
		strings.Repeat("-", 20), strings.Repeat("-", 16), strings.Repeat("-", 16),
		strings.Repeat("-", 7), strings.Repeat("-", 20), strings.Repeat("-", 6), strings.Repeat("-", 80),
	}, " "), lines[4])
	assert.Equal(t,
		"Living Room Deco     satellite        192.168.0.2      2       Living Room          4/5    tv, phone",
		lines[5])
	assert.Equal(t,
		"Archer               main             192.168.0.1      0       Not set              -",
		lines[6])
	assert.Equal(t,
		"Office Deco          Unknown          N/A              1       Not set              -      printer",
		lines[7])
	assert.Equal(t, "", lines[8])
	assert.True(t, strings.HasPrefix(lines[9], "Device Name          Type             IP Address       Transferred  Download/Upload"))
	assert.Equal(t,
		"Pixel                phone            192.168.0.50     2.35 MB      1.00/0.00 Mbps             81     866.00/866.00 Mbps",
		lines[11])
	assert.Equal(t,
		"NAS                  storage          192.168.0.10     512.00 B     0/0 bps                    -      Wired",
		lines[12])

	require.Len(t, snap.MeshData, 3)
	require.Len(t, snap.Devices, 2)
	assert.Equal(t, []string{"tv", "phone"}, snap.MeshData[0].ClientNames)
	assert.Equal(t, []string{}, snap.MeshData[1].ClientNames)
	assert.Equal(t, fake.firmware, snap.Firmware)

	t.Run("snapshot file renders the same report", func(t *testing.T) {
		saved, err := ReadSnapshot(path)
		require.NoError(t, err)
		assert.Equal(t, snap, saved)

		var replay bytes.Buffer
		require.NoError(t, NewReporter(NewConsole(&replay, PlainTheme()), testutils.NewSilentLogger(), "").Render(saved))
		assert.Equal(t, out.String(), replay.String())
	})
}

func TestReporterSnapshotKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	r := NewReporter(NewConsole(io.Discard, PlainTheme()), testutils.NewSilentLogger(), path)
	_, err := r.Run(newFakeRouter())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"firmware"`, `"status"`, `"mesh_data"`, `"devices"`, `"signal_strength": "-"`} {
		assert.Contains(t, string(data), key)
	}
	assert.NotContains(t, string(data), "stale")
}

func TestReporterEmptyLists(t *testing.T) {
	fake := newFakeRouter()
	fake.nodes = nil
	fake.devices = nil
	path := filepath.Join(t.TempDir(), "snapshot.json")

	r := NewReporter(NewConsole(io.Discard, PlainTheme()), testutils.NewSilentLogger(), path)
	snap, err := r.Run(fake)
	require.NoError(t, err)
	assert.Empty(t, snap.MeshData)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"mesh_data": []`)
	assert.Contains(t, string(data), `"devices": []`)
}

func TestReporterErrors(t *testing.T) {
	for _, failOn := range []string{"firmware", "status", "mesh", "clients:AA-BB-CC-00-00-02", "devices"} {
		t.Run(failOn, func(t *testing.T) {
			fake := newFakeRouter()
			fake.failOn = failOn
			path := filepath.Join(t.TempDir(), "snapshot.json")

			r := NewReporter(NewConsole(io.Discard, PlainTheme()), testutils.NewSilentLogger(), path)
			snap, err := r.Run(fake)
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.Contains(t, err.Error(), failOn+" failed")

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "no partial snapshot on error")
		})
	}

	t.Run("snapshot write failure", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing-dir", "snapshot.json")
		r := NewReporter(NewConsole(io.Discard, PlainTheme()), testutils.NewSilentLogger(), path)
		_, err := r.Run(newFakeRouter())
		require.Error(t, err)
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestReporterConsoleError(t *testing.T) {
	r := NewReporter(NewConsole(failingWriter{}, PlainTheme()), testutils.NewSilentLogger(), "")
	_, err := r.Run(newFakeRouter())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestRunWithSession(t *testing.T) {
	fake := newFakeRouter()
	fake.failOn = "mesh"

	r := NewReporter(NewConsole(io.Discard, PlainTheme()), testutils.NewSilentLogger(), "")
	err := router.WithSession(fake, func(c router.Client) error {
		_, err := r.Run(c)
		return err
	})
	require.Error(t, err)
	assert.Equal(t, "logout", fake.calls[len(fake.calls)-1])
}
