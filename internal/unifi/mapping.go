package unifi

import (
	"strings"

	"github.com/fbettag/router-stats/internal/router"
	"github.com/unpoller/unifi/v5"
)

func optional(s string) router.FlexString {
	if s == "" {
		return router.FlexString{}
	}
	return router.String(s)
}

// stationName prefers the alias set in the controller over the hostname.
func stationName(s *unifi.Client) string {
	if s.Name != "" {
		return s.Name
	}
	return s.Hostname
}

// sameMAC compares MAC addresses regardless of case and separator.
func sameMAC(a, b string) bool {
	norm := strings.NewReplacer("-", ":", ".", "")
	return strings.EqualFold(norm.Replace(a), norm.Replace(b))
}

func firmwareFromAPs(aps []*unifi.UAP) router.Firmware {
	if len(aps) == 0 {
		return router.Firmware{}
	}
	ap := aps[0]
	return router.Firmware{
		HardwareVersion: ap.Model,
		Model:           ap.Model,
		FirmwareVersion: ap.Version,
	}
}

func statusFrom(aps []*unifi.UAP, stations []*unifi.Client) router.Status {
	var st router.Status
	if len(aps) > 0 {
		st.Uptime = int64(aps[0].Uptime.Val)
	}
	for _, s := range stations {
		if s.IsWired.Val {
			st.WiredTotal++
		} else {
			st.WifiTotal++
		}
	}
	st.ClientsTotal = st.WiredTotal + st.WifiTotal
	return st
}

func nodeFromAP(ap *unifi.UAP) router.MeshNode {
	return router.MeshNode{
		Name:       optional(ap.Name),
		DeviceType: optional(ap.Model),
		IP:         optional(ap.IP),
		MAC:        optional(ap.Mac),
		ClientNum:  router.Int(int64(ap.NumSta.Val)),
	}
}

func clientsOfAP(mac string, stations []*unifi.Client) router.MeshClients {
	list := router.ClientList{}
	for _, s := range stations {
		if s.IsWired.Val || !sameMAC(s.ApMac, mac) {
			continue
		}
		list = append(list, router.ClientEntry{Name: optional(stationName(s))})
	}
	return router.MeshClients{SClients: list}
}

func deviceFromStation(s *unifi.Client) router.SmartClient {
	dev := router.SmartClient{
		DeviceName:    optional(stationName(s)),
		IP:            optional(s.IP),
		TrafficUsage:  router.Int(int64(s.TxBytes.Val + s.RxBytes.Val)),
		DownloadSpeed: router.Int(int64(s.TxBytesR.Val)),
		UploadSpeed:   router.Int(int64(s.RxBytesR.Val)),
	}

	if s.IsWired.Val {
		dev.DeviceType = router.String("wired")
		return dev
	}

	dev.DeviceType = router.String("wireless")
	if s.RadioProto != "" {
		dev.DeviceType = router.String("wifi " + s.RadioProto)
	}
	dev.RxRate = router.Int(int64(s.RxRate.Val))
	dev.TxRate = router.Int(int64(s.TxRate.Val))
	dev.Signal = router.SignalOf(int64(s.Satisfaction.Val))
	return dev
}
