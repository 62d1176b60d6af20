package netmon

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

func testSysfs() fstest.MapFS {
	return fstest.MapFS{
		"wlan0/uevent":       {Data: []byte("DEVTYPE=wlan\nINTERFACE=wlan0\nIFINDEX=3\n")},
		"wlp2s0/uevent":      {Data: []byte("INTERFACE=wlp2s0\nIFINDEX=4\n")},
		"wlp2s0/phy80211":    {Data: []byte{}},
		"wlx1/wireless":      {Data: []byte{}},
		"wwan0/uevent":       {Data: []byte("DEVTYPE=wwan\nINTERFACE=wwan0\n")},
		"bnep0/uevent":       {Data: []byte("DEVTYPE=bluetooth\n")},
		"eth0/uevent":        {Data: []byte("INTERFACE=eth0\nIFINDEX=2\n")},
		"lowpan0/uevent":     {Data: []byte("DEVTYPE=lowpan\n")},
		"br0/uevent":         {Data: []byte("DEVTYPE=bridge\n")},
		"usb0/uevent":        {Data: []byte("DEVTYPE=gadget\n")},
		"mystery0/something": {Data: []byte{}},
	}
}

func TestSysfsTransports(t *testing.T) {
	fsys := testSysfs()

	tests := []struct {
		name      string
		iface     string
		linkType  string
		encapType string
		want      []reach.Transport
	}{
		{"uevent wlan", "wlan0", "device", "ether", []reach.Transport{reach.TransportWifi}},
		{"phy80211 entry", "wlp2s0", "device", "ether", []reach.Transport{reach.TransportWifi}},
		{"wireless entry", "wlx1", "device", "ether", []reach.Transport{reach.TransportWifi}},
		{"wwan", "wwan0", "device", "none", []reach.Transport{reach.TransportCellular}},
		{"bluetooth", "bnep0", "device", "ether", []reach.Transport{reach.TransportBluetooth}},
		{"lowpan", "lowpan0", "lowpan", "6lowpan", []reach.Transport{reach.TransportLowPan}},
		{"ethernet", "eth0", "device", "ether", []reach.Transport{reach.TransportEthernet}},
		{"bridge is not a device", "br0", "bridge", "ether", nil},
		{"wireguard", "wg0", "wireguard", "none", []reach.Transport{reach.TransportVPN}},
		{"tun", "tun0", "tuntap", "none", []reach.Transport{reach.TransportVPN}},
		{"missing entry", "ghost0", "device", "none", nil},
		{"unknown non-ether", "mystery0", "device", "none", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sysfsTransports(fsys, tt.iface, tt.linkType, tt.encapType)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUeventDevType(t *testing.T) {
	fsys := testSysfs()
	assert.Equal(t, "wwan", ueventDevType(fsys, "wwan0"))
	assert.Equal(t, "", ueventDevType(fsys, "eth0"))
	assert.Equal(t, "", ueventDevType(fsys, "ghost0"))
}
