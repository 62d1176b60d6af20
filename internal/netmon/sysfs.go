package netmon

import (
	"bufio"
	"bytes"
	"io/fs"
	"path"
	"strings"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

// sysfsTransports derives the transports of an interface from its sysfs
// entry (rooted at /sys/class/net) and its netlink link and encapsulation type.
func sysfsTransports(fsys fs.FS, name, linkType, encapType string) []reach.Transport {
	switch linkType {
	case "tuntap", "wireguard", "ipip", "gre", "ip6tnl", "vti", "vti6", "sit":
		return []reach.Transport{reach.TransportVPN}
	}

	var transports []reach.Transport
	switch ueventDevType(fsys, name) {
	case "wlan":
		transports = append(transports, reach.TransportWifi)
	case "wwan":
		transports = append(transports, reach.TransportCellular)
	case "bluetooth":
		transports = append(transports, reach.TransportBluetooth)
	case "lowpan":
		transports = append(transports, reach.TransportLowPan)
	}

	if len(transports) == 0 && (exists(fsys, path.Join(name, "wireless")) || exists(fsys, path.Join(name, "phy80211"))) {
		transports = append(transports, reach.TransportWifi)
	}

	if len(transports) == 0 && encapType == "ether" && linkType == "device" {
		transports = append(transports, reach.TransportEthernet)
	}

	return transports
}

func ueventDevType(fsys fs.FS, name string) string {
	data, err := fs.ReadFile(fsys, path.Join(name, "uevent"))
	if err != nil {
		return ""
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if v, ok := strings.CutPrefix(scanner.Text(), "DEVTYPE="); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func exists(fsys fs.FS, name string) bool {
	_, err := fs.Stat(fsys, name)
	return err == nil
}
