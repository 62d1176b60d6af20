package netmon

import (
	"fmt"
	"os"

	"howett.net/plist"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

// systemInterfacesPlist is where macOS records the hardware type of each
// network interface.
const systemInterfacesPlist = "/Library/Preferences/SystemConfiguration/NetworkInterfaces.plist"

type scNetworkInterface struct {
	BSDName string `plist:"BSD Name"`
	Type    string `plist:"SCNetworkInterfaceType"`
}

type scNetworkInterfaces struct {
	Interfaces []scNetworkInterface `plist:"Interfaces"`
}

// parseInterfaceTransports decodes a NetworkInterfaces.plist document into a
// map of BSD interface name to transport. Interface types without a
// transport mapping are omitted.
func parseInterfaceTransports(data []byte) (map[string]reach.Transport, error) {
	var prefs scNetworkInterfaces
	if _, err := plist.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("decode interface preferences: %w", err)
	}

	table := make(map[string]reach.Transport, len(prefs.Interfaces))
	for _, iface := range prefs.Interfaces {
		if iface.BSDName == "" {
			continue
		}
		switch iface.Type {
		case "IEEE80211":
			table[iface.BSDName] = reach.TransportWifi
		case "Ethernet", "Bond", "VLAN", "Bridge":
			table[iface.BSDName] = reach.TransportEthernet
		case "WWAN":
			table[iface.BSDName] = reach.TransportCellular
		case "Bluetooth":
			table[iface.BSDName] = reach.TransportBluetooth
		}
	}
	return table, nil
}

func loadInterfaceTransports(path string) (map[string]reach.Transport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseInterfaceTransports(data)
}
