package netmon

import (
	"context"
	"net"
	"slices"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

// interfaceLister enumerates host interfaces.
type interfaceLister func(ctx context.Context) ([]psnet.InterfaceStat, error)

func listInterfaces(ctx context.Context) ([]psnet.InterfaceStat, error) {
	return psnet.InterfacesWithContext(ctx)
}

// interfaceConnectivity is a connectivity service for platforms without a
// routing-table binding. The first up, non-loopback interface holding a
// routable address is treated as the active network.
type interfaceConnectivity struct {
	list interfaceLister
}

func newInterfaceConnectivity(list interfaceLister) *interfaceConnectivity {
	return &interfaceConnectivity{list: list}
}

func (c *interfaceConnectivity) ActiveNetwork() (reach.Network, bool) {
	iface, ok := c.active()
	if !ok {
		return reach.Network{}, false
	}
	return reach.Network{Index: iface.Index, Name: iface.Name}, true
}

// NetworkCapabilities is not available from interface enumeration alone.
func (c *interfaceConnectivity) NetworkCapabilities(reach.Network) (reach.Capabilities, bool) {
	return reach.Capabilities{}, false
}

func (c *interfaceConnectivity) ActiveNetworkInfo() (reach.NetworkInfo, bool) {
	iface, ok := c.active()
	if !ok {
		return reach.NetworkInfo{}, false
	}
	return reach.NetworkInfo{
		Name:      iface.Name,
		Type:      LegacyTypeForName(iface.Name),
		Connected: true,
	}, true
}

func (c *interfaceConnectivity) active() (psnet.InterfaceStat, bool) {
	ifaces, err := c.list(context.Background())
	if err != nil {
		log.WithError(err).Trace("Failed to list interfaces")
		return psnet.InterfaceStat{}, false
	}

	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		if hasRoutableStatAddress(iface) {
			return iface, true
		}
	}
	return psnet.InterfaceStat{}, false
}

func hasRoutableStatAddress(iface psnet.InterfaceStat) bool {
	for _, addr := range iface.Addrs {
		ip, _, err := net.ParseCIDR(addr.Addr)
		if err != nil {
			ip = net.ParseIP(addr.Addr)
		}
		if ip != nil && ip.IsGlobalUnicast() {
			return true
		}
	}
	return false
}

// interfaceFingerprint summarises the state of an interface that matters for
// reachability.
func interfaceFingerprint(iface psnet.InterfaceStat) string {
	flags := slices.Clone(iface.Flags)
	slices.Sort(flags)

	addrs := make([]string, 0, len(iface.Addrs))
	for _, a := range iface.Addrs {
		addrs = append(addrs, a.Addr)
	}
	slices.Sort(addrs)

	return strings.Join(flags, ",") + "|" + strings.Join(addrs, ",")
}
