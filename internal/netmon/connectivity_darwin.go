//go:build darwin

package netmon

import (
	"net"
	"os"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"golang.org/x/net/route"
	"golang.org/x/sys/unix"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

type darwinConnectivity struct {
	plistPath string
}

// NewConnectivity returns the routing table and SystemConfiguration backed
// connectivity service.
func NewConnectivity() reach.ConnectivityService {
	return &darwinConnectivity{plistPath: systemInterfacesPlist}
}

// CapabilityAPIAvailable reports whether interface hardware types can be read.
func CapabilityAPIAvailable() bool {
	_, err := os.Stat(systemInterfacesPlist)
	return err == nil
}

func (c *darwinConnectivity) ActiveNetwork() (reach.Network, bool) {
	iface, ok := activeInterface()
	if !ok {
		return reach.Network{}, false
	}
	return reach.Network{Index: iface.Index, Name: iface.Name}, true
}

func (c *darwinConnectivity) NetworkCapabilities(network reach.Network) (reach.Capabilities, bool) {
	if strings.HasPrefix(network.Name, "utun") || strings.HasPrefix(network.Name, "ipsec") {
		return reach.Capabilities{Transports: []reach.Transport{reach.TransportVPN}}, true
	}

	table, err := loadInterfaceTransports(c.plistPath)
	if err != nil {
		log.WithError(err).Trace("Failed to load interface preferences")
		return reach.Capabilities{}, false
	}

	transport, ok := table[network.Name]
	if !ok {
		return reach.Capabilities{}, true
	}
	return reach.Capabilities{Transports: []reach.Transport{transport}}, true
}

func (c *darwinConnectivity) ActiveNetworkInfo() (reach.NetworkInfo, bool) {
	iface, ok := activeInterface()
	if !ok {
		return reach.NetworkInfo{}, false
	}
	return reach.NetworkInfo{
		Name:      iface.Name,
		Type:      LegacyTypeForName(iface.Name),
		Connected: iface.Flags&net.FlagUp != 0 && hasRoutableInterfaceAddress(iface),
	}, true
}

// activeInterface returns the interface carrying the IPv4 default route.
func activeInterface() (*net.Interface, bool) {
	rib, err := route.FetchRIB(syscall.AF_INET, route.RIBTypeRoute, 0)
	if err != nil {
		log.WithError(err).Trace("Failed to fetch routing table")
		return nil, false
	}

	msgs, err := route.ParseRIB(route.RIBTypeRoute, rib)
	if err != nil {
		log.WithError(err).Trace("Failed to parse routing table")
		return nil, false
	}

	for _, msg := range msgs {
		rm, ok := msg.(*route.RouteMessage)
		if !ok || rm.Flags&unix.RTF_GATEWAY == 0 || rm.Flags&unix.RTF_UP == 0 {
			continue
		}
		if len(rm.Addrs) <= unix.RTAX_DST {
			continue
		}
		dst, ok := rm.Addrs[unix.RTAX_DST].(*route.Inet4Addr)
		if !ok || dst.IP != [4]byte{} {
			continue
		}

		iface, err := net.InterfaceByIndex(rm.Index)
		if err != nil {
			continue
		}
		return iface, true
	}
	return nil, false
}

func hasRoutableInterfaceAddress(iface *net.Interface) bool {
	addrs, err := iface.Addrs()
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.IsGlobalUnicast() {
			return true
		}
	}
	return false
}
