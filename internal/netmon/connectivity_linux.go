//go:build linux

package netmon

import (
	"io/fs"
	"net"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

const sysfsNetRoot = "/sys/class/net"

type linuxConnectivity struct {
	sysfs fs.FS
}

// NewConnectivity returns the netlink and sysfs backed connectivity service.
func NewConnectivity() reach.ConnectivityService {
	return &linuxConnectivity{sysfs: os.DirFS(sysfsNetRoot)}
}

// CapabilityAPIAvailable reports whether per-interface transport information
// can be read from sysfs.
func CapabilityAPIAvailable() bool {
	info, err := os.Stat(sysfsNetRoot)
	return err == nil && info.IsDir()
}

func (c *linuxConnectivity) ActiveNetwork() (reach.Network, bool) {
	link, ok := c.activeLink()
	if !ok {
		return reach.Network{}, false
	}
	attrs := link.Attrs()
	return reach.Network{Index: attrs.Index, Name: attrs.Name}, true
}

func (c *linuxConnectivity) NetworkCapabilities(network reach.Network) (reach.Capabilities, bool) {
	link, err := netlink.LinkByIndex(network.Index)
	if err != nil {
		log.WithError(err).WithField("interface", network.Name).Trace("Failed to get link by index")
		return reach.Capabilities{}, false
	}

	attrs := link.Attrs()
	transports := sysfsTransports(c.sysfs, attrs.Name, link.Type(), attrs.EncapType)
	return reach.Capabilities{Transports: transports}, true
}

func (c *linuxConnectivity) ActiveNetworkInfo() (reach.NetworkInfo, bool) {
	link, ok := c.activeLink()
	if !ok {
		return reach.NetworkInfo{}, false
	}

	name := link.Attrs().Name
	return reach.NetworkInfo{
		Name:      name,
		Type:      LegacyTypeForName(name),
		Connected: hasRoutableAddress(link),
	}, true
}

// activeLink returns the up link carrying the preferred default route.
func (c *linuxConnectivity) activeLink() (netlink.Link, bool) {
	routes, err := netlink.RouteListFiltered(
		netlink.FAMILY_ALL,
		&netlink.Route{Table: unix.RT_TABLE_MAIN},
		netlink.RT_FILTER_TABLE)
	if err != nil {
		log.WithError(err).Trace("Failed to list routes")
		return nil, false
	}

	var best *netlink.Route
	for i := range routes {
		r := &routes[i]
		if !isDefaultRoute(*r) || routeLinkIndex(*r) == 0 {
			continue
		}
		if best == nil || r.Priority < best.Priority {
			best = r
		}
	}
	if best == nil {
		return nil, false
	}

	link, err := netlink.LinkByIndex(routeLinkIndex(*best))
	if err != nil {
		log.WithError(err).Trace("Failed to get default route link")
		return nil, false
	}

	attrs := link.Attrs()
	if attrs.Flags&net.FlagUp == 0 || attrs.OperState == netlink.OperDown {
		return nil, false
	}
	return link, true
}

func isDefaultRoute(r netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0 && r.Dst.IP.IsUnspecified()
}

func routeLinkIndex(r netlink.Route) int {
	if r.LinkIndex != 0 {
		return r.LinkIndex
	}
	if len(r.MultiPath) > 0 {
		return r.MultiPath[0].LinkIndex
	}
	return 0
}

func hasRoutableAddress(link netlink.Link) bool {
	addrs, err := netlink.AddrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return false
	}
	for _, addr := range addrs {
		if addr.IP.IsGlobalUnicast() {
			return true
		}
	}
	return false
}
