//go:build linux

package netmon

import (
	"context"
	"errors"
	"net"

	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

var errSubscriptionClosed = errors.New("netlink subscription closed")

type linuxWatcher struct{}

// NewWatcher creates a Linux-specific watcher using netlink.
func NewWatcher() Watcher {
	return &linuxWatcher{}
}

func (w *linuxWatcher) Start(ctx context.Context, callback EventHandler) error {
	linkCh := make(chan netlink.LinkUpdate)
	linkDone := make(chan struct{})

	addrCh := make(chan netlink.AddrUpdate)
	addrDone := make(chan struct{})

	routeCh := make(chan netlink.RouteUpdate)
	routeDone := make(chan struct{})

	if err := netlink.LinkSubscribe(linkCh, linkDone); err != nil {
		return err
	}

	if err := netlink.AddrSubscribe(addrCh, addrDone); err != nil {
		close(linkDone)
		return err
	}

	if err := netlink.RouteSubscribe(routeCh, routeDone); err != nil {
		close(linkDone)
		close(addrDone)
		return err
	}

	defer close(linkDone)
	defer close(addrDone)
	defer close(routeDone)

	log.Debug("Linux watcher initialized")

	for {
		select {
		case <-ctx.Done():
			return nil

		case update, ok := <-linkCh:
			if !ok {
				return errSubscriptionClosed
			}
			w.handleLinkUpdate(update, callback)

		case update, ok := <-addrCh:
			if !ok {
				return errSubscriptionClosed
			}
			w.handleAddrUpdate(update, callback)

		case update, ok := <-routeCh:
			if !ok {
				return errSubscriptionClosed
			}
			w.handleRouteUpdate(update, callback)
		}
	}
}

func (w *linuxWatcher) handleLinkUpdate(update netlink.LinkUpdate, callback EventHandler) {
	attrs := update.Link.Attrs()
	if attrs.Flags&net.FlagLoopback != 0 {
		return
	}

	log.WithFields(log.Fields{
		"interface": attrs.Name,
		"operState": attrs.OperState.String(),
	}).Trace("Received link update")

	callback(ChangeEvent{Kind: LinkChanged, InterfaceName: attrs.Name})
}

func (w *linuxWatcher) handleAddrUpdate(update netlink.AddrUpdate, callback EventHandler) {
	if update.LinkAddress.IP.IsLoopback() {
		return
	}

	name := interfaceNameByIndex(update.LinkIndex)

	log.WithFields(log.Fields{
		"interface": name,
		"address":   update.LinkAddress.String(),
		"new":       update.NewAddr,
	}).Trace("Received address update")

	callback(ChangeEvent{Kind: AddressChanged, InterfaceName: name})
}

func (w *linuxWatcher) handleRouteUpdate(update netlink.RouteUpdate, callback EventHandler) {
	// Only default routes decide which network is active.
	if !isDefaultRoute(update.Route) {
		return
	}

	name := interfaceNameByIndex(routeLinkIndex(update.Route))

	log.WithFields(log.Fields{
		"interface": name,
		"type":      update.Type,
	}).Trace("Received default route update")

	callback(ChangeEvent{Kind: RouteChanged, InterfaceName: name})
}

func interfaceNameByIndex(index int) string {
	iface, err := net.InterfaceByIndex(index)
	if err != nil {
		return ""
	}
	return iface.Name
}
