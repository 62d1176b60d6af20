//go:build darwin

package netmon

import (
	"context"
	"encoding/binary"
	"net"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

type darwinWatcher struct{}

// NewWatcher creates a macOS-specific watcher using AF_ROUTE sockets.
func NewWatcher() Watcher {
	return &darwinWatcher{}
}

func (w *darwinWatcher) Start(ctx context.Context, callback EventHandler) error {
	fd, err := unix.Socket(unix.AF_ROUTE, unix.SOCK_RAW, unix.AF_UNSPEC)
	if err != nil {
		return err
	}

	// Close socket when context is cancelled
	go func() {
		<-ctx.Done()
		unix.Close(fd)
	}()

	log.Debug("Darwin watcher initialized")

	buf := make([]byte, 4096)

	for {
		n, err := unix.Read(fd, buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				log.WithError(err).Warn("Error reading from route socket")
				continue
			}
		}

		if n < 14 {
			continue
		}

		ev, ok := parseRouteMessage(buf[:n])
		if !ok {
			continue
		}

		log.WithFields(log.Fields{
			"kind":      ev.Kind,
			"interface": ev.InterfaceName,
		}).Trace("Received route socket message")

		callback(ev)
	}
}

// parseRouteMessage maps a routing socket message to a ChangeEvent.
//
// if_msghdr and ifa_msghdr carry the interface index at bytes 12-13;
// rt_msghdr carries it at bytes 4-5. The message type is byte 3.
func parseRouteMessage(msg []byte) (ChangeEvent, bool) {
	var kind EventKind
	var index int

	switch msg[3] {
	case unix.RTM_IFINFO:
		kind = LinkChanged
		index = int(binary.LittleEndian.Uint16(msg[12:14]))
	case unix.RTM_NEWADDR, unix.RTM_DELADDR:
		kind = AddressChanged
		index = int(binary.LittleEndian.Uint16(msg[12:14]))
	case unix.RTM_ADD, unix.RTM_DELETE, unix.RTM_CHANGE:
		kind = RouteChanged
		index = int(binary.LittleEndian.Uint16(msg[4:6]))
	default:
		return ChangeEvent{}, false
	}

	ev := ChangeEvent{Kind: kind}
	if index != 0 {
		if iface, err := net.InterfaceByIndex(index); err == nil {
			if iface.Flags&net.FlagLoopback != 0 {
				return ChangeEvent{}, false
			}
			ev.InterfaceName = iface.Name
		}
	}
	return ev, true
}
