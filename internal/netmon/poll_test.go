package netmon

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLister returns the configured interfaces on every call.
type scriptedLister struct {
	mu     sync.Mutex
	ifaces []psnet.InterfaceStat
}

func (l *scriptedLister) set(ifaces ...psnet.InterfaceStat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ifaces = ifaces
}

func (l *scriptedLister) list(context.Context) ([]psnet.InterfaceStat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]psnet.InterfaceStat(nil), l.ifaces...), nil
}

func stat(name string, flags []string, addrs ...string) psnet.InterfaceStat {
	list := make(psnet.InterfaceAddrList, 0, len(addrs))
	for _, a := range addrs {
		list = append(list, psnet.InterfaceAddr{Addr: a})
	}
	return psnet.InterfaceStat{Name: name, Flags: flags, Addrs: list}
}

func TestDiffSnapshots(t *testing.T) {
	before := map[string]string{"eth0": "up|10.0.0.2/24", "wlan0": "up|", "tun0": "up|"}
	after := map[string]string{"eth0": "up|10.0.0.3/24", "wlan0": "up|", "wwan0": "up|"}

	changed := diffSnapshots(before, after)
	sort.Strings(changed)

	assert.Equal(t, []string{"eth0", "tun0", "wwan0"}, changed)
	assert.Empty(t, diffSnapshots(after, after))
}

func TestInterfaceFingerprint_OrderIndependent(t *testing.T) {
	a := stat("eth0", []string{"up", "broadcast"}, "10.0.0.2/24", "fe80::1/64")
	b := stat("eth0", []string{"broadcast", "up"}, "fe80::1/64", "10.0.0.2/24")
	assert.Equal(t, interfaceFingerprint(a), interfaceFingerprint(b))

	c := stat("eth0", []string{"broadcast"}, "fe80::1/64", "10.0.0.2/24")
	assert.NotEqual(t, interfaceFingerprint(a), interfaceFingerprint(c))
}

func TestPollWatcher_EmitsOnChange(t *testing.T) {
	lister := &scriptedLister{}
	lister.set(stat("eth0", []string{"up"}, "10.0.0.2/24"))

	w := &PollWatcher{interval: 10 * time.Millisecond, list: lister.list}

	events := make(chan ChangeEvent, 8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, func(ev ChangeEvent) { events <- ev }) }()

	// Baseline produces no events.
	select {
	case ev := <-events:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	lister.set(stat("eth0", []string{}, "10.0.0.2/24"))

	select {
	case ev := <-events:
		assert.Equal(t, InterfacesChanged, ev.Kind)
		assert.Equal(t, "eth0", ev.InterfaceName)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for change event")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Start to return")
	}
}

func TestInterfaceConnectivity(t *testing.T) {
	lister := &scriptedLister{}
	c := newInterfaceConnectivity(lister.list)

	t.Run("nothing up", func(t *testing.T) {
		lister.set(
			stat("lo", []string{"up", "loopback"}, "127.0.0.1/8"),
			stat("eth0", []string{"broadcast"}, "10.0.0.2/24"),
		)
		_, ok := c.ActiveNetwork()
		assert.False(t, ok)
		_, ok = c.ActiveNetworkInfo()
		assert.False(t, ok)
	})

	t.Run("link-local only", func(t *testing.T) {
		lister.set(stat("wlan0", []string{"up"}, "fe80::1/64", "169.254.3.4/16"))
		_, ok := c.ActiveNetwork()
		assert.False(t, ok)
	})

	t.Run("first routable interface", func(t *testing.T) {
		lister.set(
			stat("lo", []string{"up", "loopback"}, "127.0.0.1/8"),
			stat("wwan0", []string{"up"}, "100.64.1.2/30"),
			stat("wlan0", []string{"up"}, "192.168.1.4/24"),
		)
		network, ok := c.ActiveNetwork()
		require.True(t, ok)
		assert.Equal(t, "wwan0", network.Name)

		info, ok := c.ActiveNetworkInfo()
		require.True(t, ok)
		assert.True(t, info.Connected)
		assert.Equal(t, LegacyTypeForName("wwan0"), info.Type)

		_, ok = c.NetworkCapabilities(network)
		assert.False(t, ok)
	})
}
