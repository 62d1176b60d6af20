package reach

import (
	"errors"
	"fmt"
	"sync"
)

// fakeConnectivity is a scripted ConnectivityService.
type fakeConnectivity struct {
	mu       sync.Mutex
	network  *Network
	caps     *Capabilities
	info     *NetworkInfo
	queries  int
	infoHits int
}

func (f *fakeConnectivity) ActiveNetwork() (Network, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.network == nil {
		return Network{}, false
	}
	return *f.network, true
}

func (f *fakeConnectivity) NetworkCapabilities(Network) (Capabilities, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caps == nil {
		return Capabilities{}, false
	}
	return *f.caps, true
}

func (f *fakeConnectivity) ActiveNetworkInfo() (NetworkInfo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoHits++
	if f.info == nil {
		return NetworkInfo{}, false
	}
	return *f.info, true
}

func (f *fakeConnectivity) setTransports(ts ...Transport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.network = &Network{Index: 2, Name: "test0"}
	f.caps = &Capabilities{Transports: ts}
}

func (f *fakeConnectivity) setLegacy(t ConnectionType, connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.info = &NetworkInfo{Name: "test0", Type: t, Connected: connected}
}

// fakeBroadcaster delivers notifications synchronously on Fire.
type fakeBroadcaster struct {
	mu          sync.Mutex
	receivers   map[Registration]func()
	next        int
	registerErr error
	unregisters int
}

func newFakeBroadcaster() *fakeBroadcaster {
	return &fakeBroadcaster{receivers: make(map[Registration]func())}
}

func (f *fakeBroadcaster) Register(receiver func()) (Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.registerErr != nil {
		return "", f.registerErr
	}
	f.next++
	reg := Registration(fmt.Sprintf("reg-%d", f.next))
	f.receivers[reg] = receiver
	return reg, nil
}

func (f *fakeBroadcaster) Unregister(reg Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.receivers[reg]; !ok {
		return errors.New("receiver not registered")
	}
	delete(f.receivers, reg)
	f.unregisters++
	return nil
}

func (f *fakeBroadcaster) Fire() {
	f.mu.Lock()
	receivers := make([]func(), 0, len(f.receivers))
	for _, r := range f.receivers {
		receivers = append(receivers, r)
	}
	f.mu.Unlock()

	for _, r := range receivers {
		r()
	}
}

func (f *fakeBroadcaster) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receivers)
}
