package netmon

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// PollWatcher detects changes by periodically comparing interface snapshots.
// It is used where no event-driven mechanism is available, or when polling is
// requested explicitly.
type PollWatcher struct {
	interval time.Duration
	list     interfaceLister
}

// NewPollWatcher creates a watcher that snapshots interfaces every interval.
func NewPollWatcher(interval time.Duration) *PollWatcher {
	return &PollWatcher{interval: interval, list: listInterfaces}
}

func (w *PollWatcher) Start(ctx context.Context, callback EventHandler) error {
	log.WithField("interval", w.interval).Debug("Polling watcher initialized")

	known, err := w.snapshot(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			current, err := w.snapshot(ctx)
			if err != nil {
				log.Errorf("Error getting network interfaces: %v", err)
				continue
			}
			for _, name := range diffSnapshots(known, current) {
				log.WithField("interface", name).Trace("Interface state changed")
				callback(ChangeEvent{Kind: InterfacesChanged, InterfaceName: name})
			}
			known = current
		}
	}
}

func (w *PollWatcher) snapshot(ctx context.Context) (map[string]string, error) {
	ifaces, err := w.list(ctx)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]string, len(ifaces))
	for _, iface := range ifaces {
		snap[iface.Name] = interfaceFingerprint(iface)
	}
	return snap, nil
}

// diffSnapshots returns the names of interfaces that appeared, disappeared or
// changed between two snapshots.
func diffSnapshots(before, after map[string]string) []string {
	var changed []string
	for name, fp := range after {
		if prev, ok := before[name]; !ok || prev != fp {
			changed = append(changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changed = append(changed, name)
		}
	}
	return changed
}
