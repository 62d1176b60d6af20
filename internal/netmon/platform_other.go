//go:build !linux && !darwin

package netmon

import (
	"time"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

const defaultPollInterval = 5 * time.Second

// NewWatcher falls back to polling on platforms without a native watcher.
func NewWatcher() Watcher {
	return NewPollWatcher(defaultPollInterval)
}

// NewConnectivity returns the interface-enumeration connectivity service.
func NewConnectivity() reach.ConnectivityService {
	return newInterfaceConnectivity(listInterfaces)
}

// CapabilityAPIAvailable is false: only legacy classification is possible.
func CapabilityAPIAvailable() bool {
	return false
}
