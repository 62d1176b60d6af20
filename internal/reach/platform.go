package reach

// ConnectivityService answers questions about the host's active network.
// Lookups that find nothing report ok == false rather than an error.
type ConnectivityService interface {
	ActiveNetwork() (Network, bool)
	NetworkCapabilities(network Network) (Capabilities, bool)
	ActiveNetworkInfo() (NetworkInfo, bool)
}

// Registration identifies a receiver registered with a Broadcaster.
type Registration string

// Broadcaster delivers OS connectivity-change notifications to receivers.
//
// Receivers are invoked on the broadcaster's own goroutines. Unregister must
// not wait for receivers that are already running.
type Broadcaster interface {
	Register(receiver func()) (Registration, error)
	Unregister(reg Registration) error
}

// Binding is the platform context an Observer is attached to.
type Binding struct {
	Connectivity ConnectivityService
	Broadcaster  Broadcaster
}
