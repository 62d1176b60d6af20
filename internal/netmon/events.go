package netmon

type EventKind string

const (
	LinkChanged       EventKind = "LINK_CHANGED"
	AddressChanged    EventKind = "ADDRESS_CHANGED"
	RouteChanged      EventKind = "ROUTE_CHANGED"
	InterfacesChanged EventKind = "INTERFACES_CHANGED"
)

// ChangeEvent is a single OS connectivity-change notification.
type ChangeEvent struct {
	Kind          EventKind
	InterfaceName string
}

// EventHandler receives the changes a Watcher reports.
type EventHandler func(event ChangeEvent)
