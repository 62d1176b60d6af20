package reach

// Class is the coarse reachability category reported to clients.
type Class string

const (
	None   Class = "none"
	Wifi   Class = "wifi"
	Mobile Class = "mobile"
)

func (c Class) String() string { return string(c) }

// Transport is the medium reported by capability introspection.
type Transport string

const (
	TransportWifi      Transport = "wifi"
	TransportCellular  Transport = "cellular"
	TransportEthernet  Transport = "ethernet"
	TransportBluetooth Transport = "bluetooth"
	TransportVPN       Transport = "vpn"
	TransportWifiAware Transport = "wifi-aware"
	TransportLowPan    Transport = "lowpan"
	TransportUSB       Transport = "usb"
)

// ConnectionType is the legacy connection-type code of a network.
type ConnectionType int

const (
	TypeNone        ConnectionType = -1
	TypeMobile      ConnectionType = 0
	TypeWifi        ConnectionType = 1
	TypeMobileMMS   ConnectionType = 2
	TypeMobileSUPL  ConnectionType = 3
	TypeMobileDUN   ConnectionType = 4
	TypeMobileHIPRI ConnectionType = 5
	TypeWimax       ConnectionType = 6
	TypeBluetooth   ConnectionType = 7
	TypeDummy       ConnectionType = 8
	TypeEthernet    ConnectionType = 9
	TypeVPN         ConnectionType = 17
)

var connectionTypeNames = map[ConnectionType]string{
	TypeNone:        "NONE",
	TypeMobile:      "MOBILE",
	TypeWifi:        "WIFI",
	TypeMobileMMS:   "MOBILE_MMS",
	TypeMobileSUPL:  "MOBILE_SUPL",
	TypeMobileDUN:   "MOBILE_DUN",
	TypeMobileHIPRI: "MOBILE_HIPRI",
	TypeWimax:       "WIMAX",
	TypeBluetooth:   "BLUETOOTH",
	TypeDummy:       "DUMMY",
	TypeEthernet:    "ETHERNET",
	TypeVPN:         "VPN",
}

func (t ConnectionType) String() string {
	if name, ok := connectionTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Network identifies the currently active network.
type Network struct {
	Index int
	Name  string
}

// Capabilities lists the transports a network runs over.
type Capabilities struct {
	Transports []Transport
}

func (c Capabilities) HasTransport(t Transport) bool {
	for _, tr := range c.Transports {
		if tr == t {
			return true
		}
	}
	return false
}

// NetworkInfo is the legacy description of the active network.
type NetworkInfo struct {
	Name      string
	Type      ConnectionType
	Connected bool
}
