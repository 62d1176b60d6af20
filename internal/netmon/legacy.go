package netmon

import (
	"strings"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

// Interface name prefixes and the legacy connection type they imply. Longer
// prefixes must precede shorter ones sharing a stem.
var legacyPrefixes = []struct {
	prefix string
	typ    reach.ConnectionType
}{
	{"wlan", reach.TypeWifi},
	{"wlp", reach.TypeWifi},
	{"wlx", reach.TypeWifi},
	{"wifi", reach.TypeWifi},
	{"wi-fi", reach.TypeWifi},
	{"wimax", reach.TypeWimax},
	{"wwan", reach.TypeMobile},
	{"rmnet", reach.TypeMobile},
	{"ccmni", reach.TypeMobile},
	{"cellular", reach.TypeMobile},
	{"pdp_ip", reach.TypeMobile},
	{"ppp", reach.TypeMobileDUN},
	{"rndis", reach.TypeMobileHIPRI},
	{"usb", reach.TypeMobileHIPRI},
	{"bnep", reach.TypeBluetooth},
	{"bt-pan", reach.TypeBluetooth},
	{"utun", reach.TypeVPN},
	{"tun", reach.TypeVPN},
	{"tap", reach.TypeVPN},
	{"wg", reach.TypeVPN},
	{"dummy", reach.TypeDummy},
	{"eth", reach.TypeEthernet},
	{"enp", reach.TypeEthernet},
	{"eno", reach.TypeEthernet},
	{"ens", reach.TypeEthernet},
	{"enx", reach.TypeEthernet},
	{"en", reach.TypeEthernet},
	{"wl", reach.TypeWifi},
}

// LegacyTypeForName guesses the legacy connection type of an interface from
// its name.
func LegacyTypeForName(name string) reach.ConnectionType {
	lower := strings.ToLower(name)
	for _, p := range legacyPrefixes {
		if strings.HasPrefix(lower, p.prefix) {
			return p.typ
		}
	}
	return reach.TypeNone
}
