package netmon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

func TestLegacyTypeForName(t *testing.T) {
	tests := []struct {
		name string
		want reach.ConnectionType
	}{
		{"wlan0", reach.TypeWifi},
		{"wlp3s0", reach.TypeWifi},
		{"wl0", reach.TypeWifi},
		{"Wi-Fi", reach.TypeWifi},
		{"eth0", reach.TypeEthernet},
		{"enp0s31f6", reach.TypeEthernet},
		{"en0", reach.TypeEthernet},
		{"wwan0", reach.TypeMobile},
		{"rmnet_data0", reach.TypeMobile},
		{"pdp_ip0", reach.TypeMobile},
		{"ppp0", reach.TypeMobileDUN},
		{"usb0", reach.TypeMobileHIPRI},
		{"wimax0", reach.TypeWimax},
		{"bnep0", reach.TypeBluetooth},
		{"utun3", reach.TypeVPN},
		{"tun0", reach.TypeVPN},
		{"wg0", reach.TypeVPN},
		{"dummy0", reach.TypeDummy},
		{"docker0", reach.TypeNone},
		{"", reach.TypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LegacyTypeForName(tt.name))
		})
	}
}

func TestLegacyTypeForName_Classes(t *testing.T) {
	assert.Equal(t, reach.Wifi, reach.ClassifyConnectionType(LegacyTypeForName("wlan0")))
	assert.Equal(t, reach.Wifi, reach.ClassifyConnectionType(LegacyTypeForName("eth0")))
	assert.Equal(t, reach.Mobile, reach.ClassifyConnectionType(LegacyTypeForName("wwan0")))
	assert.Equal(t, reach.None, reach.ClassifyConnectionType(LegacyTypeForName("tun0")))
}
