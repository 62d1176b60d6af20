package netmon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmdmdm-nz/reachd/internal/reach"
)

const networkInterfacesPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Interfaces</key>
	<array>
		<dict>
			<key>BSD Name</key>
			<string>en0</string>
			<key>IOBuiltin</key>
			<true/>
			<key>SCNetworkInterfaceType</key>
			<string>IEEE80211</string>
		</dict>
		<dict>
			<key>BSD Name</key>
			<string>en5</string>
			<key>SCNetworkInterfaceType</key>
			<string>Ethernet</string>
		</dict>
		<dict>
			<key>BSD Name</key>
			<string>en9</string>
			<key>SCNetworkInterfaceType</key>
			<string>WWAN</string>
		</dict>
		<dict>
			<key>BSD Name</key>
			<string>fw0</string>
			<key>SCNetworkInterfaceType</key>
			<string>FireWire</string>
		</dict>
		<dict>
			<key>SCNetworkInterfaceType</key>
			<string>Ethernet</string>
		</dict>
	</array>
	<key>Model</key>
	<string>MacBookPro18,1</string>
</dict>
</plist>
`

func TestParseInterfaceTransports(t *testing.T) {
	table, err := parseInterfaceTransports([]byte(networkInterfacesPlist))
	require.NoError(t, err)

	assert.Equal(t, map[string]reach.Transport{
		"en0": reach.TransportWifi,
		"en5": reach.TransportEthernet,
		"en9": reach.TransportCellular,
	}, table)
}

func TestParseInterfaceTransports_Invalid(t *testing.T) {
	_, err := parseInterfaceTransports([]byte(`("en0", "en1")`))
	assert.Error(t, err)
}

func TestLoadInterfaceTransports_MissingFile(t *testing.T) {
	_, err := loadInterfaceTransports("/nonexistent/NetworkInterfaces.plist")
	assert.Error(t, err)
}
