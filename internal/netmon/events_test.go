package netmon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventKind_Constants(t *testing.T) {
	assert.Equal(t, EventKind("LINK_CHANGED"), LinkChanged)
	assert.Equal(t, EventKind("ADDRESS_CHANGED"), AddressChanged)
	assert.Equal(t, EventKind("ROUTE_CHANGED"), RouteChanged)
	assert.Equal(t, EventKind("INTERFACES_CHANGED"), InterfacesChanged)
}
