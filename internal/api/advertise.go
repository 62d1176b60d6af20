package api

import (
	"fmt"

	"github.com/dmdmdm-nz/zeroconf"
	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/pkg/version"
)

const (
	serviceType   = "_reachd._tcp"
	serviceDomain = "local."
	instanceName  = "reachd"
)

// advertise registers the API on mDNS and returns a func that withdraws it.
func advertise(port int) (func(), error) {
	text := []string{
		"protocol=" + ProtocolVersion,
		"version=" + version.Version,
	}

	server, err := zeroconf.Register(instanceName, serviceType, serviceDomain, port, text, nil)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", serviceType, err)
	}

	log.WithFields(log.Fields{"service": serviceType, "port": port}).Info("Advertising API service")
	return func() {
		server.Shutdown()
		log.WithField("service", serviceType).Debug("Withdrew API service advertisement")
	}, nil
}
