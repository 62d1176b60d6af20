package reach

import (
	log "github.com/sirupsen/logrus"
)

// classifier turns connectivity service answers into a Class.
type classifier interface {
	classify(svc ConnectivityService) Class
}

func newClassifier(capabilityAPI bool) classifier {
	if capabilityAPI {
		return capabilityClassifier{}
	}
	return legacyClassifier{}
}

// capabilityClassifier inspects the transports of the active network and
// falls back to the legacy type code when they are inconclusive.
type capabilityClassifier struct {
	legacy legacyClassifier
}

func (c capabilityClassifier) classify(svc ConnectivityService) Class {
	if network, ok := svc.ActiveNetwork(); ok {
		if caps, ok := svc.NetworkCapabilities(network); ok {
			if class, ok := classifyTransports(caps); ok {
				return class
			}
			log.WithFields(log.Fields{
				"network":    network.Name,
				"transports": caps.Transports,
			}).Trace("Capabilities inconclusive, using legacy type")
		}
	}
	return c.legacy.classify(svc)
}

// classifyTransports applies the capability mapping. Wifi and ethernet win
// over cellular.
func classifyTransports(caps Capabilities) (Class, bool) {
	if caps.HasTransport(TransportWifi) || caps.HasTransport(TransportEthernet) {
		return Wifi, true
	}
	if caps.HasTransport(TransportCellular) {
		return Mobile, true
	}
	return None, false
}

type legacyClassifier struct{}

func (legacyClassifier) classify(svc ConnectivityService) Class {
	info, ok := svc.ActiveNetworkInfo()
	if !ok || !info.Connected {
		return None
	}
	return ClassifyConnectionType(info.Type)
}

// ClassifyConnectionType maps a legacy connection type code to a Class.
func ClassifyConnectionType(t ConnectionType) Class {
	switch t {
	case TypeEthernet, TypeWifi, TypeWimax:
		return Wifi
	case TypeMobile, TypeMobileDUN, TypeMobileHIPRI:
		return Mobile
	default:
		return None
	}
}
