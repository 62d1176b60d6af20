// Package connectivity exposes a reach.Observer over bridge channels: a
// method channel answering "check" and an event channel streaming the
// reachability class on every connectivity change.
package connectivity

import (
	"encoding/json"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/bridge"
	"github.com/dmdmdm-nz/reachd/internal/reach"
)

const (
	MethodChannelName = "reachd/connectivity"
	EventChannelName  = "reachd/connectivity_status"

	MethodCheck = "check"

	ErrCodeUnboundContext = "UNBOUND_CONTEXT"
	ErrCodeRegister       = "REGISTER_FAILED"
)

// PluginBinding is what a host hands the plugin when attaching it.
type PluginBinding struct {
	Messenger *bridge.Messenger
	Platform  reach.Binding
}

// Plugin answers reachability calls for one attached host.
type Plugin struct {
	observer *reach.Observer

	mu        sync.Mutex
	messenger *bridge.Messenger
	sub       *reach.Subscription
}

func NewPlugin(capabilityAPI bool) *Plugin {
	return &Plugin{observer: reach.NewObserver(capabilityAPI)}
}

// OnAttached binds the platform context and installs the channel handlers.
func (p *Plugin) OnAttached(b PluginBinding) {
	p.observer.Attach(b.Platform)

	p.mu.Lock()
	p.messenger = b.Messenger
	p.mu.Unlock()

	b.Messenger.SetMethodCallHandler(MethodChannelName, p)
	b.Messenger.SetStreamHandler(EventChannelName, p)
}

// OnDetached removes the channel handlers and unbinds the platform context,
// dropping any live subscription.
func (p *Plugin) OnDetached() {
	p.mu.Lock()
	m := p.messenger
	p.messenger = nil
	p.sub = nil
	p.mu.Unlock()

	if m != nil {
		m.SetMethodCallHandler(MethodChannelName, nil)
		m.SetStreamHandler(EventChannelName, nil)
	}
	p.observer.Detach()
}

func (p *Plugin) OnMethodCall(call bridge.MethodCall, result bridge.Result) {
	switch call.Method {
	case MethodCheck:
		p.handleCheck(result)
	default:
		result.NotImplemented()
	}
}

func (p *Plugin) handleCheck(result bridge.Result) {
	class, err := p.observer.Query()
	if err != nil {
		result.Error(ErrCodeUnboundContext, err.Error(), nil)
		return
	}
	result.Success(class.String())
}

func (p *Plugin) OnListen(_ json.RawMessage, sink bridge.EventSink) error {
	sub, err := p.observer.Subscribe(func(c reach.Class) {
		sink.Success(c.String())
	})
	if err != nil {
		code := ErrCodeRegister
		if errors.Is(err, reach.ErrUnboundContext) {
			code = ErrCodeUnboundContext
		}
		log.WithError(err).Warn("Failed to subscribe to connectivity changes")
		return &bridge.Error{Code: code, Message: err.Error()}
	}

	p.mu.Lock()
	p.sub = sub
	p.mu.Unlock()

	// Listeners get the current state straight away.
	if class, err := p.observer.Query(); err == nil {
		sink.Success(class.String())
	}
	return nil
}

func (p *Plugin) OnCancel(json.RawMessage) {
	p.mu.Lock()
	sub := p.sub
	p.sub = nil
	p.mu.Unlock()

	if err := p.observer.Unsubscribe(sub); err != nil {
		log.WithError(err).Warn("Failed to unsubscribe from connectivity changes")
	}
}
