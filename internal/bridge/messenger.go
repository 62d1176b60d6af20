package bridge

import (
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dmdmdm-nz/reachd/internal/runtime"
)

const outgoingQueueSize = 16

type stream struct {
	handler StreamHandler
	sink    *eventSink
}

// Messenger routes incoming messages to the handlers registered for their
// channel and queues outgoing replies and events. Dispatch is expected to be
// called from a single goroutine.
type Messenger struct {
	out *runtime.SubQueue[Message]

	mu      sync.Mutex
	methods map[string]MethodHandler
	streams map[string]*stream
	closed  bool
}

func NewMessenger() *Messenger {
	out := runtime.NewSubQueue[Message](outgoingQueueSize)
	return &Messenger{
		out:     out,
		methods: make(map[string]MethodHandler),
		streams: make(map[string]*stream),
	}
}

// Outgoing returns the frames to be written to the client. It is closed by
// Close.
func (m *Messenger) Outgoing() <-chan Message {
	return m.out.Chan()
}

// SetMethodCallHandler installs h for channel. A nil handler removes it.
func (m *Messenger) SetMethodCallHandler(channel string, h MethodHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h == nil {
		delete(m.methods, channel)
		return
	}
	m.methods[channel] = h
}

// SetStreamHandler installs h for channel. A nil handler removes it and
// silences any live stream on the channel.
func (m *Messenger) SetStreamHandler(channel string, h StreamHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st, ok := m.streams[channel]; ok && st.sink != nil {
		st.sink.deactivate()
	}
	if h == nil {
		delete(m.streams, channel)
		return
	}
	m.streams[channel] = &stream{handler: h}
}

// Dispatch handles one incoming message. Messages for unknown channels are
// answered with a not-implemented reply, and messages without an id with a
// MISSING_ID error.
func (m *Messenger) Dispatch(msg Message) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	method, isMethod := m.methods[msg.Channel]
	st, isStream := m.streams[msg.Channel]
	m.mu.Unlock()

	fields := log.Fields{"channel": msg.Channel, "method": msg.Method, "id": msg.ID}

	if msg.ID == 0 {
		log.WithFields(fields).Debug("Rejecting request without id")
		m.send(Message{Error: &Error{Code: ErrCodeMissingID, Message: "request id must be non-zero"}})
		return
	}

	switch {
	case isMethod:
		log.WithFields(fields).Trace("Dispatching method call")
		method.OnMethodCall(MethodCall{Method: msg.Method, Args: msg.Args}, &methodResult{id: msg.ID, send: m.send})

	case isStream && msg.Method == MethodListen:
		log.WithFields(fields).Debug("Stream listen")
		m.listen(msg, st)

	case isStream && msg.Method == MethodCancel:
		log.WithFields(fields).Debug("Stream cancel")
		m.cancel(msg, st)

	default:
		log.WithFields(fields).Debug("No handler for message")
		m.send(Message{ID: msg.ID, NotImplemented: true})
	}
}

func (m *Messenger) listen(msg Message, st *stream) {
	sink := newEventSink(msg.Channel, m.send)

	m.mu.Lock()
	prev := st.sink
	st.sink = sink
	m.mu.Unlock()

	if prev != nil {
		// Only one listener per channel; the previous one is cancelled first.
		prev.deactivate()
		st.handler.OnCancel(nil)
	}

	if err := st.handler.OnListen(msg.Args, sink); err != nil {
		sink.deactivate()
		m.mu.Lock()
		if st.sink == sink {
			st.sink = nil
		}
		m.mu.Unlock()

		log.WithError(err).WithField("channel", msg.Channel).Debug("Stream listen failed")
		m.send(Message{ID: msg.ID, Error: asError(err)})
		return
	}
	m.send(Message{ID: msg.ID})
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: "error", Message: err.Error()}
}

func (m *Messenger) cancel(msg Message, st *stream) {
	m.mu.Lock()
	prev := st.sink
	st.sink = nil
	m.mu.Unlock()

	if prev == nil {
		m.send(Message{ID: msg.ID, Error: &Error{Code: "error", Message: "No active stream to cancel"}})
		return
	}

	prev.deactivate()
	st.handler.OnCancel(msg.Args)
	m.send(Message{ID: msg.ID})
}

// Send queues msg for the client as is.
func (m *Messenger) Send(msg Message) {
	m.send(msg)
}

func (m *Messenger) send(msg Message) {
	m.out.Enqueue(msg)
}

// Close cancels live streams and closes the outgoing channel.
func (m *Messenger) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true

	var live []*stream
	for _, st := range m.streams {
		if st.sink != nil {
			st.sink.deactivate()
			st.sink = nil
			live = append(live, st)
		}
	}
	m.mu.Unlock()

	for _, st := range live {
		st.handler.OnCancel(nil)
	}
	m.out.Close()
}
