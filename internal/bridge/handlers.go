package bridge

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
)

// Result completes a method call. Only the first completion is sent.
type Result interface {
	Success(result any)
	Error(code, message string, details any)
	NotImplemented()
}

// MethodHandler handles calls on a method channel.
type MethodHandler interface {
	OnMethodCall(call MethodCall, result Result)
}

// MethodHandlerFunc adapts a function to MethodHandler.
type MethodHandlerFunc func(call MethodCall, result Result)

func (f MethodHandlerFunc) OnMethodCall(call MethodCall, result Result) { f(call, result) }

// EventSink delivers stream frames to the listening client. Sinks become
// inert once the stream is cancelled or ended.
type EventSink interface {
	Success(event any)
	Error(code, message string, details any)
	EndOfStream()
}

// StreamHandler sets up and tears down the producer behind an event channel.
// A listen that returns an error leaves no live stream behind; the error is
// sent as the reply to the listen request.
type StreamHandler interface {
	OnListen(args json.RawMessage, sink EventSink) error
	OnCancel(args json.RawMessage)
}

type methodResult struct {
	id   int64
	send func(Message)
	done atomic.Bool
}

func (r *methodResult) Success(result any) {
	r.reply(Message{ID: r.id, Result: result})
}

func (r *methodResult) Error(code, message string, details any) {
	r.reply(Message{ID: r.id, Error: &Error{Code: code, Message: message, Details: details}})
}

func (r *methodResult) NotImplemented() {
	r.reply(Message{ID: r.id, NotImplemented: true})
}

func (r *methodResult) reply(msg Message) {
	if !r.done.CompareAndSwap(false, true) {
		log.WithField("id", r.id).Warn("Method call already completed, dropping reply")
		return
	}
	r.send(msg)
}

type eventSink struct {
	channel string
	send    func(Message)

	mu     sync.Mutex
	active bool
}

func newEventSink(channel string, send func(Message)) *eventSink {
	return &eventSink{channel: channel, send: send, active: true}
}

func (s *eventSink) Success(event any) {
	s.emit(Message{Channel: s.channel, Event: event}, false)
}

func (s *eventSink) Error(code, message string, details any) {
	s.emit(Message{Channel: s.channel, Error: &Error{Code: code, Message: message, Details: details}}, false)
}

func (s *eventSink) EndOfStream() {
	s.emit(Message{Channel: s.channel, EndOfStream: true}, true)
}

func (s *eventSink) emit(msg Message, last bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	if last {
		s.active = false
	}
	s.send(msg)
}

func (s *eventSink) deactivate() {
	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
