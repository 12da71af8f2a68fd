/*
 * rlogin: an asynchronous RLOGIN protocol client
 * Copyright 2019-2023 Daniel Selifonov
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */
package rlogin

import "sync"

// EventEmitter is the small observer abstraction spec.md §9 calls for:
// "register observers for named events {data, close, error}, fire-and-forget
// dispatch." It also carries the internal connection-established event used
// between the StateMachine and the Dialer (spec.md §4.1/§5).
//
// Unlike a single-goroutine-per-connection source, the Go Transport drives
// emitData/emitClose/emitError from its own background reader goroutine
// (tcpTransport.run) while callers register listeners from whatever
// goroutine called Dialer.Connect -- so, unlike the teacher's
// ChannelRequestSink/ChannelRequestFilter composition in sshproxy/proxy.go
// (which this is otherwise grounded on), a mutex is required, and any data,
// close or error event fired before its first listener is registered is
// buffered and replayed to the first listener that attaches (a close, once
// fired, is also delivered to every later listener; connection-established
// is not buffered), so a handshake-ack-plus-banner chunk
// arriving on the reader goroutine before Connect returns is never dropped.
type EventEmitter struct {
	mu sync.Mutex

	onData                  []func([]byte)
	onClose                 []func()
	onError                 []func(error)
	onConnectionEstablished []func()

	pendingData   [][]byte
	pendingClosed bool
	pendingErrors []error
}

func (e *EventEmitter) OnData(f func([]byte)) {
	e.mu.Lock()
	e.onData = append(e.onData, f)
	buffered := e.pendingData
	e.pendingData = nil
	e.mu.Unlock()

	for _, p := range buffered {
		f(p)
	}
}

func (e *EventEmitter) OnClose(f func()) {
	e.mu.Lock()
	e.onClose = append(e.onClose, f)
	fire := e.pendingClosed
	e.mu.Unlock()

	if fire {
		f()
	}
}

func (e *EventEmitter) OnError(f func(error)) {
	e.mu.Lock()
	e.onError = append(e.onError, f)
	buffered := e.pendingErrors
	e.pendingErrors = nil
	e.mu.Unlock()

	for _, err := range buffered {
		f(err)
	}
}

func (e *EventEmitter) onConnectionEstablishedHook(f func()) {
	e.mu.Lock()
	e.onConnectionEstablished = append(e.onConnectionEstablished, f)
	e.mu.Unlock()
}

func (e *EventEmitter) emitData(p []byte) {
	e.mu.Lock()
	if len(e.onData) == 0 {
		cp := make([]byte, len(p))
		copy(cp, p)
		e.pendingData = append(e.pendingData, cp)
		e.mu.Unlock()
		return
	}
	listeners := append([]func([]byte){}, e.onData...)
	e.mu.Unlock()

	for _, f := range listeners {
		f(p)
	}
}

func (e *EventEmitter) emitClose() {
	e.mu.Lock()
	e.pendingClosed = true
	listeners := append([]func(){}, e.onClose...)
	e.mu.Unlock()

	for _, f := range listeners {
		f()
	}
}

func (e *EventEmitter) emitError(err error) {
	e.mu.Lock()
	if len(e.onError) == 0 {
		e.pendingErrors = append(e.pendingErrors, err)
		e.mu.Unlock()
		return
	}
	listeners := append([]func(error){}, e.onError...)
	e.mu.Unlock()

	for _, f := range listeners {
		f(err)
	}
}

func (e *EventEmitter) emitConnectionEstablished() {
	e.mu.Lock()
	listeners := append([]func(){}, e.onConnectionEstablished...)
	e.mu.Unlock()

	for _, f := range listeners {
		f()
	}
}
