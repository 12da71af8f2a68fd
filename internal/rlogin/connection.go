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

import (
	"github.com/sirupsen/logrus"
)

// Connection is the public handle gluing the StateMachine, Properties, and
// EventEmitter together, exposing the spec.md §6 caller-facing surface.
//
// Grounded on the teacher's top-level composition in main.go, where
// IoSwitch/Interposer/channel-request-filter are wired together behind one
// closure and handed to the proxy loop as a single unit.
type Connection struct {
	sm         *StateMachine
	properties *Properties
	log        *logrus.Entry
}

// newConnection wires a Transport and effective Properties into a
// Connection, registering lifecycle logging the way hlindberg-mezquit's MQTT
// session client logs its own CONNECT/CONNACK/DISCONNECT transitions.
func newConnection(transport Transport, properties *Properties, log *logrus.Entry) *Connection {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	sm := NewStateMachine(transport, properties)
	c := &Connection{sm: sm, properties: properties, log: log}

	sm.Events().onConnectionEstablishedHook(func() {
		c.log.Debug("rlogin: connection established")
	})
	sm.Events().OnClose(func() {
		c.log.Debug("rlogin: connection closed")
	})
	sm.Events().OnError(func(err error) {
		c.log.WithError(err).Error("rlogin: transport error")
	})
	return c
}

// Write filters and forwards outbound user bytes (spec.md §4.3).
func (c *Connection) Write(p []byte) (bool, error) { return c.sm.Write(p) }

// End writes p then half-closes the connection (spec.md §4.3).
func (c *Connection) End(p []byte) (bool, error) { return c.sm.End(p) }

// Close is an alias for Disconnect, satisfying io.Closer.
func (c *Connection) Close() error {
	c.Disconnect()
	return nil
}

// Disconnect tears the connection down (spec.md §4.5). Idempotent.
func (c *Connection) Disconnect() {
	c.log.Debug("rlogin: disconnect requested")
	c.sm.Disconnect()
}

// SendWCCS writes a Window Change Control Sequence frame (spec.md §4.4).
func (c *Connection) SendWCCS() error { return c.sm.SendWCCS() }

// AddClientEscape installs or replaces a client-escape handler. arg may be
// a byte or a single-character string (spec.md §4.6).
func (c *Connection) AddClientEscape(arg interface{}, handler func()) error {
	switch v := arg.(type) {
	case byte:
		c.sm.AddClientEscape(v, handler)
		return nil
	case int:
		c.sm.AddClientEscape(byte(v), handler)
		return nil
	case string:
		b, err := SetClientEscapeFromString(v)
		if err != nil {
			return errBadEscapeString
		}
		c.sm.AddClientEscape(b, handler)
		return nil
	default:
		return errBadEscapeString
	}
}

// IsConnected reports whether the handshake has completed and the
// connection has not since torn down.
func (c *Connection) IsConnected() bool { return c.sm.IsConnected() }

// IsCooked reports the current line-discipline mode.
func (c *Connection) IsCooked() bool { return c.sm.IsCooked() }

// OnData registers an observer for inbound user-visible data.
func (c *Connection) OnData(f func([]byte)) { c.sm.Events().OnData(f) }

// OnClose registers an observer fired exactly once when the connection
// tears down.
func (c *Connection) OnClose(f func()) { c.sm.Events().OnClose(f) }

// OnError registers an observer for transport-level errors.
func (c *Connection) OnError(f func(error)) { c.sm.Events().OnError(f) }

// Rows, Columns, PixelsX, PixelsY, ClientEscape expose the current
// connection properties (spec.md §3).
func (c *Connection) Rows() int          { return c.properties.Rows() }
func (c *Connection) Columns() int       { return c.properties.Columns() }
func (c *Connection) PixelsX() int       { return c.properties.PixelsX() }
func (c *Connection) PixelsY() int       { return c.properties.PixelsY() }
func (c *Connection) ClientEscape() byte { return c.properties.ClientEscape() }

// SetRows, SetColumns, SetPixelsX, SetPixelsY validate and update
// connection geometry for the next SendWCCS call.
func (c *Connection) SetRows(v int) error    { return c.properties.SetRows(v) }
func (c *Connection) SetColumns(v int) error { return c.properties.SetColumns(v) }
func (c *Connection) SetPixelsX(v int) error { return c.properties.SetPixelsX(v) }
func (c *Connection) SetPixelsY(v int) error { return c.properties.SetPixelsY(v) }

// SetClientEscape updates the client-escape byte directly.
func (c *Connection) SetClientEscape(b byte) { c.properties.SetClientEscape(b) }

// SetClientEscapeString validates and updates the client-escape byte from a
// single-character string.
func (c *Connection) SetClientEscapeString(s string) error {
	b, err := SetClientEscapeFromString(s)
	if err != nil {
		return err
	}
	c.properties.SetClientEscape(b)
	return nil
}

// SetProperty sets a connection property by name (one of "rows", "columns",
// "pixelsX", "pixelsY", "clientEscape"), the generic entry point the source's
// dynamic property slots exposed. Any other name fails with
// `Invalid property: 'X'` (spec.md §7).
func (c *Connection) SetProperty(name string, value interface{}) error {
	return c.properties.SetProperty(name, value)
}
