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
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultConnectTimeout is the time allowed for the server to acknowledge
// the handshake before Connect fails (spec.md §4.1/§5).
const DefaultConnectTimeout = 10 * time.Second

// Dialer validates options and opens an RLOGIN connection. It plays the
// "TCP dialling, timeouts" collaborator role spec.md §2 assigns to it,
// deliberately kept thin: everything protocol-specific lives in
// StateMachine.
//
// Grounded on sshproxy.RunProxy's listener/dial loop (teacher) for "open
// the transport, then hand it to the connection layer", and on SSHXtend's
// NewControllerWithConnection (pack, other_examples) for threading a
// cancellable context.Context through a connect call that can fail locally
// (validation) before ever touching the network.
type Dialer struct {
	Options        Options
	ConnectTimeout time.Duration
	Log            *logrus.Entry

	// properties starts from the spec.md §3 defaults and carries any values
	// set since through Properties(); Connect uses it unless its overrides
	// argument is supplied.
	properties *Properties
}

// NewDialer validates opts and returns a Dialer ready to Connect.
func NewDialer(opts Options) (*Dialer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Dialer{
		Options:        opts,
		ConnectTimeout: DefaultConnectTimeout,
		properties:     NewProperties(),
	}, nil
}

// Properties returns the dialer's currently-configured properties, applied
// at the next Connect call if no overrides are supplied.
func (d *Dialer) Properties() *Properties { return d.properties }

// Connect dials host:port, writes the handshake frame, and waits for the
// server's handshake acknowledgement, per spec.md §4.1. If overrides is
// non-nil, all five of its fields must be valid or the call fails
// synchronously before any network I/O occurs.
func (d *Dialer) Connect(ctx context.Context, overrides *PropertyOverrides) (*Connection, error) {
	properties := d.properties
	if overrides != nil {
		properties = d.properties.clone()
		if err := properties.Apply(overrides); err != nil {
			return nil, err
		}
	}

	log := d.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{
		"host": d.Options.Host,
		"port": d.Options.Port,
	})

	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{}
	addr := net.JoinHostPort(d.Options.Host, strconv.Itoa(d.Options.Port))
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("rlogin: dial %s: %w", addr, err)
	}

	transport := newTCPTransport(conn)
	connection := newConnection(transport, properties, log)

	established := make(chan struct{}, 1)
	connection.sm.Events().onConnectionEstablishedHook(func() {
		select {
		case established <- struct{}{}:
		default:
		}
	})

	go transport.run()

	handshake := buildHandshake(&d.Options)
	if ok, err := transport.Write(handshake); err != nil || !ok {
		_ = conn.Close()
		if err == nil {
			err = errors.New("rlogin: handshake write rejected")
		}
		return nil, fmt.Errorf("rlogin: handshake: %w", err)
	}
	log.Debug("rlogin: handshake sent")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-established:
		log.Debug("rlogin: handshake acknowledged")
		return connection, nil
	case <-ctx.Done():
		_ = conn.Close()
		return nil, fmt.Errorf("rlogin: connect to %s: %w", addr, ctx.Err())
	}
}

// buildHandshake serializes the four-string handshake frame of spec.md
// §4.1/§6:
//
//	00  clientUsername  00  serverUsername  00  terminalType "/" terminalSpeed  00
func buildHandshake(opts *Options) []byte {
	buf := make([]byte, 0, len(opts.ClientUsername)+len(opts.ServerUsername)+len(opts.TerminalType)+16)
	buf = append(buf, 0x00)
	buf = append(buf, opts.ClientUsername...)
	buf = append(buf, 0x00)
	buf = append(buf, opts.ServerUsername...)
	buf = append(buf, 0x00)
	buf = append(buf, opts.TerminalType...)
	buf = append(buf, '/')
	buf = append(buf, strconv.Itoa(opts.TerminalSpeed)...)
	buf = append(buf, 0x00)
	return buf
}
