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

// fakeTransport is an in-memory Transport used by the state machine and
// escape-table tests, matching the table-driven testing style of
// MongooseMoo-barn/parser/parser_test.go (plain *testing.T, no mocking
// framework) rather than a generated mock.
type fakeTransport struct {
	written [][]byte
	ended   bool
	closed  bool

	onData  func([]byte)
	onClose func()
	onError func(error)

	writeOK bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{writeOK: true}
}

func (f *fakeTransport) Write(p []byte) (bool, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	f.written = append(f.written, cp)
	return f.writeOK, nil
}

func (f *fakeTransport) End() error {
	f.ended = true
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func (f *fakeTransport) OnData(fn func([]byte)) { f.onData = fn }
func (f *fakeTransport) OnClose(fn func())      { f.onClose = fn }
func (f *fakeTransport) OnError(fn func(error)) { f.onError = fn }

// deliver simulates the transport receiving an inbound chunk from the peer.
func (f *fakeTransport) deliver(b []byte) {
	if f.onData != nil {
		f.onData(b)
	}
}

// allWritten concatenates every byte slice written to the transport so far.
func (f *fakeTransport) allWritten() []byte {
	var out []byte
	for _, w := range f.written {
		out = append(out, w...)
	}
	return out
}
