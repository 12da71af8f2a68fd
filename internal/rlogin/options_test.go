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

import "testing"

func validOptions() Options {
	return Options{
		Host:           "host.example.org",
		Port:           513,
		ClientUsername: "alice",
		ServerUsername: "alice",
		TerminalType:   "xterm",
		TerminalSpeed:  38400,
	}
}

func TestOptionsValidateOK(t *testing.T) {
	o := validOptions()
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestOptionsValidateMissingHost(t *testing.T) {
	o := validOptions()
	o.Host = ""
	err := o.Validate()
	if err == nil {
		t.Fatalf("expected error for missing host")
	}
	want := "Missing required option: 'host'"
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}

func TestOptionsValidatePortRange(t *testing.T) {
	o := validOptions()
	o.Port = 0
	if err := o.Validate(); err == nil {
		t.Fatalf("expected error for port 0")
	}
	o.Port = 70000
	if err := o.Validate(); err == nil {
		t.Fatalf("expected error for port 70000")
	}
}

func TestOptionsValidateEmbeddedNUL(t *testing.T) {
	o := validOptions()
	o.ClientUsername = "ali\x00ce"
	if err := o.Validate(); err == nil {
		t.Fatalf("expected error for embedded NUL")
	}
}

func TestNewOptionsFromMapPortWrongType(t *testing.T) {
	m := map[string]interface{}{
		"host":           "host.example.org",
		"port":           "not-a-port",
		"clientUsername": "alice",
		"serverUsername": "alice",
		"terminalType":   "xterm",
		"terminalSpeed":  38400,
	}
	_, err := NewOptionsFromMap(m)
	if err == nil {
		t.Fatalf("expected error for non-integer port")
	}
	want := "Invalid type for 'port': expected integer"
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}

func TestNewOptionsFromMapMissingKey(t *testing.T) {
	m := map[string]interface{}{
		"port":           513,
		"clientUsername": "alice",
		"serverUsername": "alice",
		"terminalType":   "xterm",
		"terminalSpeed":  38400,
	}
	_, err := NewOptionsFromMap(m)
	if err == nil {
		t.Fatalf("expected error for missing host key")
	}
	want := "Missing required option: 'host'"
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}

func TestNewOptionsFromMapOK(t *testing.T) {
	m := map[string]interface{}{
		"host":           "host.example.org",
		"port":           int64(513),
		"clientUsername": "alice",
		"serverUsername": "bob",
		"terminalType":   "vt100",
		"terminalSpeed":  9600,
	}
	opts, err := NewOptionsFromMap(m)
	if err != nil {
		t.Fatalf("NewOptionsFromMap: %v", err)
	}
	if opts.Port != 513 || opts.ServerUsername != "bob" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
