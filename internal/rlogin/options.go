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

// Options are the immutable settings supplied at construction time: the
// target host/port and the four handshake strings (spec.md §3/§6). All six
// are required; Validate reports the first problem found, the same way
// the teacher's own CLI validates its required flags before dialing.
type Options struct {
	Host           string
	Port           int
	ClientUsername string
	ServerUsername string
	TerminalType   string
	TerminalSpeed  int
}

// Validate checks presence and range of every required option, returning a
// *ValidationError describing the first problem encountered.
func (o *Options) Validate() error {
	if o == nil {
		return errMissingOption("host")
	}
	if o.Host == "" {
		return errMissingOption("host")
	}
	if o.Port < 1 || o.Port > 65535 {
		return errInvalidSetting("port", o.Port)
	}
	if o.ClientUsername == "" {
		return errMissingOption("clientUsername")
	}
	if o.ServerUsername == "" {
		return errMissingOption("serverUsername")
	}
	if o.TerminalType == "" {
		return errMissingOption("terminalType")
	}
	if o.TerminalSpeed <= 0 {
		return errInvalidSetting("terminalSpeed", o.TerminalSpeed)
	}
	if containsNUL(o.Host) || containsNUL(o.ClientUsername) || containsNUL(o.ServerUsername) ||
		containsNUL(o.TerminalType) {
		return errInvalidSetting("handshake field", "embedded NUL")
	}
	return nil
}

func containsNUL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return true
		}
	}
	return false
}

// NewOptionsFromMap builds Options from a loosely-typed map, the shape the
// original dynamic-language constructor accepts (spec.md §6: "Construct
// with options map above"). Presence and type are checked per key before
// Validate is applied, so a caller passing e.g. port as a string gets
// "Invalid type for 'port': expected integer" rather than a zero-value port
// silently failing range validation.
func NewOptionsFromMap(m map[string]interface{}) (*Options, error) {
	opts := &Options{}

	host, ok := m["host"]
	if !ok {
		return nil, errMissingOption("host")
	}
	hostStr, ok := host.(string)
	if !ok {
		return nil, errInvalidType("host", "string")
	}
	opts.Host = hostStr

	port, ok := m["port"]
	if !ok {
		return nil, errMissingOption("port")
	}
	portInt, ok := asInt(port)
	if !ok {
		return nil, errInvalidType("port", "integer")
	}
	opts.Port = portInt

	clientUsername, ok := m["clientUsername"]
	if !ok {
		return nil, errMissingOption("clientUsername")
	}
	clientUsernameStr, ok := clientUsername.(string)
	if !ok {
		return nil, errInvalidType("clientUsername", "string")
	}
	opts.ClientUsername = clientUsernameStr

	serverUsername, ok := m["serverUsername"]
	if !ok {
		return nil, errMissingOption("serverUsername")
	}
	serverUsernameStr, ok := serverUsername.(string)
	if !ok {
		return nil, errInvalidType("serverUsername", "string")
	}
	opts.ServerUsername = serverUsernameStr

	terminalType, ok := m["terminalType"]
	if !ok {
		return nil, errMissingOption("terminalType")
	}
	terminalTypeStr, ok := terminalType.(string)
	if !ok {
		return nil, errInvalidType("terminalType", "string")
	}
	opts.TerminalType = terminalTypeStr

	terminalSpeed, ok := m["terminalSpeed"]
	if !ok {
		return nil, errMissingOption("terminalSpeed")
	}
	terminalSpeedInt, ok := asInt(terminalSpeed)
	if !ok {
		return nil, errInvalidType("terminalSpeed", "integer")
	}
	opts.TerminalSpeed = terminalSpeedInt

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
