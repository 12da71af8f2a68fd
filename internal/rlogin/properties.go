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

// Default terminal geometry and escape character (spec.md §3). NewProperties
// starts from these; values the caller sets afterwards replace them.
const (
	DefaultRows         = 24
	DefaultColumns      = 80
	DefaultPixelsX      = 640
	DefaultPixelsY      = 480
	DefaultClientEscape = byte('~')
)

// Properties holds the mutable connection geometry and client-escape byte.
// Spec.md §9 calls for replacing the source's dynamic property accessors
// with "a struct with validated setters (or a builder) exposing the same
// five names"; validation happens at write time here, never at read time.
//
// Setters are called from whatever goroutine owns the Connection (e.g. a
// CLI's SIGWINCH handler), while StateMachine.sendWCCSLocked reads the same
// fields from the transport's reader goroutine when the server requests a
// WCCS frame. Properties therefore guards its own fields with a mutex,
// mirroring the guard StateMachine already puts around its mode flags
// (statemachine.go's sm.mu) rather than relying on the caller to serialize
// access.
type Properties struct {
	mu sync.Mutex

	rows, columns, pixelsX, pixelsY int
	clientEscape                    byte
}

// NewProperties returns Properties populated with the spec.md §3 defaults.
func NewProperties() *Properties {
	return &Properties{
		rows:         DefaultRows,
		columns:      DefaultColumns,
		pixelsX:      DefaultPixelsX,
		pixelsY:      DefaultPixelsY,
		clientEscape: DefaultClientEscape,
	}
}

func (p *Properties) Rows() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rows
}

func (p *Properties) Columns() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.columns
}

func (p *Properties) PixelsX() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pixelsX
}

func (p *Properties) PixelsY() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pixelsY
}

func (p *Properties) ClientEscape() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clientEscape
}

// clone copies p's field values into a freshly constructed Properties,
// never copying p's mutex itself (a locked-struct copy is the exact
// `go vet`-flagged mistake this type now has to avoid once it carries a
// lock).
func (p *Properties) clone() *Properties {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Properties{
		rows:         p.rows,
		columns:      p.columns,
		pixelsX:      p.pixelsX,
		pixelsY:      p.pixelsY,
		clientEscape: p.clientEscape,
	}
}

func (p *Properties) SetRows(v int) error {
	if v <= 0 {
		return errInvalidSetting("rows", v)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows = v
	return nil
}

func (p *Properties) SetColumns(v int) error {
	if v <= 0 {
		return errInvalidSetting("columns", v)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.columns = v
	return nil
}

func (p *Properties) SetPixelsX(v int) error {
	if v <= 0 {
		return errInvalidSetting("pixelsX", v)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pixelsX = v
	return nil
}

func (p *Properties) SetPixelsY(v int) error {
	if v <= 0 {
		return errInvalidSetting("pixelsY", v)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pixelsY = v
	return nil
}

// SetClientEscape accepts a single byte value directly.
func (p *Properties) SetClientEscape(v byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clientEscape = v
}

// SetClientEscapeFromString converts a single-character string to its byte
// value (by ordinal), per spec.md §4.6 for AddClientEscape and §3's
// "single-character byte value" constraint on the clientEscape property
// itself. Any other string is rejected.
func SetClientEscapeFromString(s string) (byte, error) {
	if len(s) != 1 {
		return 0, errInvalidSetting("clientEscape", s)
	}
	return s[0], nil
}

// SetProperty is the generic, name-indexed setter the source's dynamic
// property slots exposed (spec.md §9: "a struct with validated setters ...
// exposing the same five names"). It's the one caller for the "unknown
// property name" case in spec.md §7's error taxonomy: any name outside the
// five below is rejected with `Invalid property: 'X'` rather than silently
// accepted or panicking.
func (p *Properties) SetProperty(name string, value interface{}) error {
	switch name {
	case "rows":
		v, ok := asInt(value)
		if !ok {
			return errInvalidType(name, "integer")
		}
		return p.SetRows(v)
	case "columns":
		v, ok := asInt(value)
		if !ok {
			return errInvalidType(name, "integer")
		}
		return p.SetColumns(v)
	case "pixelsX":
		v, ok := asInt(value)
		if !ok {
			return errInvalidType(name, "integer")
		}
		return p.SetPixelsX(v)
	case "pixelsY":
		v, ok := asInt(value)
		if !ok {
			return errInvalidType(name, "integer")
		}
		return p.SetPixelsY(v)
	case "clientEscape":
		switch v := value.(type) {
		case byte:
			p.SetClientEscape(v)
			return nil
		case string:
			b, err := SetClientEscapeFromString(v)
			if err != nil {
				return err
			}
			p.SetClientEscape(b)
			return nil
		default:
			return errInvalidType(name, "byte or single-character string")
		}
	default:
		return errInvalidProperty(name)
	}
}

// PropertyOverrides captures the optional properties accepted by Connect;
// per spec.md §4.1, if any of the five is supplied, all five must be.
type PropertyOverrides struct {
	Rows, Columns, PixelsX, PixelsY int
	ClientEscape                    byte
}

// Apply validates and writes all five overrides onto p, atomically: if any
// field is invalid, p is left unchanged.
func (p *Properties) Apply(o *PropertyOverrides) error {
	if o.Rows <= 0 {
		return errInvalidSetting("rows", o.Rows)
	}
	if o.Columns <= 0 {
		return errInvalidSetting("columns", o.Columns)
	}
	if o.PixelsX <= 0 {
		return errInvalidSetting("pixelsX", o.PixelsX)
	}
	if o.PixelsY <= 0 {
		return errInvalidSetting("pixelsY", o.PixelsY)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rows, p.columns, p.pixelsX, p.pixelsY = o.Rows, o.Columns, o.PixelsX, o.PixelsY
	p.clientEscape = o.ClientEscape
	return nil
}
