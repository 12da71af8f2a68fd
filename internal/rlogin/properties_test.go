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

func TestPropertiesDefaults(t *testing.T) {
	p := NewProperties()
	if p.Rows() != DefaultRows || p.Columns() != DefaultColumns ||
		p.PixelsX() != DefaultPixelsX || p.PixelsY() != DefaultPixelsY ||
		p.ClientEscape() != DefaultClientEscape {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestPropertiesSettersReject(t *testing.T) {
	tests := []struct {
		name string
		set  func(p *Properties) error
	}{
		{"rows", func(p *Properties) error { return p.SetRows(-1) }},
		{"rows zero", func(p *Properties) error { return p.SetRows(0) }},
		{"columns", func(p *Properties) error { return p.SetColumns(-1) }},
		{"pixelsX", func(p *Properties) error { return p.SetPixelsX(0) }},
		{"pixelsY", func(p *Properties) error { return p.SetPixelsY(-5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProperties()
			if err := tt.set(p); err == nil {
				t.Fatalf("expected validation error")
			}
			if p.Rows() != DefaultRows {
				t.Fatalf("state mutated on rejected setter")
			}
		})
	}
}

func TestClientEscapeFromString(t *testing.T) {
	if b, err := SetClientEscapeFromString("~"); err != nil || b != '~' {
		t.Fatalf("SetClientEscapeFromString(~) = %v, %v", b, err)
	}
	if _, err := SetClientEscapeFromString("too long"); err == nil {
		t.Fatalf("expected error for multi-character escape string")
	}
	if _, err := SetClientEscapeFromString(""); err == nil {
		t.Fatalf("expected error for empty escape string")
	}
}

func TestSetPropertyByName(t *testing.T) {
	p := NewProperties()
	if err := p.SetProperty("rows", 50); err != nil {
		t.Fatalf("SetProperty(rows, 50): %v", err)
	}
	if p.Rows() != 50 {
		t.Fatalf("Rows() = %d, want 50", p.Rows())
	}
	if err := p.SetProperty("clientEscape", "!"); err != nil {
		t.Fatalf("SetProperty(clientEscape, !): %v", err)
	}
	if p.ClientEscape() != '!' {
		t.Fatalf("ClientEscape() = %q, want '!'", p.ClientEscape())
	}
}

func TestSetPropertyUnknownName(t *testing.T) {
	p := NewProperties()
	err := p.SetProperty("bogus", 1)
	if err == nil {
		t.Fatalf("expected error for unknown property name")
	}
	want := "Invalid property: 'bogus'"
	if err.Error() != want {
		t.Fatalf("err = %q, want %q", err.Error(), want)
	}
}

func TestSetPropertyWrongType(t *testing.T) {
	p := NewProperties()
	if err := p.SetProperty("rows", "not-an-int"); err == nil {
		t.Fatalf("expected error for non-integer rows value")
	}
}

func TestPropertiesApplyAllOrNothing(t *testing.T) {
	p := NewProperties()
	bad := &PropertyOverrides{Rows: 30, Columns: 0, PixelsX: 640, PixelsY: 480, ClientEscape: '~'}
	if err := p.Apply(bad); err == nil {
		t.Fatalf("expected error for zero columns override")
	}
	if p.Rows() != DefaultRows || p.Columns() != DefaultColumns {
		t.Fatalf("partial override applied despite validation failure: %+v", p)
	}

	good := &PropertyOverrides{Rows: 50, Columns: 132, PixelsX: 800, PixelsY: 600, ClientEscape: '!'}
	if err := p.Apply(good); err != nil {
		t.Fatalf("Apply(good): %v", err)
	}
	if p.Rows() != 50 || p.Columns() != 132 || p.PixelsX() != 800 || p.PixelsY() != 600 || p.ClientEscape() != '!' {
		t.Fatalf("overrides not applied: %+v", p)
	}
}
