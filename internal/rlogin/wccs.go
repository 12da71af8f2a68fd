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
	"bytes"
	"encoding/binary"
)

// wccsMagic is the fixed 4-byte prefix identifying a Window Change Control
// Sequence frame (spec.md §4.4/§6).
var wccsMagic = []byte{0xFF, 0xFF, 0x73, 0x73}

// buildWCCS serializes the 12-byte WCCS frame: magic + 4 little-endian
// uint16 fields (rows, columns, pixelsX, pixelsY).
//
// Grounded on sshproxy.WindowChange.Serialize (teacher): identical
// fixed-width encoding/binary.Write idiom over a bytes.Buffer, same
// "terminal geometry over the wire" concern -- here little-endian per
// spec.md (the 'v' pack code of the PHP reference), versus the teacher's
// SSH window-change payload which is big-endian per RFC 4254.
func buildWCCS(rows, columns, pixelsX, pixelsY int) []byte {
	buf := &bytes.Buffer{}
	buf.Write(wccsMagic)
	_ = binary.Write(buf, binary.LittleEndian, uint16(rows))
	_ = binary.Write(buf, binary.LittleEndian, uint16(columns))
	_ = binary.Write(buf, binary.LittleEndian, uint16(pixelsX))
	_ = binary.Write(buf, binary.LittleEndian, uint16(pixelsY))
	return buf.Bytes()
}
