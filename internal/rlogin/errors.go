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

import "fmt"

// ValidationError reports a synchronous, caller-fixable problem with
// constructor options, connection properties, or escape-table arguments.
// It always leaves the affected state unchanged.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func errMissingOption(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Missing required option: '%s'", field)}
}

func errInvalidType(field, expected string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid type for '%s': expected %s", field, expected)}
}

func errInvalidSetting(field string, value interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid '%s' setting %v", field, value)}
}

func errInvalidProperty(field string) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid property: '%s'", field)}
}

// StateError reports an operation attempted against a Connection in the
// wrong lifecycle state (not yet connected, input suspended, already closed).
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

var (
	errNotConnected    = &StateError{Message: "RLogin client not connected"}
	errInputSuspended  = &StateError{Message: "RLogin.send: input has been suspended."}
	errBadEscapeString = &ValidationError{Field: "clientEscape", Message: "addClientEscape: invalid string argument"}
)
