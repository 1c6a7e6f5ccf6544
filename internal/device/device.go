// Package device parses and represents compute device identifiers.
package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadDevice reports a malformed device identifier string.
var ErrBadDevice = errors.New("malformed device identifier")

// Managed is the index sentinel for shared/unified memory that is
// accessible by multiple compute backends.
const Managed = -1

// Device identifies where a memory block resides.
// The zero value means "unset" and defaults to cpu:0 at allocation time.
type Device struct {
	Name  string
	Index int
}

// Default is the device used when none is requested.
var Default = Device{Name: "cpu", Index: 0}

// Parse splits an identifier of the form "name:index" into a Device.
// The index is either a non-negative integer or the literal "managed",
// which maps to the Managed sentinel.
func Parse(s string) (Device, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Device{}, fmt.Errorf("%w: %q (want \"name:index\")", ErrBadDevice, s)
	}
	name := parts[0]
	if name == "" {
		return Device{}, fmt.Errorf("%w: %q (empty device name)", ErrBadDevice, s)
	}
	if parts[1] == "managed" {
		return Device{Name: name, Index: Managed}, nil
	}
	no, err := strconv.Atoi(parts[1])
	if err != nil || no < 0 {
		return Device{}, fmt.Errorf("%w: %q (index must be a non-negative integer or \"managed\")", ErrBadDevice, s)
	}
	return Device{Name: name, Index: no}, nil
}

// IsManaged reports whether the device refers to shared/unified memory.
func (d Device) IsManaged() bool {
	return d.Index == Managed
}

// IsZero reports whether the device is unset.
func (d Device) IsZero() bool {
	return d.Name == ""
}

// Or returns d, or fallback when d is unset.
func (d Device) Or(fallback Device) Device {
	if d.IsZero() {
		return fallback
	}
	return d
}

// String renders the device back into "name:index" form.
func (d Device) String() string {
	if d.IsZero() {
		return "unset"
	}
	if d.Index == Managed {
		return d.Name + ":managed"
	}
	return d.Name + ":" + strconv.Itoa(d.Index)
}
