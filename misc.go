// Copyright 2024 the usb Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package usb

import "fmt"

// BCD is a binary-coded decimal version number. Its first 8 bits represent
// the major version number, its last 8 bits represent the minor version
// number. Major and minor are composed of 4 bit nibbles, e.g. USB 2.0 is
// 0x0200.
type BCD uint16

// Major is the major number of the BCD.
func (v BCD) Major() uint8 {
	return uint8(v >> 8)
}

// Minor is the minor number of the BCD.
func (v BCD) Minor() uint8 {
	return uint8(v & 0xff)
}

// String returns a dotted representation of the BCD number (major.minor).
func (v BCD) String() string {
	return fmt.Sprintf("%x.%02x", v.Major(), v.Minor())
}

// Version returns a BCD version number with the given major and minor.
func Version(major, minor uint8) BCD {
	return BCD(major)/10<<12 | BCD(major)%10<<8 | BCD(minor)/10<<4 | BCD(minor)%10
}

// ID represents a vendor or product ID.
type ID uint16

// String returns a hexadecimal ID.
func (id ID) String() string {
	return fmt.Sprintf("%04x", int(id))
}

// Milliamperes is a unit of electric current consumption.
type Milliamperes uint

func (ma Milliamperes) String() string {
	return fmt.Sprintf("%dmA", uint(ma))
}
