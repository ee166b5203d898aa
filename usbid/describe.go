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

package usbid

import (
	"fmt"

	"github.com/yawara/usb"
)

// Describe returns a human readable string describing the vendor and
// product of the given device:
//   - *usb.DeviceDesc  "Product (Vendor)"
func Describe(val interface{}) string {
	switch val := val.(type) {
	case *usb.DeviceDesc:
		if v, ok := Vendors[val.Vendor]; ok {
			if p, ok := v.Product[val.Product]; ok {
				return fmt.Sprintf("%s (%s)", p, v)
			}
			return fmt.Sprintf("Unknown (%s)", v)
		}
		return fmt.Sprintf("Unknown %s:%s", val.Vendor, val.Product)
	}
	return fmt.Sprintf("Unknown (%T)", val)
}

// Classify returns a human readable string of the class, subclass and
// protocol of the given descriptor:
//   - *usb.DeviceDesc               class of the device as a whole
//   - usb.InterfaceDesc, *usb.InterfaceDesc  class of the interface
func Classify(val interface{}) string {
	var class, sub usb.Class
	var proto usb.Protocol
	switch val := val.(type) {
	case *usb.DeviceDesc:
		class, sub, proto = val.Class, val.SubClass, val.Protocol
	case usb.InterfaceDesc:
		class, sub, proto = val.Class, val.SubClass, val.Protocol
	case *usb.InterfaceDesc:
		class, sub, proto = val.Class, val.SubClass, val.Protocol
	default:
		return fmt.Sprintf("Unknown (%T)", val)
	}

	if c, ok := Classes[class]; ok {
		if s, ok := c.SubClass[sub]; ok {
			if p, ok := s.Protocol[proto]; ok {
				return fmt.Sprintf("%s (%s) %s", c, s, p)
			}
			return fmt.Sprintf("%s (%s)", c, s)
		}
		return c.String()
	}
	return fmt.Sprintf("Unknown %d.%d.%d", class, sub, proto)
}
