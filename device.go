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

import (
	"fmt"
	"sync"
)

// Device is a reference to an enumerated, unopened USB device. It keeps the
// host stack's entry for the device alive: constructing a Device takes a
// reference on the entry and Close gives it up again, exactly once.
//
// A Device answers descriptor and bus topology queries without opening the
// device. Open starts an I/O session and returns a DeviceHandle for it; the
// Device stays usable and the two are closed independently.
type Device struct {
	ctx *Context

	mu  sync.Mutex
	dev *libusbDevice
}

// newDevice wraps a device entry whose reference is already owned by the
// caller. Enumeration acquires one reference per listed device and hands
// it over here.
func newDevice(ctx *Context, dev *libusbDevice) *Device {
	d := &Device{ctx: ctx, dev: dev}
	ctx.registerDevice(d)
	return d
}

// newDeviceRef wraps a device entry the caller does not own a reference
// to, acquiring a new one for the returned Device.
func newDeviceRef(ctx *Context, dev *libusbDevice) *Device {
	ctx.libusb.reference(dev)
	return newDevice(ctx, dev)
}

// String represents a human readable representation of the device.
func (d *Device) String() string {
	dev := d.dev
	if dev == nil {
		return "device (closed)"
	}
	return fmt.Sprintf("device bus=%d,addr=%d", d.ctx.libusb.getBusNumber(dev), d.ctx.libusb.getAddress(dev))
}

// Descriptor fetches and decodes the device descriptor.
func (d *Device) Descriptor() (*DeviceDesc, error) {
	dev := d.dev
	if dev == nil {
		return nil, fmt.Errorf("Descriptor() called on %s after Close: %w", d, ErrDeviceClosed)
	}
	raw, err := d.ctx.libusb.getDeviceDesc(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to get the device descriptor of %s: %w", d, err)
	}
	return deviceDescFromBytes(raw)
}

// ConfigDescriptor fetches and decodes the descriptor tree of the index-th
// device configuration. Note that the argument is an index into the list
// of configurations (from 0 through DeviceDesc.NumConfigs-1), not a
// configuration value. The returned error wraps ErrorNotFound when the
// device has no configuration with that index.
func (d *Device) ConfigDescriptor(index int) (*ConfigDesc, error) {
	dev := d.dev
	if dev == nil {
		return nil, fmt.Errorf("ConfigDescriptor(%d) called on %s after Close: %w", index, d, ErrDeviceClosed)
	}
	if index < 0 || index > 0xff {
		return nil, fmt.Errorf("ConfigDescriptor(%d) on %s: index out of range: %w", index, d, ErrorNotFound)
	}
	raw, err := d.ctx.libusb.getConfigDesc(dev, uint8(index))
	if err != nil {
		return nil, fmt.Errorf("failed to get configuration descriptor %d of %s: %w", index, d, err)
	}
	return configDescFromBytes(raw)
}

// ActiveConfigDescriptor fetches and decodes the descriptor tree of the
// configuration the device is currently in. The returned error wraps
// ErrorNotFound when the device is unconfigured.
func (d *Device) ActiveConfigDescriptor() (*ConfigDesc, error) {
	dev := d.dev
	if dev == nil {
		return nil, fmt.Errorf("ActiveConfigDescriptor() called on %s after Close: %w", d, ErrDeviceClosed)
	}
	raw, err := d.ctx.libusb.getActiveConfigDesc(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to get the active configuration descriptor of %s: %w", d, err)
	}
	return configDescFromBytes(raw)
}

// BusNumber returns the number of the bus the device is connected to.
func (d *Device) BusNumber() uint8 {
	dev := d.dev
	if dev == nil {
		debug.Printf("BusNumber() called on a closed device")
		return 0
	}
	return d.ctx.libusb.getBusNumber(dev)
}

// Address returns the address of the device on its bus. The address is
// assigned by the host and changes when the device is re-enumerated.
func (d *Device) Address() uint8 {
	dev := d.dev
	if dev == nil {
		debug.Printf("Address() called on a closed device")
		return 0
	}
	return d.ctx.libusb.getAddress(dev)
}

// PortNumber returns the number of the hub port the device is plugged
// into, or 0 for a device on a root hub.
func (d *Device) PortNumber() uint8 {
	dev := d.dev
	if dev == nil {
		debug.Printf("PortNumber() called on a closed device")
		return 0
	}
	return d.ctx.libusb.getPortNumber(dev)
}

// PortNumbers returns the chain of hub ports the device is connected
// through, from the port on the root hub down to the device's own port.
// The result has at most 7 entries; the host stack truncates the chain of
// a deeper topology instead of failing.
func (d *Device) PortNumbers() []uint8 {
	dev := d.dev
	if dev == nil {
		debug.Printf("PortNumbers() called on a closed device")
		return nil
	}
	return d.ctx.libusb.getPortNumbers(dev)
}

// Speed returns the speed the device negotiated with the host. Speed codes
// this library does not recognize are reported as SpeedUnknown, never as
// an error.
func (d *Device) Speed() Speed {
	dev := d.dev
	if dev == nil {
		debug.Printf("Speed() called on a closed device")
		return SpeedUnknown
	}
	return speedFromCode(d.ctx.libusb.getSpeed(dev))
}

// Parent returns a Device for the hub the device is connected to, or nil
// for a device connected to a root hub. The returned Device holds a
// reference of its own and must be Closed independently of the device it
// came from.
func (d *Device) Parent() *Device {
	dev := d.dev
	if dev == nil {
		debug.Printf("Parent() called on a closed device")
		return nil
	}
	parent := d.ctx.libusb.getParent(dev)
	if parent == nil {
		return nil
	}
	return newDeviceRef(d.ctx, parent)
}

// Open starts an I/O session on the device. The returned DeviceHandle
// carries the device descriptor captured at open time and must be Closed
// after use. The Device itself stays open.
func (d *Device) Open() (*DeviceHandle, error) {
	dev := d.dev
	if dev == nil {
		return nil, fmt.Errorf("Open() called on %s after Close: %w", d, ErrDeviceClosed)
	}
	h, err := d.ctx.libusb.open(dev)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", d, err)
	}
	raw, err := d.ctx.libusb.getDeviceDesc(dev)
	if err != nil {
		d.ctx.libusb.close(h)
		return nil, fmt.Errorf("failed to get the device descriptor of %s: %w", d, err)
	}
	desc, err := deviceDescFromBytes(raw)
	if err != nil {
		d.ctx.libusb.close(h)
		return nil, err
	}
	return newDeviceHandle(d.ctx, h, desc), nil
}

// Close releases the device reference. Close is idempotent, only the
// first call gives up the underlying reference.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev == nil {
		return nil
	}
	d.ctx.libusb.dereference(d.dev)
	d.dev = nil
	d.ctx.closeDev(d)
	return nil
}
