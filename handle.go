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

// DeviceHandle is an open I/O session on a USB device. It is independent
// of the Device it was opened from: closing one does not affect the other.
// A DeviceHandle must be Close()d after use; the session ends exactly once
// no matter how often Close is called.
type DeviceHandle struct {
	ctx *Context

	// Desc is the device descriptor, captured when the session was opened.
	Desc *DeviceDesc

	mu     sync.Mutex
	handle *libusbDevHandle
}

func newDeviceHandle(ctx *Context, h *libusbDevHandle, desc *DeviceDesc) *DeviceHandle {
	dh := &DeviceHandle{ctx: ctx, Desc: desc, handle: h}
	ctx.registerHandle(dh)
	return dh
}

// String represents a human readable representation of the handle.
func (h *DeviceHandle) String() string {
	return fmt.Sprintf("open device vid=%s,pid=%s", h.Desc.Vendor, h.Desc.Product)
}

// Device returns a new Device reference to the device this handle is a
// session on. The reference holds its own count on the underlying entry
// and must be Closed independently of the handle.
func (h *DeviceHandle) Device() (*Device, error) {
	handle := h.handle
	if handle == nil {
		return nil, fmt.Errorf("Device() called on %s after Close: %w", h, ErrHandleClosed)
	}
	dev := h.ctx.libusb.getDevice(handle)
	if dev == nil {
		return nil, fmt.Errorf("no device behind %s: %w", h, ErrorNoDevice)
	}
	return newDeviceRef(h.ctx, dev), nil
}

// ActiveConfigNum returns the configuration value of the currently active
// configuration.
func (h *DeviceHandle) ActiveConfigNum() (int, error) {
	handle := h.handle
	if handle == nil {
		return 0, fmt.Errorf("ActiveConfigNum() called on %s after Close: %w", h, ErrHandleClosed)
	}
	ret, err := h.ctx.libusb.getConfig(handle)
	if err != nil {
		return 0, fmt.Errorf("failed to get the active config number of %s: %w", h, err)
	}
	return int(ret), nil
}

// GetStringDescriptor returns a device string descriptor with the given
// index number. The first supported language is always used and the
// returned descriptor string is converted to ASCII (non-ASCII characters
// are replaced with "?").
func (h *DeviceHandle) GetStringDescriptor(descIndex int) (string, error) {
	handle := h.handle
	if handle == nil {
		return "", fmt.Errorf("GetStringDescriptor(%d) called on %s after Close: %w", descIndex, h, ErrHandleClosed)
	}
	s, err := h.ctx.libusb.getStringDesc(handle, descIndex)
	if err != nil {
		return "", fmt.Errorf("failed to get string descriptor %d of %s: %w", descIndex, h, err)
	}
	return s, nil
}

// Manufacturer returns the device's manufacturer name.
// GetStringDescriptor's conversion rules apply.
func (h *DeviceHandle) Manufacturer() (string, error) {
	return h.GetStringDescriptor(h.Desc.iManufacturer)
}

// Product returns the device's product name.
// GetStringDescriptor's conversion rules apply.
func (h *DeviceHandle) Product() (string, error) {
	return h.GetStringDescriptor(h.Desc.iProduct)
}

// SerialNumber returns the device's serial number.
// GetStringDescriptor's conversion rules apply.
func (h *DeviceHandle) SerialNumber() (string, error) {
	return h.GetStringDescriptor(h.Desc.iSerialNumber)
}

// Reset performs a USB port reset to reinitialize the device.
func (h *DeviceHandle) Reset() error {
	handle := h.handle
	if handle == nil {
		return fmt.Errorf("Reset() called on %s after Close: %w", h, ErrHandleClosed)
	}
	return h.ctx.libusb.reset(handle)
}

// SetAutoDetach enables/disables automatic kernel driver detachment. When
// autodetach is enabled, the host stack automatically detaches the kernel
// driver on an interface before it is claimed and reattaches it when the
// interface is released. Automatic kernel driver detachment is disabled on
// newly opened handles by default.
func (h *DeviceHandle) SetAutoDetach(autodetach bool) error {
	handle := h.handle
	if handle == nil {
		return fmt.Errorf("SetAutoDetach(%v) called on %s after Close: %w", autodetach, h, ErrHandleClosed)
	}
	var autodetachInt int
	if autodetach {
		autodetachInt = 1
	}
	return h.ctx.libusb.setAutoDetach(handle, autodetachInt)
}

// Close ends the session. Close is idempotent, only the first call closes
// the underlying handle.
func (h *DeviceHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handle == nil {
		return nil
	}
	h.ctx.libusb.close(h.handle)
	h.handle = nil
	h.ctx.closeHandle(h)
	return nil
}
