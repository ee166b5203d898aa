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

// Package usb provides ownership-tracked access to USB devices through the
// libusb-1.0 host stack.
//
// A Context owns the session with the host stack. Devices returns unopened
// Device references for the attached devices; a Device answers descriptor
// and bus topology queries and Opens into a DeviceHandle for I/O sessions.
// Every Device and every DeviceHandle must be Closed after use, and the
// Context last: its Close fails while any of them are still open.
package usb

import (
	"fmt"
	"sync"
)

// Context manages all resources related to USB device handling.
type Context struct {
	ctx    *libusbContext
	done   chan struct{}
	libusb libusbIntf

	mu      sync.Mutex
	devices map[*Device]bool
	handles map[*DeviceHandle]bool
}

// NewContext returns a new Context instance and starts the event handling
// goroutine of the host stack. NewContext panics if the host stack fails
// to initialize.
func NewContext() *Context {
	return newContextWithImpl(libusb)
}

func newContextWithImpl(impl libusbIntf) *Context {
	c := &Context{
		libusb:  impl,
		done:    make(chan struct{}),
		devices: make(map[*Device]bool),
		handles: make(map[*DeviceHandle]bool),
	}
	ctx, err := impl.init()
	if err != nil {
		panic(err)
	}
	c.ctx = ctx
	go impl.handleEvents(c.ctx, c.done)
	return c
}

// Debug changes the debug level of the host stack. Level 0 means no debug,
// higher levels print more verbose event information. Debugging of this
// package's own operations is switched along with it.
func (c *Context) Debug(level int) {
	c.libusb.setDebug(c.ctx, level)
	setDebugLevel(level)
}

// Devices enumerates the attached USB devices and returns an unopened
// Device reference for every device the each function returns true for.
// Every returned Device must be Closed; the references of filtered-out
// devices are given back to the host stack before Devices returns.
//
// If there are any errors reading the descriptors during enumeration, the
// last one is returned along with the successfully wrapped devices.
func (c *Context) Devices(each func(desc *DeviceDesc) bool) ([]*Device, error) {
	c.mu.Lock()
	closed := c.ctx == nil
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("Devices() called on a closed context: %w", ErrContextClosed)
	}
	list, err := c.libusb.getDevices(c.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	var ret []*Device
	var reterr error
	for _, dev := range list {
		raw, err := c.libusb.getDeviceDesc(dev)
		var desc *DeviceDesc
		if err == nil {
			desc, err = deviceDescFromBytes(raw)
		}
		if err != nil {
			c.libusb.dereference(dev)
			reterr = fmt.Errorf("failed to read the descriptor of an enumerated device: %w", err)
			continue
		}
		if !each(desc) {
			c.libusb.dereference(dev)
			continue
		}
		ret = append(ret, newDevice(c, dev))
	}
	return ret, reterr
}

// OpenDeviceWithVIDPID opens the first attached device with the given
// vendor and product IDs. If none of the attached devices match, nil is
// returned for both the handle and the error. All device references taken
// during enumeration are released before returning.
func (c *Context) OpenDeviceWithVIDPID(vid, pid ID) (*DeviceHandle, error) {
	devs, err := c.Devices(func(desc *DeviceDesc) bool {
		return desc.Vendor == vid && desc.Product == pid
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return nil, err
	}
	if len(devs) == 0 {
		return nil, nil
	}
	h, err := devs[0].Open()
	for _, d := range devs {
		d.Close()
	}
	return h, err
}

func (c *Context) registerDevice(d *Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices[d] = true
}

func (c *Context) closeDev(d *Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.devices, d)
}

func (c *Context) registerHandle(h *DeviceHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handles[h] = true
}

func (c *Context) closeHandle(h *DeviceHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handles, h)
}

// Close releases the session with the host stack and stops the event
// handling goroutine. Close fails while Devices or DeviceHandles obtained
// through this Context are still open.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ctx == nil {
		return nil
	}
	if n := len(c.devices); n > 0 {
		return fmt.Errorf("Close() called while %d device references are still open", n)
	}
	if n := len(c.handles); n > 0 {
		return fmt.Errorf("Close() called while %d device handles are still open", n)
	}
	close(c.done)
	err := c.libusb.exit(c.ctx)
	c.ctx = nil
	return err
}
