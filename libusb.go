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
	"bytes"
	"encoding/binary"
	"unsafe"
)

/*
#cgo pkg-config: libusb-1.0
#include <libusb.h>
*/
import "C"

// Opaque types for the foreign objects of the host USB stack. Only the
// libusbIntf implementations below ever look inside them.
type libusbContext C.libusb_context
type libusbDevice C.libusb_device
type libusbDevHandle C.libusb_device_handle

// As per the USB 3.0 spec, a chain of hub ports has a depth of at most 7.
const maxPortDepth = 7

// libusbIntf is a set of trivial idiomatic Go wrappers around libusb C
// functions. The underlying code is generally not testable or difficult
// to test, since libusb interacts directly with the host USB stack.
//
// All functions here should operate on types defined on C.libusb* data
// types, and occasionally on convenience data types (like raw descriptor
// buffers or speed codes).
type libusbIntf interface {
	// context
	init() (*libusbContext, error)
	handleEvents(*libusbContext, <-chan struct{})
	getDevices(*libusbContext) ([]*libusbDevice, error)
	setDebug(*libusbContext, int)
	exit(*libusbContext) error

	// reference counting of device entries
	reference(*libusbDevice)
	dereference(*libusbDevice)

	// descriptors, returned in their raw wire form
	getDeviceDesc(*libusbDevice) ([]byte, error)
	getConfigDesc(*libusbDevice, uint8) ([]byte, error)
	getActiveConfigDesc(*libusbDevice) ([]byte, error)

	// bus topology
	getBusNumber(*libusbDevice) uint8
	getAddress(*libusbDevice) uint8
	getPortNumber(*libusbDevice) uint8
	getPortNumbers(*libusbDevice) []uint8
	getSpeed(*libusbDevice) int
	getParent(*libusbDevice) *libusbDevice

	// handle
	open(*libusbDevice) (*libusbDevHandle, error)
	close(*libusbDevHandle)
	getDevice(*libusbDevHandle) *libusbDevice
	getConfig(*libusbDevHandle) (uint8, error)
	getStringDesc(*libusbDevHandle, int) (string, error)
	reset(*libusbDevHandle) error
	setAutoDetach(*libusbDevHandle, int) error
}

// libusbImpl is an implementation of libusbIntf using real CGo-wrapped libusb.
type libusbImpl struct{}

func (libusbImpl) init() (*libusbContext, error) {
	var ctx *C.libusb_context
	if err := fromUSBError(C.libusb_init(&ctx)); err != nil {
		return nil, err
	}
	return (*libusbContext)(ctx), nil
}

func (libusbImpl) handleEvents(c *libusbContext, done <-chan struct{}) {
	tv := C.struct_timeval{tv_usec: 100e3}
	for {
		select {
		case <-done:
			return
		default:
		}
		if errno := C.libusb_handle_events_timeout_completed((*C.libusb_context)(c), &tv, nil); errno < 0 {
			debug.Printf("handle_events: error: %s", Error(errno))
		}
	}
}

func (libusbImpl) getDevices(ctx *libusbContext) ([]*libusbDevice, error) {
	var list **C.libusb_device
	cnt := C.libusb_get_device_list((*C.libusb_context)(ctx), &list)
	if cnt < 0 {
		return nil, fromUSBError(C.int(cnt))
	}
	ret := make([]*libusbDevice, 0, cnt)
	for _, d := range unsafe.Slice(list, int(cnt)) {
		ret = append(ret, (*libusbDevice)(d))
	}
	// The list itself is freed, but not the device entries: each one
	// keeps the reference the list acquired for it, to be given up
	// through dereference later.
	C.libusb_free_device_list(list, 0)
	return ret, nil
}

func (libusbImpl) setDebug(c *libusbContext, lvl int) {
	C.libusb_set_debug((*C.libusb_context)(c), C.int(lvl))
}

func (libusbImpl) exit(c *libusbContext) error {
	C.libusb_exit((*C.libusb_context)(c))
	return nil
}

func (libusbImpl) reference(d *libusbDevice) {
	C.libusb_ref_device((*C.libusb_device)(d))
}

func (libusbImpl) dereference(d *libusbDevice) {
	C.libusb_unref_device((*C.libusb_device)(d))
}

func (libusbImpl) getDeviceDesc(d *libusbDevice) ([]byte, error) {
	var desc C.struct_libusb_device_descriptor
	if err := fromUSBError(C.libusb_get_device_descriptor((*C.libusb_device)(d), &desc)); err != nil {
		return nil, err
	}
	// Flatten the foreign struct back into the wire layout it was read
	// from, so that the portable codec is the only decode path.
	w := bytes.NewBuffer(make([]byte, 0, deviceDescLen))
	binary.Write(w, binary.LittleEndian, usbDeviceDescriptor{
		BLength:            uint8(desc.bLength),
		BDescriptorType:    uint8(desc.bDescriptorType),
		BCDUSB:             uint16(desc.bcdUSB),
		BDeviceClass:       uint8(desc.bDeviceClass),
		BDeviceSubClass:    uint8(desc.bDeviceSubClass),
		BDeviceProtocol:    uint8(desc.bDeviceProtocol),
		BMaxPacketSize0:    uint8(desc.bMaxPacketSize0),
		IDVendor:           uint16(desc.idVendor),
		IDProduct:          uint16(desc.idProduct),
		BCDDevice:          uint16(desc.bcdDevice),
		IManufacturer:      uint8(desc.iManufacturer),
		IProduct:           uint8(desc.iProduct),
		ISerialNumber:      uint8(desc.iSerialNumber),
		BNumConfigurations: uint8(desc.bNumConfigurations),
	})
	return w.Bytes(), nil
}

func (libusbImpl) getConfigDesc(d *libusbDevice, index uint8) ([]byte, error) {
	var cfg *C.struct_libusb_config_descriptor
	if err := fromUSBError(C.libusb_get_config_descriptor((*C.libusb_device)(d), C.uint8_t(index), &cfg)); err != nil {
		return nil, err
	}
	defer C.libusb_free_config_descriptor(cfg)
	return flattenConfig(cfg), nil
}

func (libusbImpl) getActiveConfigDesc(d *libusbDevice) ([]byte, error) {
	var cfg *C.struct_libusb_config_descriptor
	if err := fromUSBError(C.libusb_get_active_config_descriptor((*C.libusb_device)(d), &cfg)); err != nil {
		return nil, err
	}
	defer C.libusb_free_config_descriptor(cfg)
	return flattenConfig(cfg), nil
}

// Audio endpoint descriptors are two bytes longer than standard ones.
const epAudioDescLen = epDescLen + 2

// flattenConfig serializes a configuration tree parsed by the host stack
// back into its wire form. The returned buffer is fully owned by Go, the
// foreign tree can be freed as soon as flattenConfig returns. Block
// lengths are normalized to the bytes actually emitted and the total
// length is patched accordingly, so the buffer is always self-consistent.
func flattenConfig(cfg *C.struct_libusb_config_descriptor) []byte {
	buf := make([]byte, 0, int(cfg.wTotalLength))
	buf = append(buf,
		configDescLen, byte(cfg.bDescriptorType),
		0, 0, // total length, patched below
		byte(cfg.bNumInterfaces), byte(cfg.bConfigurationValue),
		byte(cfg.iConfiguration), byte(cfg.bmAttributes), byte(cfg.MaxPower),
	)
	buf = append(buf, cExtra(cfg.extra, cfg.extra_length)...)
	for _, iface := range unsafe.Slice(cfg._interface, int(cfg.bNumInterfaces)) {
		for _, alt := range unsafe.Slice(iface.altsetting, int(iface.num_altsetting)) {
			buf = append(buf,
				intfDescLen, byte(alt.bDescriptorType),
				byte(alt.bInterfaceNumber), byte(alt.bAlternateSetting),
				byte(alt.bNumEndpoints), byte(alt.bInterfaceClass),
				byte(alt.bInterfaceSubClass), byte(alt.bInterfaceProtocol),
				byte(alt.iInterface),
			)
			buf = append(buf, cExtra(alt.extra, alt.extra_length)...)
			for _, end := range unsafe.Slice(alt.endpoint, int(alt.bNumEndpoints)) {
				buf = append(buf,
					epDescLen, byte(end.bDescriptorType),
					byte(end.bEndpointAddress), byte(end.bmAttributes),
					byte(end.wMaxPacketSize), byte(end.wMaxPacketSize>>8),
					byte(end.bInterval),
				)
				if int(end.bLength) >= epAudioDescLen {
					buf[len(buf)-epDescLen] = epAudioDescLen
					buf = append(buf, byte(end.bRefresh), byte(end.bSynchAddress))
				}
				buf = append(buf, cExtra(end.extra, end.extra_length)...)
			}
		}
	}
	buf[2], buf[3] = byte(len(buf)), byte(len(buf)>>8)
	return buf
}

func cExtra(data *C.uchar, length C.int) []byte {
	if data == nil || length <= 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(data), length)
}

func (libusbImpl) getBusNumber(d *libusbDevice) uint8 {
	return uint8(C.libusb_get_bus_number((*C.libusb_device)(d)))
}

func (libusbImpl) getAddress(d *libusbDevice) uint8 {
	return uint8(C.libusb_get_device_address((*C.libusb_device)(d)))
}

func (libusbImpl) getPortNumber(d *libusbDevice) uint8 {
	return uint8(C.libusb_get_port_number((*C.libusb_device)(d)))
}

func (libusbImpl) getPortNumbers(d *libusbDevice) []uint8 {
	var ports [maxPortDepth]C.uint8_t
	n := C.libusb_get_port_numbers((*C.libusb_device)(d), &ports[0], C.int(len(ports)))
	if n <= 0 {
		return nil
	}
	ret := make([]uint8, n)
	for i := range ret {
		ret[i] = uint8(ports[i])
	}
	return ret
}

func (libusbImpl) getSpeed(d *libusbDevice) int {
	return int(C.libusb_get_device_speed((*C.libusb_device)(d)))
}

func (libusbImpl) getParent(d *libusbDevice) *libusbDevice {
	p := C.libusb_get_parent((*C.libusb_device)(d))
	if p == nil {
		return nil
	}
	return (*libusbDevice)(p)
}

func (libusbImpl) open(d *libusbDevice) (*libusbDevHandle, error) {
	var handle *C.libusb_device_handle
	if err := fromUSBError(C.libusb_open((*C.libusb_device)(d), &handle)); err != nil {
		return nil, err
	}
	return (*libusbDevHandle)(handle), nil
}

func (libusbImpl) close(h *libusbDevHandle) {
	C.libusb_close((*C.libusb_device_handle)(h))
}

func (libusbImpl) getDevice(h *libusbDevHandle) *libusbDevice {
	return (*libusbDevice)(C.libusb_get_device((*C.libusb_device_handle)(h)))
}

func (libusbImpl) getConfig(h *libusbDevHandle) (uint8, error) {
	var cfg C.int
	if err := fromUSBError(C.libusb_get_configuration((*C.libusb_device_handle)(h), &cfg)); err != nil {
		return 0, err
	}
	return uint8(cfg), nil
}

func (libusbImpl) getStringDesc(h *libusbDevHandle, index int) (string, error) {
	// string descriptors are limited to 255 bytes of UTF-16, the ASCII
	// conversion always fits in 200 bytes.
	buf := make([]byte, 200)
	n := C.libusb_get_string_descriptor_ascii(
		(*C.libusb_device_handle)(h), C.uint8_t(index),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
	if n < 0 {
		return "", fromUSBError(C.int(n))
	}
	return string(buf[:n]), nil
}

func (libusbImpl) reset(h *libusbDevHandle) error {
	return fromUSBError(C.libusb_reset_device((*C.libusb_device_handle)(h)))
}

func (libusbImpl) setAutoDetach(h *libusbDevHandle, val int) error {
	err := fromUSBError(C.libusb_set_auto_detach_kernel_driver((*C.libusb_device_handle)(h), C.int(val)))
	if err != nil && err != ErrorNotSupported {
		// ErrorNotSupported is returned on platforms without support for
		// automatic kernel driver detachment, leave those alone.
		return err
	}
	return nil
}

// libusb is an injection point for tests.
var libusb libusbIntf = libusbImpl{}
