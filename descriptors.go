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
	"fmt"
	"strings"
)

// Standard USB descriptor lengths.
const (
	deviceDescLen = 18
	configDescLen = 9
	intfDescLen   = 9
	epDescLen     = 7
)

// Configuration characteristics, bmAttributes of the config descriptor.
const (
	selfPoweredMask  = 0x40
	remoteWakeupMask = 0x20
)

// DeviceDesc holds the decoded device descriptor, the fixed-size record
// describing the device as a whole. All the data is copied out of the
// descriptor buffer, a DeviceDesc stays valid after its device is gone.
type DeviceDesc struct {
	// Spec is the USB specification release number that the device
	// complies with (e.g. 2.0 for a USB 2.0 device).
	Spec BCD
	// Device is the device release number, as set by the vendor.
	Device BCD
	// Vendor is the USB-IF assigned vendor ID.
	Vendor ID
	// Product is the vendor-assigned product ID.
	Product ID
	// Class is the class of this device.
	Class Class
	// SubClass is the sub-class (within the class) of this device.
	SubClass Class
	// Protocol is the protocol (within the sub-class) of this device.
	Protocol Protocol
	// MaxControlPacketSize is the maximum size of the control transfer
	// packet for endpoint zero.
	MaxControlPacketSize int
	// NumConfigs is the number of configurations the device advertises.
	// Their descriptors are fetched with Device.ConfigDescriptor, using
	// indices 0 through NumConfigs-1.
	NumConfigs int

	// String descriptor indices, readable through an open DeviceHandle.
	iManufacturer int
	iProduct      int
	iSerialNumber int
}

// String returns a human-readable version of the device descriptor.
func (d *DeviceDesc) String() string {
	return fmt.Sprintf("%s:%s", d.Vendor, d.Product)
}

// ConfigDesc holds the decoded descriptor tree of a single device
// configuration: the configuration-level attributes and the wire-ordered
// list of its interface descriptors.
type ConfigDesc struct {
	// Number is the configuration value, i.e. the number a host passes to
	// the device to activate this configuration.
	Number int
	// SelfPowered is true if the device is powered externally, i.e. not
	// drawing power from the bus.
	SelfPowered bool
	// RemoteWakeup is true if the device supports remote wakeup.
	RemoteWakeup bool
	// MaxPower is the maximum current the device draws from the bus in
	// this configuration.
	MaxPower Milliamperes
	// Interfaces is the list of interface descriptors, in the order they
	// appear in the configuration, one entry per alternate setting.
	Interfaces []InterfaceDesc
	// Extra contains the class- or vendor-specific descriptor blocks that
	// follow the configuration header.
	Extra []byte

	iConfiguration int
}

// String returns the human-readable description of the configuration.
func (c ConfigDesc) String() string {
	return fmt.Sprintf("config %d", c.Number)
}

// InterfaceDesc holds the decoded descriptor of a single interface
// alternate setting.
type InterfaceDesc struct {
	// Number is the interface number.
	Number int
	// Alternate is the alternate setting number of this descriptor.
	Alternate int
	// Class is the USB-IF class code, as defined by the USB spec.
	Class Class
	// SubClass is the USB-IF subclass code, as defined by the USB spec.
	SubClass Class
	// Protocol is the USB-IF protocol code, as defined by the USB spec.
	Protocol Protocol
	// Endpoints has the descriptors of the endpoints of this interface.
	Endpoints []EndpointDesc
	// Extra contains the class- or vendor-specific descriptor blocks that
	// follow the interface descriptor.
	Extra []byte

	iInterface int
}

// String returns the human-readable description of the interface and its
// alternate setting.
func (i InterfaceDesc) String() string {
	return fmt.Sprintf("interface %d alt %d", i.Number, i.Alternate)
}

// EndpointDesc holds the decoded descriptor of a single endpoint.
type EndpointDesc struct {
	// Address is the endpoint address, combining the endpoint number and
	// the direction bit.
	Address EndpointAddress
	// Number is the endpoint number, extracted from the address. Note
	// that the number alone does not identify an endpoint within an
	// interface, address 0x82 and 0x02 are different endpoints with the
	// same number 2.
	Number int
	// Direction defines whether the data flows IN (device to host) or
	// OUT (host to device).
	Direction EndpointDirection
	// TransferType is the endpoint transfer type.
	TransferType TransferType
	// MaxPacketSize is the raw maximum packet size field. For isochronous
	// endpoints on high-speed devices, bits 11..12 carry the number of
	// additional transactions per microframe.
	MaxPacketSize int
	// PollInterval is the raw polling interval field of interrupt and
	// isochronous endpoints. Its unit depends on the device speed (frames
	// or microframes) and, for isochronous endpoints, it is the exponent
	// of a power of two.
	PollInterval uint8
	// IsoSyncType is the synchronization type of an isochronous endpoint.
	IsoSyncType IsoSyncType
	// UsageType is the usage type of an isochronous or interrupt endpoint.
	UsageType UsageType
	// Extra contains the class- or vendor-specific descriptor blocks that
	// follow the endpoint descriptor.
	Extra []byte
}

// String returns the human-readable description of the endpoint.
func (e EndpointDesc) String() string {
	ret := make([]string, 0, 3)
	ret = append(ret, fmt.Sprintf("ep #%d %s (address %s) %s", e.Number, e.Direction, e.Address, e.TransferType))
	switch e.TransferType {
	case TransferTypeIsochronous:
		ret = append(ret, fmt.Sprintf("- %s %s", e.IsoSyncType, e.UsageType))
	case TransferTypeInterrupt:
		ret = append(ret, fmt.Sprintf("- %s", e.UsageType))
	}
	ret = append(ret, fmt.Sprintf("[%d bytes]", e.MaxPacketSize))
	return strings.Join(ret, " ")
}

// usbDeviceDescriptor mirrors the wire layout of a device descriptor, for
// use with binary.Read. The trailing comments are byte offsets.
type usbDeviceDescriptor struct {
	BLength            uint8  // 0
	BDescriptorType    uint8  // 1
	BCDUSB             uint16 // 2:3
	BDeviceClass       uint8  // 4
	BDeviceSubClass    uint8  // 5
	BDeviceProtocol    uint8  // 6
	BMaxPacketSize0    uint8  // 7
	IDVendor           uint16 // 8:9
	IDProduct          uint16 // 10:11
	BCDDevice          uint16 // 12:13
	IManufacturer      uint8  // 14
	IProduct           uint8  // 15
	ISerialNumber      uint8  // 16
	BNumConfigurations uint8  // 17
}

// usbConfigDescriptor mirrors the wire layout of a configuration
// descriptor header.
type usbConfigDescriptor struct {
	BLength             uint8  // 0
	BDescriptorType     uint8  // 1
	WTotalLength        uint16 // 2:3
	BNumInterfaces      uint8  // 4
	BConfigurationValue uint8  // 5
	IConfiguration      uint8  // 6
	BMAttributes        uint8  // 7
	BMaxPower           uint8  // 8
}

// usbInterfaceDescriptor mirrors the wire layout of an interface
// descriptor.
type usbInterfaceDescriptor struct {
	BLength            uint8 // 0
	BDescriptorType    uint8 // 1
	BInterfaceNumber   uint8 // 2
	BAlternateSetting  uint8 // 3
	BNumEndpoints      uint8 // 4
	BInterfaceClass    uint8 // 5
	BInterfaceSubClass uint8 // 6
	BInterfaceProtocol uint8 // 7
	IInterface         uint8 // 8
}

// usbEndpointDescriptor mirrors the wire layout of an endpoint descriptor.
// Audio endpoints extend this layout by two bytes, the codec skips them.
type usbEndpointDescriptor struct {
	BLength          uint8  // 0
	BDescriptorType  uint8  // 1
	BEndpointAddress uint8  // 2
	BMAttributes     uint8  // 3
	WMaxPacketSize   uint16 // 4:5
	BInterval        uint8  // 6
}

// deviceDescFromBytes decodes a device descriptor from its wire form.
func deviceDescFromBytes(raw []byte) (*DeviceDesc, error) {
	if len(raw) < deviceDescLen {
		return nil, fmt.Errorf("device descriptor is %d bytes, need at least %d", len(raw), deviceDescLen)
	}
	var d usbDeviceDescriptor
	if err := binary.Read(bytes.NewReader(raw[:deviceDescLen]), binary.LittleEndian, &d); err != nil {
		return nil, fmt.Errorf("failed to decode the device descriptor: %v", err)
	}
	if d.BDescriptorType != uint8(DescriptorTypeDevice) {
		return nil, fmt.Errorf("device descriptor has type %s, want %s", DescriptorType(d.BDescriptorType), DescriptorTypeDevice)
	}
	return &DeviceDesc{
		Spec:                 BCD(d.BCDUSB),
		Device:               BCD(d.BCDDevice),
		Vendor:               ID(d.IDVendor),
		Product:              ID(d.IDProduct),
		Class:                Class(d.BDeviceClass),
		SubClass:             Class(d.BDeviceSubClass),
		Protocol:             Protocol(d.BDeviceProtocol),
		MaxControlPacketSize: int(d.BMaxPacketSize0),
		NumConfigs:           int(d.BNumConfigurations),
		iManufacturer:        int(d.IManufacturer),
		iProduct:             int(d.IProduct),
		iSerialNumber:        int(d.ISerialNumber),
	}, nil
}

// configDescFromBytes decodes a complete configuration descriptor tree
// from its wire form: the configuration header followed by interface and
// endpoint descriptor blocks in bus order. Unknown descriptor blocks are
// kept raw, attached to the descriptor they follow: the configuration
// until the first interface descriptor, after that the current interface
// or endpoint.
func configDescFromBytes(raw []byte) (*ConfigDesc, error) {
	if len(raw) < configDescLen {
		return nil, fmt.Errorf("configuration descriptor is %d bytes, need at least %d", len(raw), configDescLen)
	}
	var h usbConfigDescriptor
	if err := binary.Read(bytes.NewReader(raw[:configDescLen]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to decode the configuration descriptor header: %v", err)
	}
	if h.BDescriptorType != uint8(DescriptorTypeConfig) {
		return nil, fmt.Errorf("configuration descriptor has type %s, want %s", DescriptorType(h.BDescriptorType), DescriptorTypeConfig)
	}
	switch total := int(h.WTotalLength); {
	case total < configDescLen:
		return nil, fmt.Errorf("configuration descriptor declares a total length of %d bytes, need at least %d", total, configDescLen)
	case total > len(raw):
		return nil, fmt.Errorf("configuration descriptor declares a total length of %d bytes, only %d available", total, len(raw))
	default:
		raw = raw[:total]
	}
	cfg := &ConfigDesc{
		Number:         int(h.BConfigurationValue),
		SelfPowered:    h.BMAttributes&selfPoweredMask != 0,
		RemoteWakeup:   h.BMAttributes&remoteWakeupMask != 0,
		MaxPower:       2 * Milliamperes(h.BMaxPower),
		iConfiguration: int(h.IConfiguration),
	}

	for pos := configDescLen; pos < len(raw); {
		if pos+2 > len(raw) {
			return nil, fmt.Errorf("descriptor block at offset %d is truncated", pos)
		}
		blen := int(raw[pos])
		if blen < 2 || pos+blen > len(raw) {
			return nil, fmt.Errorf("descriptor block at offset %d declares %d bytes, only %d left", pos, blen, len(raw)-pos)
		}
		block := raw[pos : pos+blen]
		switch DescriptorType(block[1]) {
		case DescriptorTypeInterface:
			i, err := interfaceDescFromBytes(block)
			if err != nil {
				return nil, fmt.Errorf("interface descriptor at offset %d: %v", pos, err)
			}
			cfg.Interfaces = append(cfg.Interfaces, *i)
		case DescriptorTypeEndpoint:
			if len(cfg.Interfaces) == 0 {
				return nil, fmt.Errorf("endpoint descriptor at offset %d appears before any interface descriptor", pos)
			}
			e, err := endpointDescFromBytes(block)
			if err != nil {
				return nil, fmt.Errorf("endpoint descriptor at offset %d: %v", pos, err)
			}
			intf := &cfg.Interfaces[len(cfg.Interfaces)-1]
			intf.Endpoints = append(intf.Endpoints, *e)
		default:
			if n := len(cfg.Interfaces); n == 0 {
				cfg.Extra = append(cfg.Extra, block...)
			} else if intf := &cfg.Interfaces[n-1]; len(intf.Endpoints) == 0 {
				intf.Extra = append(intf.Extra, block...)
			} else {
				ep := &intf.Endpoints[len(intf.Endpoints)-1]
				ep.Extra = append(ep.Extra, block...)
			}
		}
		pos += blen
	}
	return cfg, nil
}

func interfaceDescFromBytes(block []byte) (*InterfaceDesc, error) {
	if len(block) < intfDescLen {
		return nil, fmt.Errorf("descriptor is %d bytes, need at least %d", len(block), intfDescLen)
	}
	var d usbInterfaceDescriptor
	if err := binary.Read(bytes.NewReader(block[:intfDescLen]), binary.LittleEndian, &d); err != nil {
		return nil, fmt.Errorf("failed to decode: %v", err)
	}
	return &InterfaceDesc{
		Number:     int(d.BInterfaceNumber),
		Alternate:  int(d.BAlternateSetting),
		Class:      Class(d.BInterfaceClass),
		SubClass:   Class(d.BInterfaceSubClass),
		Protocol:   Protocol(d.BInterfaceProtocol),
		iInterface: int(d.IInterface),
	}, nil
}

func endpointDescFromBytes(block []byte) (*EndpointDesc, error) {
	if len(block) < epDescLen {
		return nil, fmt.Errorf("descriptor is %d bytes, need at least %d", len(block), epDescLen)
	}
	var d usbEndpointDescriptor
	if err := binary.Read(bytes.NewReader(block[:epDescLen]), binary.LittleEndian, &d); err != nil {
		return nil, fmt.Errorf("failed to decode: %v", err)
	}
	ep := &EndpointDesc{
		Address:       EndpointAddress(d.BEndpointAddress),
		Number:        int(d.BEndpointAddress & endpointNumMask),
		Direction:     EndpointDirection(d.BEndpointAddress&endpointDirectionMask != 0),
		TransferType:  TransferType(d.BMAttributes & transferTypeMask),
		MaxPacketSize: int(d.WMaxPacketSize),
		PollInterval:  d.BInterval,
	}
	usage := (d.BMAttributes & usageTypeMask) >> 4
	switch ep.TransferType {
	case TransferTypeIsochronous:
		ep.IsoSyncType = IsoSyncType(d.BMAttributes & isoSyncTypeMask)
		switch usage {
		case 0:
			ep.UsageType = IsoUsageTypeData
		case 1:
			ep.UsageType = IsoUsageTypeFeedback
		case 2:
			ep.UsageType = IsoUsageTypeImplicit
		}
	case TransferTypeInterrupt:
		switch usage {
		case 0:
			ep.UsageType = InterruptUsageTypePeriodic
		case 1:
			ep.UsageType = InterruptUsageTypeNotification
		}
	}
	return ep, nil
}
