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
	"strconv"
)

// #include <libusb.h>
import "C"

// Class represents a USB-IF (Implementers Forum) class or subclass code.
type Class uint8

// Standard classes defined by USB spec.
const (
	ClassPerInterface       Class = C.LIBUSB_CLASS_PER_INTERFACE
	ClassAudio              Class = C.LIBUSB_CLASS_AUDIO
	ClassComm               Class = C.LIBUSB_CLASS_COMM
	ClassHID                Class = C.LIBUSB_CLASS_HID
	ClassPhysical           Class = C.LIBUSB_CLASS_PHYSICAL
	ClassPrinter            Class = C.LIBUSB_CLASS_PRINTER
	ClassPTP                Class = C.LIBUSB_CLASS_PTP
	ClassMassStorage        Class = C.LIBUSB_CLASS_MASS_STORAGE
	ClassHub                Class = C.LIBUSB_CLASS_HUB
	ClassData               Class = C.LIBUSB_CLASS_DATA
	ClassSmartCard          Class = C.LIBUSB_CLASS_SMART_CARD
	ClassContentSecurity    Class = C.LIBUSB_CLASS_CONTENT_SECURITY
	ClassVideo              Class = C.LIBUSB_CLASS_VIDEO
	ClassPersonalHealthcare Class = C.LIBUSB_CLASS_PERSONAL_HEALTHCARE
	ClassDiagnosticDevice   Class = C.LIBUSB_CLASS_DIAGNOSTIC_DEVICE
	ClassWireless           Class = C.LIBUSB_CLASS_WIRELESS
	ClassMiscellaneous      Class = C.LIBUSB_CLASS_MISCELLANEOUS
	ClassApplication        Class = C.LIBUSB_CLASS_APPLICATION
	ClassVendorSpec         Class = C.LIBUSB_CLASS_VENDOR_SPEC
)

var classDescription = map[Class]string{
	ClassPerInterface:       "per-interface",
	ClassAudio:              "audio",
	ClassComm:               "communications",
	ClassHID:                "human interface device",
	ClassPhysical:           "physical",
	ClassPrinter:            "printer",
	ClassPTP:                "image",
	ClassMassStorage:        "mass storage",
	ClassHub:                "hub",
	ClassData:               "data",
	ClassSmartCard:          "smart card",
	ClassContentSecurity:    "content security",
	ClassVideo:              "video",
	ClassPersonalHealthcare: "personal healthcare",
	ClassDiagnosticDevice:   "diagnostic device",
	ClassWireless:           "wireless",
	ClassMiscellaneous:      "miscellaneous",
	ClassApplication:        "application-specific",
	ClassVendorSpec:         "vendor-specific",
}

// String returns a human-readable name of the device class.
func (c Class) String() string {
	if d, ok := classDescription[c]; ok {
		return d
	}
	return strconv.Itoa(int(c))
}

// Protocol is the interface class protocol, qualified by the values
// of interface class and subclass.
type Protocol uint8

// String returns a human-readable representation of the protocol.
func (p Protocol) String() string {
	return strconv.Itoa(int(p))
}

// DescriptorType identifies the type of a USB descriptor.
type DescriptorType uint8

// Descriptor types defined by the USB spec.
const (
	DescriptorTypeDevice    DescriptorType = C.LIBUSB_DT_DEVICE
	DescriptorTypeConfig    DescriptorType = C.LIBUSB_DT_CONFIG
	DescriptorTypeString    DescriptorType = C.LIBUSB_DT_STRING
	DescriptorTypeInterface DescriptorType = C.LIBUSB_DT_INTERFACE
	DescriptorTypeEndpoint  DescriptorType = C.LIBUSB_DT_ENDPOINT
	DescriptorTypeHID       DescriptorType = C.LIBUSB_DT_HID
	DescriptorTypeReport    DescriptorType = C.LIBUSB_DT_REPORT
	DescriptorTypePhysical  DescriptorType = C.LIBUSB_DT_PHYSICAL
	DescriptorTypeHub       DescriptorType = C.LIBUSB_DT_HUB
)

var descriptorTypeDescription = map[DescriptorType]string{
	DescriptorTypeDevice:    "device",
	DescriptorTypeConfig:    "configuration",
	DescriptorTypeString:    "string",
	DescriptorTypeInterface: "interface",
	DescriptorTypeEndpoint:  "endpoint",
	DescriptorTypeHID:       "HID",
	DescriptorTypeReport:    "HID report",
	DescriptorTypePhysical:  "physical",
	DescriptorTypeHub:       "hub",
}

// String returns a human-readable name of the descriptor type.
func (dt DescriptorType) String() string {
	if d, ok := descriptorTypeDescription[dt]; ok {
		return d
	}
	return fmt.Sprintf("0x%02x", uint8(dt))
}

// EndpointDirection defines the direction of data flow - IN (device to host)
// or OUT (host to device).
type EndpointDirection bool

const (
	endpointNumMask       = 0x0f
	endpointDirectionMask = 0x80
	// EndpointDirectionIn marks data flowing from device to host.
	EndpointDirectionIn EndpointDirection = true
	// EndpointDirectionOut marks data flowing from host to device.
	EndpointDirectionOut EndpointDirection = false
)

var endpointDirectionDescription = map[EndpointDirection]string{
	EndpointDirectionIn:  "IN",
	EndpointDirectionOut: "OUT",
}

// String returns a human-readable name of the endpoint direction.
func (ed EndpointDirection) String() string {
	return endpointDirectionDescription[ed]
}

// EndpointAddress is a unique identifier for the endpoint, combining the
// endpoint number and direction.
type EndpointAddress uint8

// String implements the Stringer interface.
func (a EndpointAddress) String() string {
	return fmt.Sprintf("0x%02x", uint8(a))
}

// TransferType defines the endpoint transfer type.
type TransferType uint8

// Transfer types defined by the USB spec.
const (
	TransferTypeControl     TransferType = C.LIBUSB_TRANSFER_TYPE_CONTROL
	TransferTypeIsochronous TransferType = C.LIBUSB_TRANSFER_TYPE_ISOCHRONOUS
	TransferTypeBulk        TransferType = C.LIBUSB_TRANSFER_TYPE_BULK
	TransferTypeInterrupt   TransferType = C.LIBUSB_TRANSFER_TYPE_INTERRUPT
	transferTypeMask                     = 0x03
)

var transferTypeDescription = map[TransferType]string{
	TransferTypeControl:     "control",
	TransferTypeIsochronous: "isochronous",
	TransferTypeBulk:        "bulk",
	TransferTypeInterrupt:   "interrupt",
}

// String returns a human-readable name of the endpoint transfer type.
func (tt TransferType) String() string {
	return transferTypeDescription[tt]
}

// IsoSyncType defines the isochronous transfer synchronization type.
// The constants are laid out in their bmAttributes bit positions, so a
// decoded value can be written back to the wire unchanged.
type IsoSyncType uint8

// Synchronization types defined by the USB spec.
const (
	IsoSyncTypeNone     IsoSyncType = C.LIBUSB_ISO_SYNC_TYPE_NONE << 2
	IsoSyncTypeAsync    IsoSyncType = C.LIBUSB_ISO_SYNC_TYPE_ASYNC << 2
	IsoSyncTypeAdaptive IsoSyncType = C.LIBUSB_ISO_SYNC_TYPE_ADAPTIVE << 2
	IsoSyncTypeSync     IsoSyncType = C.LIBUSB_ISO_SYNC_TYPE_SYNC << 2
	isoSyncTypeMask                 = 0x0c
)

var isoSyncTypeDescription = map[IsoSyncType]string{
	IsoSyncTypeNone:     "unsynchronized",
	IsoSyncTypeAsync:    "asynchronous",
	IsoSyncTypeAdaptive: "adaptive",
	IsoSyncTypeSync:     "synchronous",
}

// String returns a human-readable name of the synchronization type.
func (ist IsoSyncType) String() string {
	return isoSyncTypeDescription[ist]
}

// UsageType defines the transfer usage type for isochronous and interrupt
// endpoints. USB 3.0 defines usage types for both isochronous and interrupt
// endpoints, with the same bmAttributes bits carrying different meanings
// depending on the transfer type.
type UsageType uint8

// Usage types for iso and interrupt endpoints, defined by the USB spec.
// Note: UsageType constants do not correspond to bmAttributes bit values,
// the codec translates between the two.
const (
	// UsageTypeUndefined is the usage type of endpoints whose transfer
	// type defines no usage bits.
	UsageTypeUndefined UsageType = iota
	// IsoUsageTypeData is a usage type for a data endpoint.
	IsoUsageTypeData
	// IsoUsageTypeFeedback is a usage type for a feedback endpoint.
	IsoUsageTypeFeedback
	// IsoUsageTypeImplicit is a usage type for an implicit feedback data endpoint.
	IsoUsageTypeImplicit
	// InterruptUsageTypePeriodic is a usage type for a periodic interrupt endpoint.
	InterruptUsageTypePeriodic
	// InterruptUsageTypeNotification is a usage type for a notification interrupt endpoint.
	InterruptUsageTypeNotification
	usageTypeMask = 0x30
)

var usageTypeDescription = map[UsageType]string{
	UsageTypeUndefined:             "undefined usage",
	IsoUsageTypeData:               "data",
	IsoUsageTypeFeedback:           "feedback",
	IsoUsageTypeImplicit:           "implicit data",
	InterruptUsageTypePeriodic:     "periodic",
	InterruptUsageTypeNotification: "notification",
}

// String returns a human-readable name of the usage type.
func (ut UsageType) String() string {
	return usageTypeDescription[ut]
}

// Speed identifies the negotiated operating speed of a device.
type Speed int

// Device speeds as defined in the USB spec.
const (
	SpeedUnknown   Speed = C.LIBUSB_SPEED_UNKNOWN
	SpeedLow       Speed = C.LIBUSB_SPEED_LOW
	SpeedFull      Speed = C.LIBUSB_SPEED_FULL
	SpeedHigh      Speed = C.LIBUSB_SPEED_HIGH
	SpeedSuper     Speed = C.LIBUSB_SPEED_SUPER
	SpeedSuperPlus Speed = C.LIBUSB_SPEED_SUPER_PLUS
)

var deviceSpeedDescription = map[Speed]string{
	SpeedUnknown:   "unknown",
	SpeedLow:       "low",
	SpeedFull:      "full",
	SpeedHigh:      "high",
	SpeedSuper:     "super",
	SpeedSuperPlus: "super+",
}

// String returns a human-readable name of the device speed.
func (s Speed) String() string {
	return deviceSpeedDescription[s]
}

// speedFromCode converts a raw speed code reported by the host stack into a
// Speed. Codes this library does not know about map to SpeedUnknown.
func speedFromCode(code int) Speed {
	s := Speed(code)
	if _, ok := deviceSpeedDescription[s]; !ok {
		return SpeedUnknown
	}
	return s
}
