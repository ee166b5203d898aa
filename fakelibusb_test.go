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
	"sync/atomic"
	"unsafe"
)

// libusb does not export a way to allocate a new libusb_device struct
// without using the full USB stack. Since the fake library uses the
// libusb* types only as identifiers, use arbitrary unique pointers.
// The contents of these pointers is never accessed.
var fakePtr uintptr

func newContextPointer() *libusbContext {
	return (*libusbContext)(unsafe.Pointer(atomic.AddUintptr(&fakePtr, 1)))
}

func newDevicePointer() *libusbDevice {
	return (*libusbDevice)(unsafe.Pointer(atomic.AddUintptr(&fakePtr, 1)))
}

func newDevHandlePointer() *libusbDevHandle {
	return (*libusbDevHandle)(unsafe.Pointer(atomic.AddUintptr(&fakePtr, 1)))
}

// fakeDevice is a single simulated USB device: its descriptors, its place
// in the bus topology and its dynamic state.
type fakeDevice struct {
	devDesc *DeviceDesc
	configs []ConfigDesc
	// active is the configuration value of the active configuration,
	// 0 for an unconfigured device.
	active  int
	strDesc map[int]string

	bus     uint8
	address uint8
	// ports is the chain of hub port numbers leading to the device, the
	// last entry is the device's own port. The chain may be longer than
	// the cap of the host stack to exercise truncation.
	ports []uint8
	// parent is the index in fakeDevices of the hub the device is
	// connected to, -1 for a device on a root hub.
	parent int
	// speed is the raw speed code reported for the device.
	speed int

	// openErr, if set, fails every open of the device.
	openErr error
	// devDescErr, if set, fails every device descriptor read.
	devDescErr error
	// disconnected simulates a device unplugged after enumeration:
	// existing references stay usable, opening fails.
	disconnected bool
}

var fakeDevices = []fakeDevice{
	// Bus 001 Device 005: ID 9999:0001
	// A self-made USB device with a single config and a pair of bulk
	// endpoints.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(1, 0),
			Vendor:               ID(0x9999),
			Product:              ID(0x0001),
			Protocol:             255,
			MaxControlPacketSize: 64,
			NumConfigs:           1,
		},
		configs: []ConfigDesc{{
			Number:   1,
			MaxPower: Milliamperes(100),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassVendorSpec,
				Endpoints: []EndpointDesc{
					{Address: 0x01, Number: 1, Direction: EndpointDirectionOut, TransferType: TransferTypeBulk, MaxPacketSize: 512},
					{Address: 0x82, Number: 2, Direction: EndpointDirectionIn, TransferType: TransferTypeBulk, MaxPacketSize: 512},
				},
			}},
		}},
		active: 1,
		bus:    1, address: 5, ports: []uint8{1}, parent: -1,
		speed: int(SpeedHigh),
	},
	// Bus 001 Device 006: ID 8888:0002
	// A multi-function device with two interfaces, the second one with
	// alternate settings carrying isochronous endpoints.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(1, 3),
			Vendor:               ID(0x8888),
			Product:              ID(0x0002),
			MaxControlPacketSize: 64,
			NumConfigs:           1,
			iManufacturer:        1,
			iProduct:             2,
			iSerialNumber:        3,
		},
		configs: []ConfigDesc{{
			Number:         1,
			SelfPowered:    true,
			RemoteWakeup:   true,
			MaxPower:       Milliamperes(100),
			iConfiguration: 4,
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassVendorSpec,
				Endpoints: []EndpointDesc{
					{Address: 0x02, Number: 2, Direction: EndpointDirectionOut, TransferType: TransferTypeBulk, MaxPacketSize: 512},
					{Address: 0x86, Number: 6, Direction: EndpointDirectionIn, TransferType: TransferTypeBulk, MaxPacketSize: 512},
				},
			}, {
				// alt 0 is quiet, the iso endpoints come alive in the
				// higher alternate settings.
				Number: 1,
				Class:  ClassVendorSpec,
			}, {
				Number:    1,
				Alternate: 1,
				Class:     ClassVendorSpec,
				Endpoints: []EndpointDesc{
					{Address: 0x05, Number: 5, Direction: EndpointDirectionOut, TransferType: TransferTypeIsochronous, MaxPacketSize: 1024, PollInterval: 1, IsoSyncType: IsoSyncTypeNone, UsageType: IsoUsageTypeData},
					{Address: 0x85, Number: 5, Direction: EndpointDirectionIn, TransferType: TransferTypeIsochronous, MaxPacketSize: 1024, PollInterval: 4, IsoSyncType: IsoSyncTypeAdaptive, UsageType: IsoUsageTypeFeedback},
				},
			}, {
				Number:    1,
				Alternate: 2,
				Class:     ClassVendorSpec,
				Endpoints: []EndpointDesc{
					// wMaxPacketSize with two additional transactions
					// per microframe, 3x1024 bytes.
					{Address: 0x05, Number: 5, Direction: EndpointDirectionOut, TransferType: TransferTypeIsochronous, MaxPacketSize: 0x1400, PollInterval: 1, IsoSyncType: IsoSyncTypeAsync, UsageType: IsoUsageTypeData},
				},
			}},
		}},
		strDesc: map[int]string{
			1: "ACME Industries",
			2: "Fidgety Gadget",
			3: "01234567",
			4: "Weird configuration",
		},
		active: 1,
		bus:    1, address: 6, ports: []uint8{2}, parent: -1,
		speed: int(SpeedHigh),
	},
	// Bus 001 Device 002: ID 0707:0001
	// An external hub on a root port.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(1, 0),
			Vendor:               ID(0x0707),
			Product:              ID(0x0001),
			Class:                ClassHub,
			MaxControlPacketSize: 64,
			NumConfigs:           1,
		},
		configs: []ConfigDesc{{
			Number:      1,
			SelfPowered: true,
			MaxPower:    Milliamperes(2),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassHub,
				Endpoints: []EndpointDesc{
					{Address: 0x81, Number: 1, Direction: EndpointDirectionIn, TransferType: TransferTypeInterrupt, MaxPacketSize: 1, PollInterval: 0xff, UsageType: InterruptUsageTypePeriodic},
				},
			}},
		}},
		active: 1,
		bus:    1, address: 2, ports: []uint8{3}, parent: -1,
		speed: int(SpeedHigh),
	},
	// Bus 001 Device 007: ID 1234:5678
	// A device behind the external hub, with two configurations.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(3, 0),
			Device:               Version(2, 1),
			Vendor:               ID(0x1234),
			Product:              ID(0x5678),
			MaxControlPacketSize: 9,
			NumConfigs:           2,
			iManufacturer:        1,
			iProduct:             2,
			iSerialNumber:        3,
		},
		configs: []ConfigDesc{{
			Number:      1,
			SelfPowered: true,
			MaxPower:    Milliamperes(224),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassVendorSpec,
				Endpoints: []EndpointDesc{
					{Address: 0x01, Number: 1, Direction: EndpointDirectionOut, TransferType: TransferTypeBulk, MaxPacketSize: 1024},
					{Address: 0x81, Number: 1, Direction: EndpointDirectionIn, TransferType: TransferTypeBulk, MaxPacketSize: 1024},
					{Address: 0x82, Number: 2, Direction: EndpointDirectionIn, TransferType: TransferTypeInterrupt, MaxPacketSize: 64, PollInterval: 8, UsageType: InterruptUsageTypeNotification},
				},
			}},
		}, {
			Number:   2,
			MaxPower: Milliamperes(96),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassVendorSpec,
				Endpoints: []EndpointDesc{
					{Address: 0x01, Number: 1, Direction: EndpointDirectionOut, TransferType: TransferTypeBulk, MaxPacketSize: 512},
				},
			}},
		}},
		strDesc: map[int]string{
			1: "Yawara Devices",
			2: "Port Scope",
			3: "PS-00871",
		},
		active: 1,
		bus:    1, address: 7, ports: []uint8{3, 2}, parent: 2,
		speed: int(SpeedSuper),
	},
	// Bus 001 Device 008: ID 0707:0002
	// A second-tier hub, plugged into the external hub.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(1, 1),
			Vendor:               ID(0x0707),
			Product:              ID(0x0002),
			Class:                ClassHub,
			MaxControlPacketSize: 64,
			NumConfigs:           1,
		},
		configs: []ConfigDesc{{
			Number:   1,
			MaxPower: Milliamperes(100),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassHub,
				Endpoints: []EndpointDesc{
					{Address: 0x81, Number: 1, Direction: EndpointDirectionIn, TransferType: TransferTypeInterrupt, MaxPacketSize: 1, PollInterval: 0xff, UsageType: InterruptUsageTypePeriodic},
				},
			}},
		}},
		active: 1,
		bus:    1, address: 8, ports: []uint8{3, 4}, parent: 2,
		speed: int(SpeedHigh),
	},
	// Bus 001 Device 009: ID 046d:0825
	// A webcam at the third tier, behind both hubs. The configuration
	// opens with an interface association descriptor kept as extra bytes.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(0, 12),
			Vendor:               ID(0x046d),
			Product:              ID(0x0825),
			Class:                ClassMiscellaneous,
			SubClass:             Class(2),
			Protocol:             Protocol(1),
			MaxControlPacketSize: 64,
			NumConfigs:           1,
			iSerialNumber:        1,
		},
		configs: []ConfigDesc{{
			Number:   1,
			MaxPower: Milliamperes(500),
			Extra:    []byte{0x08, 0x0b, 0x00, 0x02, 0x0e, 0x03, 0x00, 0x00},
			Interfaces: []InterfaceDesc{{
				Number:   0,
				Class:    ClassVideo,
				SubClass: Class(1),
				Endpoints: []EndpointDesc{
					{Address: 0x87, Number: 7, Direction: EndpointDirectionIn, TransferType: TransferTypeInterrupt, MaxPacketSize: 16, PollInterval: 32, UsageType: InterruptUsageTypePeriodic},
				},
			}, {
				Number:   1,
				Class:    ClassVideo,
				SubClass: Class(2),
			}, {
				Number:    1,
				Alternate: 1,
				Class:     ClassVideo,
				SubClass:  Class(2),
				Endpoints: []EndpointDesc{
					{Address: 0x85, Number: 5, Direction: EndpointDirectionIn, TransferType: TransferTypeIsochronous, MaxPacketSize: 192, PollInterval: 1, IsoSyncType: IsoSyncTypeAsync, UsageType: IsoUsageTypeData},
				},
			}},
		}},
		strDesc: map[int]string{1: "8D0A5C31"},
		active:  1,
		bus:     1, address: 9, ports: []uint8{3, 4, 1}, parent: 4,
		speed: int(SpeedHigh),
	},
	// Bus 003 Device 009: ID cafe:0003
	// A device reporting an unreasonably deep port chain and a speed code
	// from the future.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(2, 0),
			Device:               Version(0, 1),
			Vendor:               ID(0xcafe),
			Product:              ID(0x0003),
			MaxControlPacketSize: 8,
			NumConfigs:           1,
		},
		configs: []ConfigDesc{{
			Number:   1,
			MaxPower: Milliamperes(50),
			Interfaces: []InterfaceDesc{{
				Number: 0,
				Class:  ClassVendorSpec,
			}},
		}},
		active: 1,
		bus:    3, address: 9, ports: []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}, parent: -1,
		speed: 99,
	},
	// Bus 002 Device 004: ID dead:beef
	// An unconfigured device that the current user has no access to.
	{
		devDesc: &DeviceDesc{
			Spec:                 Version(1, 1),
			Device:               Version(1, 0),
			Vendor:               ID(0xdead),
			Product:              ID(0xbeef),
			MaxControlPacketSize: 8,
			NumConfigs:           1,
		},
		configs: []ConfigDesc{{
			Number:   1,
			MaxPower: Milliamperes(100),
			Interfaces: []InterfaceDesc{{
				Number: 0,
			}},
		}},
		active:  0,
		openErr: ErrorAccess,
		bus:     2, address: 4, ports: []uint8{4}, parent: -1,
		speed: int(SpeedLow),
	},
}

// fakeLibusb implements a fake libusb stack that pretends to have the
// fakeDevices connected to it. On top of serving their descriptors and
// topology, it accounts for every reference handed out and given back, so
// tests can verify the reference bookkeeping of the package.
type fakeLibusb struct {
	mu sync.Mutex
	// devices maps the minted device pointers to the simulated devices.
	devices map[*libusbDevice]*fakeDevice
	// pointers keeps the minted pointers in fakeDevices order, for the
	// parent lookups.
	pointers []*libusbDevice
	// refs counts the outstanding references per device, the reference
	// acquired by enumeration included.
	refs map[*libusbDevice]int
	// violations records reference accounting errors as they happen; a
	// dereference without a matching reference cannot be reported through
	// any return value.
	violations []string
	// handles maps open device handles to their devices.
	handles map[*libusbDevHandle]*libusbDevice
}

func newFakeLibusb() *fakeLibusb {
	fl := &fakeLibusb{
		devices: make(map[*libusbDevice]*fakeDevice),
		refs:    make(map[*libusbDevice]int),
		handles: make(map[*libusbDevHandle]*libusbDevice),
	}
	for _, d := range fakeDevices {
		fd := new(fakeDevice)
		*fd = d
		devPointer := newDevicePointer()
		fl.devices[devPointer] = fd
		fl.pointers = append(fl.pointers, devPointer)
	}
	return fl
}

func (f *fakeLibusb) init() (*libusbContext, error)                       { return newContextPointer(), nil }
func (f *fakeLibusb) handleEvents(c *libusbContext, done <-chan struct{}) { <-done }

func (f *fakeLibusb) getDevices(*libusbContext) ([]*libusbDevice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ret := make([]*libusbDevice, 0, len(f.pointers))
	for _, d := range f.pointers {
		if f.devices[d].disconnected {
			continue
		}
		// The list acquires a reference on every device it returns.
		f.refs[d]++
		ret = append(ret, d)
	}
	return ret, nil
}

func (f *fakeLibusb) setDebug(*libusbContext, int) {}

func (f *fakeLibusb) exit(*libusbContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if got := len(f.handles); got > 0 {
		return fmt.Errorf("fake libusb: exit() called with %d handles still open", got)
	}
	for d, n := range f.refs {
		if n != 0 {
			return fmt.Errorf("fake libusb: exit() called with %d outstanding references on device %s", n, f.devices[d].devDesc)
		}
	}
	return nil
}

func (f *fakeLibusb) reference(d *libusbDevice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[d]++
}

func (f *fakeLibusb) dereference(d *libusbDevice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs[d]--
	if f.refs[d] < 0 {
		f.violations = append(f.violations, fmt.Sprintf("device %s dereferenced more times than referenced", f.devices[d].devDesc))
	}
}

func (f *fakeLibusb) getDeviceDesc(d *libusbDevice) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dev, ok := f.devices[d]
	if !ok {
		return nil, ErrorNoDevice
	}
	if dev.devDescErr != nil {
		return nil, dev.devDescErr
	}
	return encodeDeviceDesc(dev.devDesc), nil
}

func (f *fakeLibusb) getConfigDesc(d *libusbDevice, index uint8) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dev, ok := f.devices[d]
	if !ok {
		return nil, ErrorNoDevice
	}
	if int(index) >= len(dev.configs) {
		return nil, ErrorNotFound
	}
	return encodeConfigDesc(&dev.configs[index]), nil
}

func (f *fakeLibusb) getActiveConfigDesc(d *libusbDevice) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dev, ok := f.devices[d]
	if !ok {
		return nil, ErrorNoDevice
	}
	if dev.active == 0 {
		return nil, ErrorNotFound
	}
	for i := range dev.configs {
		if dev.configs[i].Number == dev.active {
			return encodeConfigDesc(&dev.configs[i]), nil
		}
	}
	return nil, ErrorNotFound
}

func (f *fakeLibusb) getBusNumber(d *libusbDevice) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[d].bus
}

func (f *fakeLibusb) getAddress(d *libusbDevice) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[d].address
}

func (f *fakeLibusb) getPortNumber(d *libusbDevice) uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ports := f.devices[d].ports
	if len(ports) == 0 {
		return 0
	}
	return ports[len(ports)-1]
}

func (f *fakeLibusb) getPortNumbers(d *libusbDevice) []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ports := f.devices[d].ports
	if len(ports) > maxPortDepth {
		ports = ports[:maxPortDepth]
	}
	return append([]uint8(nil), ports...)
}

func (f *fakeLibusb) getSpeed(d *libusbDevice) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[d].speed
}

func (f *fakeLibusb) getParent(d *libusbDevice) *libusbDevice {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.devices[d].parent
	if p < 0 {
		return nil
	}
	// No reference is acquired for the caller, same as the host stack.
	return f.pointers[p]
}

func (f *fakeLibusb) open(d *libusbDevice) (*libusbDevHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dev, ok := f.devices[d]
	if !ok || dev.disconnected {
		return nil, ErrorNoDevice
	}
	if dev.openErr != nil {
		return nil, dev.openErr
	}
	h := newDevHandlePointer()
	f.handles[h] = d
	return h, nil
}

func (f *fakeLibusb) close(h *libusbDevHandle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handles, h)
}

func (f *fakeLibusb) getDevice(h *libusbDevHandle) *libusbDevice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handles[h]
}

func (f *fakeLibusb) getConfig(h *libusbDevHandle) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.handles[h]
	if !ok {
		return 0, ErrorNoDevice
	}
	return uint8(f.devices[d].active), nil
}

func (f *fakeLibusb) getStringDesc(h *libusbDevHandle, index int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.handles[h]
	if !ok {
		return "", ErrorNoDevice
	}
	str, ok := f.devices[d].strDesc[index]
	if !ok {
		return "", ErrorInvalidParam
	}
	return str, nil
}

func (f *fakeLibusb) reset(h *libusbDevHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.handles[h]; !ok {
		return ErrorNoDevice
	}
	return nil
}

func (f *fakeLibusb) setAutoDetach(*libusbDevHandle, int) error { return nil }

// lookup finds the minted pointer and the fake device with the given IDs.
func (f *fakeLibusb) lookup(vid, pid ID) (*libusbDevice, *fakeDevice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ptr, dev := range f.devices {
		if dev.devDesc.Vendor == vid && dev.devDesc.Product == pid {
			return ptr, dev
		}
	}
	panic(fmt.Sprintf("fake libusb has no device %04x:%04x", uint16(vid), uint16(pid)))
}

// refCount returns the outstanding references on the device with the
// given IDs.
func (f *fakeLibusb) refCount(vid, pid ID) int {
	ptr, _ := f.lookup(vid, pid)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refs[ptr]
}

// totalRefs returns the sum of outstanding references across all devices.
func (f *fakeLibusb) totalRefs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int
	for _, n := range f.refs {
		sum += n
	}
	return sum
}

// refViolations returns the reference accounting errors recorded so far.
func (f *fakeLibusb) refViolations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.violations...)
}

// openHandles returns the number of handles that are currently open.
func (f *fakeLibusb) openHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// disconnect simulates unplugging the device with the given IDs: existing
// references stay valid, opening fails from now on.
func (f *fakeLibusb) disconnect(vid, pid ID) {
	_, dev := f.lookup(vid, pid)
	f.mu.Lock()
	defer f.mu.Unlock()
	dev.disconnected = true
}

// failDeviceDesc makes device descriptor reads of the device with the
// given IDs fail with err.
func (f *fakeLibusb) failDeviceDesc(vid, pid ID, err error) {
	_, dev := f.lookup(vid, pid)
	f.mu.Lock()
	defer f.mu.Unlock()
	dev.devDescErr = err
}
