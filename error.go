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

import "errors"

// #include <libusb.h>
import "C"

// Error is an error code reported by the host USB stack. Errors returned
// from queries against a device wrap one of these codes; use errors.Is to
// pick out the interesting classes: ErrorNotFound for a missing descriptor
// or configuration, ErrorAccess for insufficient permissions and
// ErrorNoDevice for a device that disappeared since it was enumerated.
// All other codes indicate a generic host stack failure.
type Error C.int

// Error implements the error interface.
func (e Error) Error() string {
	return "libusb: " + errorString[e]
}

// Error codes defined by libusb.
const (
	Success           Error = C.LIBUSB_SUCCESS
	ErrorIO           Error = C.LIBUSB_ERROR_IO
	ErrorInvalidParam Error = C.LIBUSB_ERROR_INVALID_PARAM
	ErrorAccess       Error = C.LIBUSB_ERROR_ACCESS
	ErrorNoDevice     Error = C.LIBUSB_ERROR_NO_DEVICE
	ErrorNotFound     Error = C.LIBUSB_ERROR_NOT_FOUND
	ErrorBusy         Error = C.LIBUSB_ERROR_BUSY
	ErrorTimeout      Error = C.LIBUSB_ERROR_TIMEOUT
	ErrorOverflow     Error = C.LIBUSB_ERROR_OVERFLOW
	ErrorPipe         Error = C.LIBUSB_ERROR_PIPE
	ErrorInterrupted  Error = C.LIBUSB_ERROR_INTERRUPTED
	ErrorNoMem        Error = C.LIBUSB_ERROR_NO_MEM
	ErrorNotSupported Error = C.LIBUSB_ERROR_NOT_SUPPORTED
	ErrorOther        Error = C.LIBUSB_ERROR_OTHER
)

var errorString = map[Error]string{
	Success:           "success",
	ErrorIO:           "i/o error",
	ErrorInvalidParam: "invalid param",
	ErrorAccess:       "bad access",
	ErrorNoDevice:     "no device",
	ErrorNotFound:     "not found",
	ErrorBusy:         "device or resource busy",
	ErrorTimeout:      "timeout",
	ErrorOverflow:     "overflow",
	ErrorPipe:         "pipe error",
	ErrorInterrupted:  "interrupted",
	ErrorNoMem:        "out of memory",
	ErrorNotSupported: "not supported",
	ErrorOther:        "unknown error",
}

// fromUSBError converts a raw return code from a host stack call into an
// error, or nil for codes that indicate success.
func fromUSBError(errno C.int) error {
	if errno >= 0 {
		return nil
	}
	return Error(errno)
}

// Errors returned on operations against released resources. They are
// always wrapped with the details of the failed call; match with errors.Is.
var (
	// ErrDeviceClosed is returned when a device reference is used after
	// its Close.
	ErrDeviceClosed = errors.New("usb: device reference is closed")
	// ErrHandleClosed is returned when a device handle is used after its
	// Close.
	ErrHandleClosed = errors.New("usb: device handle is closed")
	// ErrContextClosed is returned when a context is used after its Close.
	ErrContextClosed = errors.New("usb: context is closed")
)
