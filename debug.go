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

// To enable internal debugging without a Context:
//   -ldflags "-X github.com/yawara/usb.debugInternal=true"

import (
	"io"
	"log"
	"os"
	"strconv"
)

// debug is the internal logger of the package. It discards everything
// until debugging is enabled through Context.Debug or the debugInternal
// link-time flag.
var debug = log.New(io.Discard, "usb ", log.LstdFlags|log.Lshortfile)

var debugInternal string

func init() {
	if t, _ := strconv.ParseBool(debugInternal); t {
		debug.SetOutput(os.Stderr)
	}
}

func setDebugLevel(level int) {
	if level > 0 {
		debug.SetOutput(os.Stderr)
	} else {
		debug.SetOutput(io.Discard)
	}
}
