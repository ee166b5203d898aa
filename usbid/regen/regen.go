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

// Command regen refreshes the usb.ids snapshot embedded in the usbid
// package. Run it from the usbid directory:
//
//	go run regen/regen.go
package main

import (
	"bytes"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"text/template"
	"time"

	"github.com/yawara/usb/usbid"
)

var (
	remote   = flag.String("url", usbid.LinuxUsbDotOrg, "URL from which to download new vendor data")
	dataFile = flag.String("template", "regen/load_data.go.tpl", "Template filename")
	outFile  = flag.String("o", "load_data.go", "Output filename")
)

func main() {
	flag.Parse()

	log.Printf("Fetching %q...", *remote)
	resp, err := http.Get(*remote)
	if err != nil {
		log.Fatalf("failed to download from %q: %v", *remote, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("failed to read %q: %v", *remote, err)
	}

	ids, cls, err := usbid.ParseIDs(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("failed to parse %q: %v", *remote, err)
	}

	log.Printf("Successfully fetched %q:", *remote)
	log.Printf("  Loaded %d Vendor IDs", len(ids))
	log.Printf("  Loaded %d Class IDs", len(cls))

	rawTemplate, err := os.ReadFile(*dataFile)
	if err != nil {
		log.Fatalf("failed to read template %q: %v", *dataFile, err)
	}

	tpl, err := template.New("load_data").Parse(string(rawTemplate))
	if err != nil {
		log.Fatalf("failed to parse template %q: %v", *dataFile, err)
	}

	out, err := os.Create(*outFile)
	if err != nil {
		log.Fatalf("failed to open output file %q: %v", *outFile, err)
	}
	defer out.Close()

	templateData := struct {
		Data      []byte
		Generated time.Time
	}{
		Data:      bytes.Map(sanitize, data),
		Generated: time.Now(),
	}
	if err := tpl.Execute(out, templateData); err != nil {
		log.Fatalf("failed to execute template: %v", err)
	}

	log.Printf("Successfully wrote %q", *outFile)
}

// sanitize strips characters that can't be `-quoted.
func sanitize(r rune) rune {
	switch {
	case r == '`':
		return -1
	case r == '\t', r == '\n':
		return r
	case r >= ' ' && r <= '~':
		return r
	}
	return -1
}
