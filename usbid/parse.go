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

// Package usbid provides human-readable names for the numeric identifiers
// of the usb package: vendor and product IDs as well as class, subclass
// and protocol codes, backed by the usb.ids database.
package usbid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yawara/usb"
)

// Vendor represents the name of a device vendor and the products the
// database knows for it.
type Vendor struct {
	Name    string
	Product map[usb.ID]*Product
}

// String returns the name of the vendor.
func (v Vendor) String() string {
	return v.Name
}

// Product represents the name of a product and the names of its known
// interfaces.
type Product struct {
	Name      string
	Interface map[usb.ID]string
}

// String returns the name of the product.
func (p Product) String() string {
	return p.Name
}

// Class represents the name of a device class and its known subclasses.
type Class struct {
	Name     string
	SubClass map[usb.Class]*SubClass
}

// String returns the name of the class.
func (c Class) String() string {
	return c.Name
}

// SubClass represents the name of a subclass and its known protocols.
type SubClass struct {
	Name     string
	Protocol map[usb.Protocol]string
}

// String returns the name of the subclass.
func (s SubClass) String() string {
	return s.Name
}

// ParseIDs parses vendor and class mappings in the usb.ids format from the
// given reader. In general this is not necessary, a snapshot of the
// database is already embedded in the package; parse a newly obtained file
// and store the results in Vendors and Classes when the embedded mappings
// are stale.
func ParseIDs(r io.Reader) (map[usb.ID]*Vendor, map[usb.Class]*Class, error) {
	vendors := make(map[usb.ID]*Vendor, 2800)
	classes := make(map[usb.Class]*Class)

	split := func(s string) (kind string, level int, id uint64, name string, err error) {
		pieces := strings.SplitN(s, "  ", 2)
		if len(pieces) != 2 {
			err = fmt.Errorf("malformatted line %q", s)
			return
		}
		name = pieces[1]

		// The nesting level is the number of leading tabs.
		for len(pieces[0]) > 0 && pieces[0][0] == '\t' {
			level, pieces[0] = level+1, pieces[0][1:]
		}

		// A top-level line may carry a section kind before the ID.
		first := strings.SplitN(pieces[0], " ", 2)
		if len(first) == 2 {
			kind, pieces[0] = first[0], first[1]
		}

		i, err := strconv.ParseUint(pieces[0], 16, 16)
		if err != nil {
			err = fmt.Errorf("malformatted id %q: %v", pieces[0], err)
			return
		}
		id = i
		return
	}

	// Parsing state, the vendor and product block being filled in.
	var vendor *Vendor
	var product *Product

	parseVendor := func(level int, raw uint64, name string) error {
		id := usb.ID(raw)
		switch level {
		case 0:
			vendor = &Vendor{Name: name}
			vendors[id] = vendor

		case 1:
			if vendor == nil {
				return fmt.Errorf("product line without a vendor line")
			}
			product = &Product{Name: name}
			if vendor.Product == nil {
				vendor.Product = make(map[usb.ID]*Product)
			}
			vendor.Product[id] = product

		case 2:
			if product == nil {
				return fmt.Errorf("interface line without a product line")
			}
			if product.Interface == nil {
				product.Interface = make(map[usb.ID]string)
			}
			product.Interface[id] = name

		default:
			return fmt.Errorf("too many levels of nesting in a vendor block")
		}
		return nil
	}

	// Parsing state, the class and subclass block being filled in.
	var class *Class
	var subclass *SubClass

	parseClass := func(level int, raw uint64, name string) error {
		switch level {
		case 0:
			class = &Class{Name: name}
			classes[usb.Class(raw)] = class

		case 1:
			if class == nil {
				return fmt.Errorf("subclass line without a class line")
			}
			subclass = &SubClass{Name: name}
			if class.SubClass == nil {
				class.SubClass = make(map[usb.Class]*SubClass)
			}
			class.SubClass[usb.Class(raw)] = subclass

		case 2:
			if subclass == nil {
				return fmt.Errorf("protocol line without a subclass line")
			}
			if subclass.Protocol == nil {
				subclass.Protocol = make(map[usb.Protocol]string)
			}
			subclass.Protocol[usb.Protocol(raw)] = name

		default:
			return fmt.Errorf("too many levels of nesting in a class block")
		}
		return nil
	}

	// kind tracks the section of the file; sections other than vendors
	// ("") and classes ("C") are skipped.
	var kind string

	lines := bufio.NewReaderSize(r, 512)
parseLines:
	for lineno := 0; ; lineno++ {
		b, isPrefix, err := lines.ReadLine()
		switch {
		case err == io.EOF:
			break parseLines
		case err != nil:
			return nil, nil, err
		case isPrefix:
			return nil, nil, fmt.Errorf("line %d: line too long", lineno)
		}
		line := string(b)

		if len(line) == 0 || line[0] == '#' {
			continue
		}

		k, level, id, name, err := split(line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %v", lineno, err)
		}
		if k != "" {
			kind = k
		}

		switch kind {
		case "":
			err = parseVendor(level, id, name)
		case "C":
			err = parseClass(level, id, name)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %v", lineno, err)
		}
	}

	return vendors, classes, nil
}
