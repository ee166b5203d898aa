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

// Command lsusb lists the attached USB devices: their place in the bus
// topology, their descriptors and, in verbose mode, their identity
// strings and configuration trees.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yawara/usb"
	"github.com/yawara/usb/usbid"
)

func main() {
	app := &cli.App{
		Name:  "lsusb",
		Usage: "list attached USB devices",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "host stack debug `level` (0..3)",
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage:   "only list devices with the given `vid[:pid]`",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "also print identity strings and configuration trees",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Action: list,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "lsusb:", err)
		os.Exit(1)
	}
}

// row is everything the listing needs to know about one device.
type row struct {
	dev   *usb.Device
	desc  *usb.DeviceDesc
	bus   uint8
	addr  uint8
	ports []uint8
	speed usb.Speed

	// identity strings, fetched in verbose mode.
	mfg, prod, serial string
	openErr           error
}

func list(c *cli.Context) error {
	if c.Bool("no-color") {
		color.NoColor = true
	}

	filter := func(*usb.DeviceDesc) bool { return true }
	if sel := c.String("device"); sel != "" {
		vid, pid, havePID, err := parseID(sel)
		if err != nil {
			return fmt.Errorf("invalid device selector %q: %v", sel, err)
		}
		filter = func(desc *usb.DeviceDesc) bool {
			return desc.Vendor == vid && (!havePID || desc.Product == pid)
		}
	}

	ctx := usb.NewContext()
	defer ctx.Close()
	ctx.Debug(c.Int("debug"))

	// Enumeration can report an error and still return usable devices.
	devs, err := ctx.Devices(filter)
	defer func() {
		for _, d := range devs {
			d.Close()
		}
	}()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lsusb: %v\n", err)
	}

	rows := make([]*row, 0, len(devs))
	for _, d := range devs {
		desc, err := d.Descriptor()
		if err != nil {
			fmt.Fprintf(os.Stderr, "lsusb: %s: %v\n", d, err)
			continue
		}
		rows = append(rows, &row{
			dev:   d,
			desc:  desc,
			bus:   d.BusNumber(),
			addr:  d.Address(),
			ports: d.PortNumbers(),
			speed: d.Speed(),
		})
	}

	if c.Bool("verbose") {
		fetchStrings(rows)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Bus", "Addr", "Port Path", "Speed", "ID", "Device"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range rows {
		table.Append([]string{
			fmt.Sprintf("%03d", r.bus),
			fmt.Sprintf("%03d", r.addr),
			portPath(r.ports),
			r.speed.String(),
			r.desc.String(),
			usbid.Describe(r.desc),
		})
	}
	table.Render()

	if !c.Bool("verbose") {
		return nil
	}
	for _, r := range rows {
		fmt.Println()
		printDevice(r)
	}
	return nil
}

// fetchStrings opens every listed device and reads its identity strings,
// a few devices at a time.
func fetchStrings(rows []*row) {
	var g errgroup.Group
	g.SetLimit(4)
	for _, r := range rows {
		r := r
		g.Go(func() error {
			h, err := r.dev.Open()
			if err != nil {
				// Failing to open a device is normal for an unprivileged
				// user; note it on the row and move on.
				r.openErr = err
				return nil
			}
			defer h.Close()
			r.mfg, _ = h.Manufacturer()
			r.prod, _ = h.Product()
			r.serial, _ = h.SerialNumber()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "lsusb: %v\n", err)
	}
}

func printDevice(r *row) {
	header := color.New(color.Bold)
	header.Printf("Bus %03d Device %03d: ID %s %s\n", r.bus, r.addr, r.desc, usbid.Describe(r.desc))
	if r.openErr != nil {
		fmt.Printf("  %s\n", color.RedString("could not open: %v", r.openErr))
	}
	for _, line := range []struct{ name, value string }{
		{"Manufacturer", r.mfg},
		{"Product", r.prod},
		{"Serial", r.serial},
	} {
		if line.value != "" {
			fmt.Printf("  %-12s %s\n", line.name+":", line.value)
		}
	}
	fmt.Printf("  %-12s %s\n", "Speed:", r.speed)
	if len(r.ports) > 0 {
		fmt.Printf("  %-12s %s\n", "Port path:", portPath(r.ports))
	}
	fmt.Printf("  %-12s %s\n", "Class:", color.CyanString(usbid.Classify(r.desc)))

	for i := 0; i < r.desc.NumConfigs; i++ {
		cfg, err := r.dev.ConfigDescriptor(i)
		if err != nil {
			fmt.Printf("  %s\n", color.RedString("config index %d: %v", i, err))
			continue
		}
		attrs := []string{cfg.MaxPower.String()}
		if cfg.SelfPowered {
			attrs = append(attrs, "self-powered")
		}
		if cfg.RemoteWakeup {
			attrs = append(attrs, "remote-wakeup")
		}
		fmt.Printf("  %s [%s]\n", cfg, strings.Join(attrs, ", "))
		for _, intf := range cfg.Interfaces {
			fmt.Printf("    %s: %s\n", intf, color.CyanString(usbid.Classify(intf)))
			for _, ep := range intf.Endpoints {
				fmt.Printf("      %s\n", ep)
			}
		}
	}
}

// portPath renders the hub port chain the way the kernel names it,
// dot-separated from the root port down.
func portPath(ports []uint8) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ".")
}

// parseID parses a vid or vid:pid device selector.
func parseID(s string) (vid, pid usb.ID, havePID bool, err error) {
	parts := strings.SplitN(s, ":", 2)
	v, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return 0, 0, false, fmt.Errorf("vendor id %q: %v", parts[0], err)
	}
	vid = usb.ID(v)
	if len(parts) == 1 || parts[1] == "" {
		return vid, 0, false, nil
	}
	p, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return 0, 0, false, fmt.Errorf("product id %q: %v", parts[1], err)
	}
	return vid, usb.ID(p), true, nil
}
