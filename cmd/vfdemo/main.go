// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command vfdemo runs a filter chain over an image on the CPU.
//
//	vfdemo --input in.png --output out.png --filter grayscale --filter invert
//	vfdemo --input in.jpg --config chain.yaml
package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/spf13/pflag"

	"github.com/gogpu/vfilter"
	"github.com/gogpu/vfilter/backend/software"
	"github.com/gogpu/vfilter/config"
)

func main() {
	var (
		input   = pflag.StringP("input", "i", "", "input image (PNG or JPEG)")
		output  = pflag.StringP("output", "o", "vfdemo.png", "output PNG file")
		cfgPath = pflag.StringP("config", "c", "", "YAML chain configuration")
		filters = pflag.StringArrayP("filter", "f", nil, "filter to apply, repeatable; replaces the configured filters")
		verbose = pflag.BoolP("verbose", "v", false, "log filter lifecycle and per-frame diagnostics")
	)
	pflag.Parse()

	if *verbose {
		vfilter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if *input == "" {
		log.Fatal("vfdemo: --input is required")
	}

	cfg := &config.Config{Filters: []string{vfilter.NameBGRA}}
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if len(*filters) > 0 {
		cfg.Filters = *filters
	}

	img, err := imgio.Open(*input)
	if err != nil {
		log.Fatalf("vfdemo: open input: %v", err)
	}
	frame := vfilter.FrameFromImage(img)

	out, err := run(cfg, frame)
	if err != nil {
		log.Fatal(err)
	}
	if err := imgio.Save(*output, out.ToRGBA(), imgio.PNGEncoder()); err != nil {
		log.Fatalf("vfdemo: save output: %v", err)
	}
	log.Printf("vfdemo: %v applied to %s, saved to %s (%dx%d)",
		cfg.Filters, *input, *output, frame.Width, frame.Height)
}

// run builds the configured chain and renders frame through it.
func run(cfg *config.Config, frame *vfilter.Frame) (*vfilter.Frame, error) {
	ch, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	if cfg.Dimensions.IsZero() {
		d := frame.Dimensions()
		if err := ch.SetDimensions(d.Width, d.Height); err != nil {
			return nil, err
		}
	}

	st := newStages(software.New(), frame)
	if err := ch.Initialize(st); err != nil {
		return nil, err
	}
	if err := ch.Render(st); err != nil {
		return nil, err
	}
	return st.result(), nil
}
