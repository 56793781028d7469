// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/ledrom/cpu"
	"github.com/ezrec/ledrom/emulator"
	"github.com/ezrec/ledrom/translate"
)

// demo is the default test image.
var demo = []uint32{
	cpu.R_ON, cpu.G_ON, cpu.PackedDelay(10), cpu.R_OFF, cpu.PackedDelay(5),
	cpu.G_OFF, cpu.B_ON, cpu.PackedDelay(1), cpu.B_OFF, cpu.RET,
}

func main() {
	var compile string
	var image string
	var output string
	var save bool
	var ticks int
	var latency int
	var lang string
	var verbose bool

	flag.StringVar(&compile, "c", "", ".led file to assemble")
	flag.StringVar(&image, "i", "", "ROM image to run")
	flag.StringVar(&output, "o", "", "ROM image to write, for programming at the ROM offset")
	flag.BoolVar(&save, "s", false, "Save ROM image only, do not simulate")
	flag.IntVar(&ticks, "n", emulator.RUN_TICKS, "Clock ticks to simulate")
	flag.IntVar(&latency, "l", 0, "ROM wait states per read")
	flag.StringVar(&lang, "lang", "", "Message locale")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		translate.SetLocales(strings.Split(lang, ",")...)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Rom.Latency = latency

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(image) != 0:
		inf, err := os.Open(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		defer inf.Close()

		err = emu.LoadImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	default:
		emu.Rom.SetPacked(demo)
		err := emu.LoadImage(bytes.NewReader(emu.Rom.Data))
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
	}

	if len(output) != 0 {
		err := os.WriteFile(output, emu.Rom.Data, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		if verbose {
			log.Printf("%v: %d bytes, program at flash offset %#x", output, len(emu.Rom.Data), emu.Rom.Offset)
		}
	}

	if save {
		return
	}

	emu.Run(ticks)

	for _, event := range emu.Leds.Events {
		level := "off"
		if event.On {
			level = "on"
		}
		fmt.Printf("%8d: %v %v\n", event.Tick, event.Channel, level)
	}

	if verbose {
		fmt.Print(emu.String())
	}
}
