// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/ezrec/minicpu/cpu"
	"github.com/ezrec/minicpu/emulator"
	"github.com/ezrec/minicpu/internal"
	minio "github.com/ezrec/minicpu/io"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(os.Args[0])))
}

func main() {
	var compile string
	var image string
	var binary bool
	var save bool
	var output string
	var registers int
	var memory int
	var states string
	var limit int
	var verbose bool
	var step bool
	var defines bool

	cfg := cpu.DefaultConfig()

	flag.StringVar(&compile, "c", "", "assembly file to compile")
	flag.StringVar(&image, "i", "", "program image to load")
	flag.BoolVar(&binary, "b", false, "images are big-endian binary, not hex text")
	flag.BoolVar(&save, "s", false, "save program image, do not execute")
	flag.StringVar(&output, "o", "-", "program image output")
	flag.IntVar(&registers, "r", cfg.Registers, "number of registers")
	flag.IntVar(&memory, "m", cfg.MemorySize, "program and data memory words")
	flag.StringVar(&states, "states", "FETCH,DECODE,EXECUTE", "control sequencer states")
	flag.IntVar(&limit, "n", emulator.TICK_LIMIT, "tick limit")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&step, "step", false, "single-step, one key per instruction ('q' quits)")
	flag.BoolVar(&defines, "defines", false, "list assembler defines and exit")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("Unknown arguments: %v", flag.Args())
	}

	phases, err := cpu.ParsePhases(states)
	if err != nil {
		log.Fatalf("-states: %v", err)
	}

	cfg.Registers = registers
	cfg.MemorySize = memory
	cfg.States = phases

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatal(err)
	}
	emu.Verbose = verbose

	if !verbose {
		emu.Sequencer.Logger = log.New(io.Discard, "", 0)
	}

	if defines {
		for equ, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v=%v\n", equ, value)
		}
		return
	}

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(image) != 0:
		rom := &minio.Rom{Limit: cfg.MemorySize}
		err = loadImage(rom, image, binary)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		emu.Load(rom.Data)
	default:
		log.Fatalf("One of -c or -i is required")
	}

	if save {
		rom := &minio.Rom{Data: emu.Program.Binary()}
		err = saveImage(rom, output, binary)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		return
	}

	err = emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	if step {
		err = runStep(emu)
	} else {
		_, err = emu.Run(limit)
	}

	fmt.Print(emu.String())
	fmt.Printf("% 5s: %v\n", "ticks", emu.Ticks())

	if err != nil {
		log.Fatal(err)
	}
}

func loadImage(rom *minio.Rom, path string, binary bool) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	if binary {
		err = rom.ReadBinary(inf)
	} else {
		_, err = rom.ReadFrom(inf)
	}

	return
}

func saveImage(rom *minio.Rom, path string, binary bool) (err error) {
	ouf := os.Stdout
	if path != "-" {
		ouf, err = os.Create(path)
		if err != nil {
			return
		}
		defer func() {
			cerr := ouf.Close()
			if err == nil {
				err = cerr
			}
		}()
	}

	if binary {
		err = rom.WriteBinary(ouf)
	} else {
		_, err = rom.WriteTo(ouf)
	}

	return
}

// runStep executes one instruction per key press.
func runStep(emu *emulator.Emulator) (err error) {
	raw, err := enterRawTerm()
	if err != nil {
		return
	}
	if raw {
		defer exitRawTerm()
	}

	key := make([]byte, 1)
	for emu.Pc() < emu.Machine.Program.Len() {
		code, _ := emu.Code()
		fmt.Printf("%03x: %v\r\n", emu.Pc(), code)

		_, err = os.Stdin.Read(key)
		if err != nil || key[0] == 'q' {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	return
}
