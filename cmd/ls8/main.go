package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/arvagas/Sprint-Challenge--Computer-Architecture/cpu"
	"github.com/arvagas/Sprint-Challenge--Computer-Architecture/emulator"
)

// Exit statuses. Usage and file-not-found are distinct.
const (
	EXIT_USAGE     = 1
	EXIT_NOT_FOUND = 2
	EXIT_RUNTIME   = 3
)

var profiles = map[string]cpu.Profile{
	"base": cpu.ProfileBase,
	"full": cpu.ProfileFull,
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %v [-c] [-v] [-p profile] <program>\n", os.Args[0])
	os.Exit(EXIT_USAGE)
}

func main() {
	var compile bool
	var verbose bool
	var profile string

	flag.BoolVar(&compile, "c", false, "Treat the program as assembly source")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&profile, "p", "full", "Instruction profile (base, full)")

	flag.Parse()

	if flag.NArg() != 1 {
		usage()
	}

	prof, ok := profiles[profile]
	if !ok {
		usage()
	}

	emu := emulator.NewEmulator(prof)
	emu.Verbose = verbose

	path := flag.Arg(0)

	var prog *cpu.Program
	var err error
	if compile {
		var inf *os.File
		inf, err = os.Open(path)
		if err == nil {
			defer inf.Close()

			asm := &cpu.Assembler{Verbose: verbose}
			for key, value := range emu.Defines() {
				asm.Predefine(key, value)
			}
			prog, err = asm.Parse(inf)
		}
	} else {
		prog, err = cpu.LoadFile(path)
	}
	if err != nil {
		log.Printf("%v: %v", path, err)
		if errors.Is(err, fs.ErrNotExist) {
			os.Exit(EXIT_NOT_FOUND)
		}
		os.Exit(EXIT_RUNTIME)
	}

	emu.Program = prog

	err = emu.Reset()
	if err == nil {
		err = emu.Run()
	}
	if err != nil {
		log.Printf("%v: %v", path, err)
		os.Exit(EXIT_RUNTIME)
	}
}
