package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"physics-engine/internal/commands"
)

func main() {
	reg := commands.NewRegistry()
	registerRun(reg)
	registerBench(reg)
	registerServe(reg)

	if err := reg.Execute(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintf(os.Stderr, "%v\n\nusage: physsim <command> [flags]\n", err)
			reg.Usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "physsim:", err)
		os.Exit(1)
	}
}
