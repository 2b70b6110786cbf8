package main

import (
	"flag"
	"fmt"
	"os"

	"truida/internal/tools/stafftoken"
)

func main() {
	cfg, err := stafftoken.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse flags: %v\n", err)
		os.Exit(2)
	}
	if err := stafftoken.Run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "stafftoken: %v\n", err)
		os.Exit(1)
	}
}
