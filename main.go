package main

import (
	"fmt"
	"os"

	"github.com/oscamp/oscamp/registry"
)

func main() {
	cmd := "watch"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		printUsage()
		return
	}

	reg, err := registry.Load(registry.CurrentHost())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var arg string
	if len(os.Args) > 2 {
		arg = os.Args[2]
	}

	switch cmd {
	case "watch":
		err = watchMode(reg)
	case "list":
		err = listMode(reg)
	case "check":
		os.Exit(checkMode(reg))
	case "run":
		err = runMode(reg, arg)
	case "hint":
		err = hintMode(reg, arg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`oscamp - interactive exercise runner

Usage: oscamp [command]

Commands:
  watch    Interactive mode (default): watches the current exercise and
           re-runs its tests on every save
  list     Show the curriculum and per-exercise progress
  check    Run every exercise once and print a summary
  run      Run one exercise with full output     (oscamp run <package>)
  hint     Show the hint for an exercise         (oscamp hint <package>)
  help     Show this help`)
}
