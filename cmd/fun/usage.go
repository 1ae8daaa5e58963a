package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fun <file.fun>")
	fmt.Fprintln(os.Stderr, "  fun run [target]")
	fmt.Fprintln(os.Stderr, "  fun run <file.fun>")
	fmt.Fprintln(os.Stderr, "  fun repl [--no-history]")
	fmt.Fprintln(os.Stderr, "  fun tokens [--eof] <file.fun>")
	fmt.Fprintln(os.Stderr, "  fun ast [--postfix] <file.fun>")
	fmt.Fprintln(os.Stderr, "  fun deps install")
	fmt.Fprintln(os.Stderr, "  fun deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  fun --version")
}
