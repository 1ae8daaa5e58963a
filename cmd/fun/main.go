package main

import (
	"errors"
	"fmt"
	"os"
)

const cliToolVersion = "fun-cli 0.1.0"

const (
	exitOK      = 0
	exitUsage   = 1
	exitFlags   = 2
	exitProgram = 69
)

var errManifestNotFound = errors.New("fun.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return exitOK
	case "run":
		return runEntry(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "tokens":
		return runTokens(args[1:])
	case "ast":
		return runAST(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}
