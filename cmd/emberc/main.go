// Emberc - developer tooling for the Ember bytecode core: token dumps,
// chunk disassembly, and chunk execution.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/chazu/ember/bytecode"
	"github.com/chazu/ember/compiler"
	"github.com/chazu/ember/config"
	"github.com/chazu/ember/vm"

	_ "github.com/tliron/commonlog/simple"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: emberc [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  tokens <file>   Scan an Ember source file and print its token stream\n")
		fmt.Fprintf(os.Stderr, "  disasm <chunk>  Disassemble a compiled chunk (CBOR wire format)\n")
		fmt.Fprintf(os.Stderr, "  run <chunk>     Execute a compiled chunk (CBOR wire format)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfiguration is read from the nearest ember.toml, if any.\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	verbosity := cfg.Log.Verbosity
	if *verbose && verbosity < 1 {
		verbosity = 1
	}
	if cfg.Runtime.Trace && verbosity < 2 {
		verbosity = 2 // tracing logs at debug level
	}
	commonlog.Configure(verbosity, nil)

	switch args[0] {
	case "tokens":
		handleTokensCommand(args[1:])
	case "disasm":
		handleDisasmCommand(args[1:])
	case "run":
		handleRunCommand(args[1:], cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		flag.Usage()
		os.Exit(1)
	}
}

// handleTokensCommand processes the `emberc tokens` subcommand.
func handleTokensCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: emberc tokens <file>")
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	scanner := compiler.NewScanner(string(source))
	lexErrors := 0
	for {
		tok := scanner.ScanToken()
		fmt.Printf("%4d %s\n", tok.Line, tok)
		if tok.Type == compiler.TokenError {
			lexErrors++
		}
		if tok.Type == compiler.TokenEOF {
			break
		}
	}

	if lexErrors > 0 {
		fmt.Fprintf(os.Stderr, "%d lexical error(s)\n", lexErrors)
		os.Exit(1)
	}
}

// handleDisasmCommand processes the `emberc disasm` subcommand.
func handleDisasmCommand(args []string) {
	chunk, name := loadChunk(args, "disasm")
	fmt.Print(chunk.Disassemble(name))
}

// handleRunCommand processes the `emberc run` subcommand.
func handleRunCommand(args []string, cfg *config.Config) {
	chunk, _ := loadChunk(args, "run")

	machine := vm.New(
		vm.WithStackSize(cfg.Runtime.StackSize),
		vm.WithStepLimit(cfg.Runtime.StepLimit),
		vm.WithTrace(cfg.Runtime.Trace),
	)
	if err := machine.Interpret(chunk); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
}

// loadChunk reads a CBOR wire chunk named by the single argument.
func loadChunk(args []string, command string) (*bytecode.Chunk, string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: emberc %s <chunk>\n", command)
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	chunk, err := bytecode.UnmarshalChunk(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return chunk, args[0]
}
