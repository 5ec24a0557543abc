package main

import (
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"bfvm/internal/bfi"
	"bfvm/internal/diag"
	"bfvm/internal/layout"
	"bfvm/internal/vmgen"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Write the program to a file instead of stdout")
	optChecks := getopt.BoolLong("emit-checks", 'c', "Report per-fragment cursor-balance results to stderr")
	optRun := getopt.BoolLong("run", 'r', "Execute the generated program with the bundled interpreter")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	logger := diag.New(os.Stderr, slog.LevelInfo)

	if *optChecks {
		reports, err := vmgen.Check(layout.Default)
		for _, rep := range reports {
			if rep.Skipped {
				logger.Info("balance", "fragment", rep.Name, "result", "skipped (runtime-dependent loop)")
				continue
			}
			logger.Info("balance", "fragment", rep.Name, "result",
				fmt.Sprintf("delta %+d, declared %+d", rep.Delta, rep.Want))
		}
		if err != nil {
			logger.Error("self-check failed", "error", err.Error())
			os.Exit(1)
		}
	}

	program, err := vmgen.Generate(layout.Default)
	if err != nil {
		logger.Error("generation failed", "error", err.Error())
		os.Exit(1)
	}

	if *optRun {
		ops, err := bfi.Compile(program)
		if err != nil {
			logger.Error("generated program did not compile", "error", err.Error())
			os.Exit(1)
		}
		vm := bfi.NewVM()
		if err := vm.Run(ops); err != nil {
			logger.Error("interpreter error", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	if *optOutput != "" {
		if err := os.WriteFile(*optOutput, []byte(program), 0o644); err != nil {
			logger.Error("write failed", "error", err.Error())
			os.Exit(1)
		}
		return
	}

	fmt.Print(program)
}
