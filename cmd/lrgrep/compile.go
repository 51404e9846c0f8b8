package main

import (
	"fmt"
	"os"

	"github.com/nihei9/lrgrep/codegen"
	"github.com/nihei9/lrgrep/rgcompile"
	"github.com/nihei9/lrgrep/rgerr"
)

func runCompile(specPath string) error {
	info := infoPrinter()
	info("loading grammar %s", rootFlags.grammar)

	result, err := rgcompile.Compile(rootFlags.grammar, specPath)
	if err != nil {
		return err
	}
	info("compiled %d rule(s)", len(result.Rules))

	if rootFlags.dump {
		fmt.Fprint(os.Stdout, codegen.Describe(result, 100))
		return nil
	}

	if rootFlags.noFile {
		return nil
	}

	opts := codegen.Options{}
	if rootFlags.headerFile != "" {
		header, err := os.ReadFile(rootFlags.headerFile)
		if err != nil {
			return rgerr.Config(err)
		}
		opts.Header = string(header)
	}
	if rootFlags.trailerFile != "" {
		trailer, err := os.ReadFile(rootFlags.trailerFile)
		if err != nil {
			return rgerr.Config(err)
		}
		opts.Trailer = string(trailer)
	}

	out, err := codegen.Generate(result, opts)
	if err != nil {
		return rgerr.Config(err)
	}

	if rootFlags.output == "" {
		_, err := fmt.Fprint(os.Stdout, out)
		return err
	}

	if err := os.WriteFile(rootFlags.output, []byte(out), 0o644); err != nil {
		return rgerr.Config(err)
	}
	info("wrote %s", rootFlags.output)
	return nil
}
