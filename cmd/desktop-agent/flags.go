// ABOUTME: CLI flag parsing using the standard library flag package
// ABOUTME: Positional argument is the natural-language instruction; flags select models and grounding canvas

package main

import (
	"flag"
	"strings"
)

type cliArgs struct {
	provider        string
	model           string
	groundProvider  string
	groundModel     string
	groundURL       string
	groundingWidth  int
	groundingHeight int
	verbose         bool
}

func parseFlags() (cliArgs, string) {
	var args cliArgs

	flag.StringVar(&args.provider, "provider", "", "Worker/Reflector API provider (anthropic|openai)")
	flag.StringVar(&args.model, "model", "", "Worker/Reflector model id")
	flag.StringVar(&args.groundProvider, "ground_provider", "", "Grounder API provider; defaults to --provider")
	flag.StringVar(&args.groundModel, "ground_model", "", "Grounder model id; defaults to --model")
	flag.StringVar(&args.groundURL, "ground_url", "", "Grounder base URL, for a self-hosted grounding server")
	flag.IntVar(&args.groundingWidth, "grounding_width", 0, "Grounding canvas width (default 1000)")
	flag.IntVar(&args.groundingHeight, "grounding_height", 0, "Grounding canvas height (default 1000)")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	instruction := strings.Join(flag.Args(), " ")
	return args, instruction
}
