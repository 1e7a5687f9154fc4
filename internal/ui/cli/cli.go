package cli

import (
	"flag"
	"io"
	"strings"

	"winfeatures/internal/core/config"
)

const versionString = "0.1.0"

type cliOptions struct {
	configPath     string
	configExplicit bool
	scanDirs       string
	stdin          bool
	watch          bool
	format         string
	refresh        bool
	debug          bool
	quiet          bool
	version        bool
	args           []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("winfeatures", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", config.DefaultConfigFile, "Path to config file")
	fs.StringVar(&opts.scanDirs, "scan-dir", "", "Comma-separated directories to scan for Rust sources")
	fs.BoolVar(&opts.stdin, "stdin", false, "Read import statements from stdin (optionally prefixed with \"path:\")")
	fs.BoolVar(&opts.watch, "watch", false, "Re-resolve whenever Rust sources change")
	fs.StringVar(&opts.format, "format", "", "Output format: list or cargo")
	fs.BoolVar(&opts.refresh, "refresh", false, "Ignore the cached catalog and download it again")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&opts.quiet, "quiet", false, "Only print features and warnings")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			opts.configExplicit = true
		}
	})
	opts.args = fs.Args()
	return opts, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
