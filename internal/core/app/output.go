package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	FormatList  = "list"
	FormatCargo = "cargo"

	listHeader = "Required windows-rs features:"
)

// Render prints features in the configured format to stdout.
func (a *App) Render(features []string) error {
	if a.Config.Output.Format == FormatList && !a.quiet {
		if _, err := fmt.Fprintln(a.stderr, listHeader); err != nil {
			return err
		}
	}
	return WriteFeatures(a.stdout, a.Config.Output.Format, a.Config.Resolve.Crate, features)
}

// WriteFeatures writes features as one name per line ("list") or as a Cargo
// manifest snippet for crate ("cargo").
func WriteFeatures(w io.Writer, format, crate string, features []string) error {
	switch format {
	case FormatCargo:
		return writeCargo(w, crate, features)
	case FormatList, "":
		var b strings.Builder
		for _, f := range features {
			b.WriteString(f)
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeCargo(w io.Writer, crate string, features []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[dependencies.%s]\n", crate)
	if len(features) == 0 {
		b.WriteString("features = []\n")
	} else {
		b.WriteString("features = [\n")
		for _, f := range features {
			fmt.Fprintf(&b, "    %s,\n", strconv.Quote(f))
		}
		b.WriteString("]\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
