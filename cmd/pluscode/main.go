// Command pluscode encodes, decodes and manipulates Plus Codes offline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/pluscode/internal/logger"
	"github.com/mohammed-shakir/pluscode/pkg/olc"
)

const usage = `usage:
  pluscode encode [-len N] LAT LNG
  pluscode decode CODE
  pluscode validate CODE
  pluscode shorten CODE LAT LNG
  pluscode recover CODE LAT LNG
`

var errUsage = errors.New("bad usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	zl := logger.Build(logger.Config{Level: "info", Console: true, Component: "pluscode"}, stderr)

	if len(args) == 0 {
		_, _ = io.WriteString(stderr, usage)
		return 2
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "encode":
		err = encode(rest, stdout)
	case "decode":
		err = decode(rest, stdout)
	case "validate":
		err = validate(rest, stdout)
	case "shorten":
		err = withReference(rest, stdout, olc.Shorten)
	case "recover":
		err = withReference(rest, stdout, olc.RecoverNearest)
	case "help", "-h", "--help":
		_, _ = io.WriteString(stdout, usage)
		return 0
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	if err != nil {
		zl.Error().Err(err).Str("command", args[0]).Msg("pluscode failed")
		if errors.Is(err, errUsage) {
			_, _ = io.WriteString(stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

func encode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	codeLen := fs.Int("len", olc.DefaultCodeLength, "code length (2, 4, 6, 8 or 10..15)")
	flags, pos := splitFlags(args)
	if err := fs.Parse(flags); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	lat, lng, err := parseLatLng(pos)
	if err != nil {
		return err
	}
	code, err := olc.Encode(lat, lng, *codeLen)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, code)
	return err
}

// splitFlags separates -len from positional arguments so negative
// coordinates are not mistaken for flags.
func splitFlags(args []string) (flags, pos []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		name := strings.TrimLeft(a, "-")
		switch {
		case name == "len" && strings.HasPrefix(a, "-"):
			flags = append(flags, a)
			if i+1 < len(args) {
				flags = append(flags, args[i+1])
				i++
			}
		case strings.HasPrefix(name, "len=") && strings.HasPrefix(a, "-"):
			flags = append(flags, a)
		default:
			pos = append(pos, a)
		}
	}
	return flags, pos
}

func decode(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: decode takes one code", errUsage)
	}
	area, err := olc.Decode(args[0])
	if err != nil {
		return err
	}
	lat, lng := area.Center()
	_, err = fmt.Fprintf(out, "center %.10f,%.10f\nsw %.10f,%.10f\nne %.10f,%.10f\nlength %d\n",
		lat, lng, area.LatitudeLo, area.LongitudeLo, area.LatitudeHi, area.LongitudeHi, area.CodeLength)
	return err
}

func validate(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: validate takes one code", errUsage)
	}
	kind := olc.Classify(args[0])
	if _, err := fmt.Fprintln(out, kind); err != nil {
		return err
	}
	if kind == olc.KindInvalid {
		return olc.CheckValid(args[0])
	}
	return nil
}

func withReference(args []string, out io.Writer, fn func(string, float64, float64) (string, error)) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: expected CODE LAT LNG", errUsage)
	}
	lat, lng, err := parseLatLng(args[1:])
	if err != nil {
		return err
	}
	code, err := fn(args[0], lat, lng)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, code)
	return err
}

func parseLatLng(args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: expected LAT LNG", errUsage)
	}
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q", errUsage, args[0])
	}
	lng, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q", errUsage, args[1])
	}
	return lat, lng, nil
}
