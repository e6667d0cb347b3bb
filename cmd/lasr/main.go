// Command lasr runs a built-in program on one call record and prints the
// resulting outputs.
//
//	lasr --program fungible --input call.json
//	echo '{"op":"burn",...}' | lasr --program fungible
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	lasr "github.com/branched-services/go-lasr"
	"github.com/branched-services/go-lasr/programs/fungible"
	"github.com/branched-services/go-lasr/programs/nonfungible"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

// programs are the built-in programs selectable with --program.
var programs = map[string]func(...lasr.ProgramOption) *lasr.Program{
	"fungible":    fungible.New,
	"nonfungible": nonfungible.New,
}

func programNames() string {
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lasr",
		Usage: "run a program on one call record",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "program", Value: "fungible", Usage: "built-in program (" + programNames() + ")", EnvVars: []string{"LASR_PROGRAM"}},
			&cli.StringFlag{Name: "input", Usage: "call record file, stdin when empty", EnvVars: []string{"LASR_INPUT"}},
			&cli.IntFlag{Name: "decimals", Value: lasr.DefaultDecimals, Usage: "fixed-point precision of decimal amounts", EnvVars: []string{"LASR_DECIMALS"}},
			&cli.IntFlag{Name: "verbosity", Value: 3, Usage: "log level: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace", EnvVars: []string{"LASR_VERBOSITY"}},
			&cli.BoolFlag{Name: "pretty", Usage: "indent the output"},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Crit("Call failed", "err", err)
	}
}

func run(c *cli.Context) error {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(c.App.ErrWriter, log.FromLegacyLevel(c.Int("verbosity")), false)))

	newProgram, ok := programs[c.String("program")]
	if !ok {
		return fmt.Errorf("unknown program %q (available: %s)", c.String("program"), programNames())
	}
	decimals := c.Int("decimals")
	if decimals < 0 || decimals > lasr.MaxDecimals {
		return fmt.Errorf("decimals must be between 0 and %d, got %d", lasr.MaxDecimals, decimals)
	}
	codec := lasr.NewAmountCodec(lasr.WithDecimals(int32(decimals)))
	program := newProgram(lasr.WithCodec(codec))

	data, err := readInput(c.String("input"), c.App.Reader)
	if err != nil {
		return err
	}
	call, err := lasr.DecodeCall(data)
	if err != nil {
		return err
	}
	log.Info("Running call", "program", program.Name(), "op", call.Operation(), "tx", call.Transaction.Hash)

	out, err := program.Start(call)
	if err != nil {
		return err
	}
	text, err := out.CanonicalForm()
	if err != nil {
		return err
	}
	if c.Bool("pretty") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, text, "", "  "); err != nil {
			return err
		}
		text = buf.Bytes()
	}
	log.Debug("Call finished", "instructions", out.Len(), "bytes", len(text))

	_, err = fmt.Fprintf(c.App.Writer, "%s\n", text)
	return err
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
