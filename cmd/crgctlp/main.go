// Command crgctlp is a thin CLI over the core library entry points: Bristol
// parsing, evaluation, garbling, the TLP algorithms, and the leakage
// predictor. It performs no cryptographic work of its own; every
// subcommand is a few lines of wiring around the crgc-tlp packages, in the
// same "one flag package, one main" spirit as the teacher's notary.go, but
// scaled to several subcommands the way a library CLI needs.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tlsnotary/crgc-tlp/bristol"
	"github.com/tlsnotary/crgc-tlp/evaluate"
	"github.com/tlsnotary/crgc-tlp/garble"
	"github.com/tlsnotary/crgc-tlp/leakage"
	"github.com/tlsnotary/crgc-tlp/rgcio"
	"github.com/tlsnotary/crgc-tlp/telemetry"
	"github.com/tlsnotary/crgc-tlp/tlp"
	"github.com/tlsnotary/crgc-tlp/tlpcircuit"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(os.Args[2:])
	case "evaluate":
		err = runEvaluate(os.Args[2:])
	case "garble":
		err = runGarble(os.Args[2:])
	case "predict-leakage":
		err = runPredictLeakage(os.Args[2:])
	case "tlp-demo":
		err = runTLPDemo(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "crgctlp:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: crgctlp <command> [flags]

commands:
  parse            <bristol-file>
  evaluate         -a=<uint> -b=<uint> <bristol-file>
  garble           -a=<uint> -out-dir=<dir> -out-name=<name> [-v] <bristol-file>
  predict-leakage  <bristol-file>
  tlp-demo         -lambda=<n> -t=<n> -s=<0|1>`)
}

func runParse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("parse: expected exactly one bristol file argument")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := bristol.Parse(f)
	if err != nil {
		return err
	}
	d := c.Details
	fmt.Printf("num_wires=%d num_gates=%d input_a_bits=%d input_b_bits=%d num_outputs=%d output_bits=%d\n",
		d.NumWires, d.NumGates, d.InputABits, d.InputBBits, d.NumOutputs, d.OutputBits)
	return nil
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	aStr := fs.String("a", "0", "input A as a base-10 unsigned integer")
	bStr := fs.String("b", "0", "input B as a base-10 unsigned integer")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("evaluate: expected exactly one bristol file argument")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := bristol.Parse(f)
	if err != nil {
		return err
	}

	a, err := bitsFromDecimal(*aStr, c.Details.InputABits)
	if err != nil {
		return fmt.Errorf("evaluate: input A: %w", err)
	}
	b, err := bitsFromDecimal(*bStr, c.Details.InputBBits)
	if err != nil {
		return fmt.Errorf("evaluate: input B: %w", err)
	}

	out, err := evaluate.Evaluate(c, a, b)
	if err != nil {
		return err
	}
	fmt.Println(decimalFromBits(out))
	return nil
}

func runGarble(args []string) error {
	fs := flag.NewFlagSet("garble", flag.ExitOnError)
	aStr := fs.String("a", "0", "input A as a base-10 unsigned integer")
	outDir := fs.String("out-dir", ".", "directory to write the RGC artifact into")
	outName := fs.String("out-name", "circuit", "RGC artifact base name")
	verbose := fs.Bool("v", false, "log garbling pipeline stage counts at debug level")
	fs.Parse(args)
	if *verbose {
		telemetry.SetLevel(zerolog.DebugLevel)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("garble: expected exactly one bristol file argument")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := bristol.Parse(f)
	if err != nil {
		return err
	}
	a, err := bitsFromDecimal(*aStr, c.Details.InputABits)
	if err != nil {
		return fmt.Errorf("garble: input A: %w", err)
	}

	aPrime, gc, err := garble.Garble(rand.Reader, c, a)
	if err != nil {
		return err
	}
	if err := rgcio.Write(*outDir, *outName, gc, aPrime); err != nil {
		return err
	}
	sum, err := rgcio.Sum(gc, aPrime)
	if err != nil {
		return err
	}
	log := telemetry.Logger()
	log.Info().
		Str("out_dir", *outDir).Str("out_name", *outName).
		Str("fingerprint", sum.String()).
		Msg("crgctlp: garbled circuit written")
	return nil
}

func runPredictLeakage(args []string) error {
	fs := flag.NewFlagSet("predict-leakage", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("predict-leakage: expected exactly one bristol file argument")
	}
	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := bristol.Parse(f)
	if err != nil {
		return err
	}
	report := leakage.Predict(c)
	fmt.Print(report.String())
	return nil
}

func runTLPDemo(args []string) error {
	fs := flag.NewFlagSet("tlp-demo", flag.ExitOnError)
	lambda := fs.Int("lambda", 64, "bit width of the TLP register x")
	t := fs.Int("t", 8, "number of sequential unrollings")
	sInt := fs.Int("s", 1, "secret bit to lock (0 or 1)")
	fs.Parse(args)
	if *sInt != 0 && *sInt != 1 {
		return fmt.Errorf("tlp-demo: -s must be 0 or 1")
	}
	s := *sInt == 1

	f := tlpcircuit.XORMixingFunc(*lambda)

	setupStart := time.Now()
	pp, err := tlp.PSetup(rand.Reader, f, *t)
	if err != nil {
		return err
	}
	setupTime := time.Since(setupStart)

	genStart := time.Now()
	puzzle, err := tlp.PGen(rand.Reader, pp, s)
	if err != nil {
		return err
	}
	genTime := time.Since(genStart)

	solveStart := time.Now()
	got, err := tlp.PSolve(pp, puzzle)
	if err != nil {
		return err
	}
	solveTime := time.Since(solveStart)

	log := telemetry.Logger()
	log.Info().
		Int("lambda", *lambda).Int("t", *t).
		Dur("setup_time", setupTime).Dur("gen_time", genTime).Dur("solve_time", solveTime).
		Bool("secret_in", s).Bool("secret_out", got).
		Msg("crgctlp: tlp-demo complete")

	if got != s {
		return fmt.Errorf("tlp-demo: round trip failed: locked %v, solved %v", s, got)
	}
	fmt.Println(boolToInt(got))
	return nil
}

func bitsFromDecimal(dec string, width int) ([]bool, error) {
	n, ok := new(big.Int).SetString(dec, 10)
	if !ok {
		return nil, fmt.Errorf("%q is not a valid base-10 integer", dec)
	}
	bits := make([]bool, width)
	for i := 0; i < width; i++ {
		bitIdx := width - 1 - i
		bits[i] = n.Bit(bitIdx) == 1
	}
	return bits, nil
}

func decimalFromBits(bits []bool) string {
	n := new(big.Int)
	for _, bit := range bits {
		n.Lsh(n, 1)
		if bit {
			n.Or(n, big.NewInt(1))
		}
	}
	return n.String()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
