// Command validate checks a breakpoint table file before it is deployed. It
// loads the file with the same loader the server uses, prints every tier, and
// confirms that each declared bound classifies into its own (lower) tier and
// the value just above it into the next tier.
//
// Usage:
//
//	go run ./cmd/validate -file breakpoints.toml
//	go run ./cmd/validate -dump > breakpoints.toml
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/air-quality-risk/internal/adapter/breakpoints"
	"github.com/couchcryptid/air-quality-risk/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "TOML breakpoint file to validate")
	dump := fs.Bool("dump", false, "print the built-in tables as TOML and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *dump {
		out, err := breakpoints.Encode(domain.DefaultClassifier())
		if err != nil {
			fmt.Fprintf(stderr, "FATAL: %v\n", err)
			return 1
		}
		stdout.Write(out) //nolint:errcheck // terminal output
		return 0
	}

	if *file == "" {
		fs.Usage()
		return 2
	}

	classifier, err := breakpoints.Load(*file)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "=== Breakpoint Table Validation ===")
	for _, t := range []domain.Table{classifier.PM25, classifier.PM10} {
		printTable(stdout, t)
	}

	phases := []*phase{
		validateBoundaries(classifier.PM25),
		validateBoundaries(classifier.PM10),
		validateDescriptions(classifier.PM25),
	}

	fmt.Fprintln(stdout)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-36s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nValidation FAILED.")
	return 1
}

func printTable(w io.Writer, t domain.Table) {
	fmt.Fprintf(w, "\n%s\n", t.Pollutant)
	for _, tier := range t.Tiers {
		bound := "(above)"
		if !tier.Open() {
			bound = fmt.Sprintf("<= %g", tier.UpperBound)
		}
		fmt.Fprintf(w, "  %-10s %-32s score %d\n", bound, tier.Category, tier.Category.Score())
	}
}

// validateBoundaries checks lower-tier inclusivity at every declared bound.
func validateBoundaries(t domain.Table) *phase {
	p := &phase{name: fmt.Sprintf("%s boundary inclusivity", t.Pollutant)}
	for i, tier := range t.Tiers {
		if tier.Open() {
			continue
		}
		if got := t.Classify(tier.UpperBound).Category; got != tier.Category {
			p.errorf("%g classified as %s, want %s", tier.UpperBound, got, tier.Category)
		}
		above := math.Nextafter(tier.UpperBound, math.Inf(1))
		if got, want := t.Classify(above).Category, t.Tiers[i+1].Category; got != want {
			p.errorf("%g classified as %s, want %s", above, got, want)
		}
	}
	return p
}

// validateDescriptions requires every PM2.5 tier to explain itself.
func validateDescriptions(t domain.Table) *phase {
	p := &phase{name: fmt.Sprintf("%s descriptions present", t.Pollutant)}
	for _, tier := range t.Tiers {
		if tier.Description == "" {
			p.errorf("%s tier has no description", tier.Category)
		}
	}
	return p
}
