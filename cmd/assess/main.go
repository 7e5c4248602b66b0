// Command assess classifies a single PM2.5 (and optional PM10) reading and
// prints the risk report.
//
// Usage:
//
//	go run ./cmd/assess -pm25 35 -pm10 80 -location "Petaling Jaya"
//	go run ./cmd/assess -pm25 35 -format json -breakpoints breakpoints.toml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/air-quality-risk/internal/adapter/breakpoints"
	"github.com/couchcryptid/air-quality-risk/internal/assess"
	"github.com/couchcryptid/air-quality-risk/internal/domain"
	"github.com/couchcryptid/air-quality-risk/internal/observability"
)

// reading is a flag.Value that remembers whether it was set.
type reading struct {
	value float64
	set   bool
}

func (r *reading) String() string {
	if r == nil || !r.set {
		return ""
	}
	return strconv.FormatFloat(r.value, 'g', -1, 64)
}

func (r *reading) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("must be a finite number")
	}
	r.value, r.set = v, true
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("assess", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var pm25, pm10 reading
	fs.Var(&pm25, "pm25", "PM2.5 concentration in µg/m³ (required)")
	fs.Var(&pm10, "pm10", "PM10 concentration in µg/m³ (optional)")
	location := fs.String("location", "", "location or area label")
	tablesPath := fs.String("breakpoints", "", "TOML breakpoint file (default: built-in tables)")
	format := fs.String("format", "text", "output format: text or json")
	strict := fs.Bool("strict", false, "reject negative readings")
	logLevel := fs.String("log-level", "warn", "log level for diagnostics on stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if !pm25.set {
		fmt.Fprintln(stderr, "-pm25 is required")
		fs.Usage()
		return 2
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(stderr, "unknown -format %q\n", *format)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: observability.ParseLevel(*logLevel)}))

	classifier, err := breakpoints.Load(*tablesPath)
	if err != nil {
		fmt.Fprintf(stderr, "load breakpoints: %v\n", err)
		return 1
	}
	svc, err := assess.NewService(classifier, logger, nil, assess.WithStrictReadings(*strict))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	req := assess.Request{Location: *location, PM25: pm25.value}
	if pm10.set {
		req.PM10 = &pm10.value
	}
	report, err := svc.Assess(context.Background(), req)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "encode report: %v\n", err)
			return 1
		}
		return 0
	}
	renderText(stdout, report)
	return 0
}

func renderText(w io.Writer, r assess.Report) {
	var b strings.Builder

	fmt.Fprintf(&b, "Overall Air Quality: %s (score %d, %s)\n", r.Category, r.Score, r.AlertLevel)
	if r.Location != "" {
		fmt.Fprintf(&b, "Location analysed: %s\n", r.Location)
	}
	for _, p := range r.Pollutants {
		fmt.Fprintf(&b, "%-6s %7.1f µg/m³  %s\n", p.Pollutant, p.Value, p.Category)
	}

	b.WriteString("\nWhat this level means:\n")
	fmt.Fprintf(&b, "  %s\n", r.Description)

	b.WriteString("\nRecommended actions:\n")
	for _, a := range r.Actions {
		fmt.Fprintf(&b, "  - %s\n", a)
	}

	if overridden(r) {
		b.WriteString("\nNote: PM10 set the overall category; the description above refers to PM2.5.\n")
	}

	io.WriteString(w, b.String()) //nolint:errcheck // terminal output
}

func overridden(r assess.Report) bool {
	for _, p := range r.Pollutants {
		if p.Pollutant == domain.PM25 && p.Category != r.Category {
			return true
		}
	}
	return false
}
