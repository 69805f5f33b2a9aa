// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Hwcount counts the hardware events of a recursive Fibonacci computation.
//
// Usage:
//
//	hwcount [-e events] [-n N] [-p runs] [-v]
//	hwcount list
//
// Events are given as a comma-separated list of PAPI preset names, with
// or without the PAPI_ prefix. With -p, the runs are measured
// concurrently; each waits its turn for the counters.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/hwcounter"
	"golang.org/x/sync/errgroup"
)

var (
	eventsFlag = flag.String("e", "PAPI_TOT_INS,PAPI_TOT_CYC", "comma-separated `events` to count")
	nFlag      = flag.Int("n", 14, "compute fib(`N`)")
	runsFlag   = flag.Int("p", 1, "number of concurrent `runs`")
	verbose    = flag.Bool("v", false, "log counter diagnostics to stderr")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hwcount: ")
	flag.Usage = usage
	flag.Parse()

	switch args := flag.Args(); {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "list":
		list(os.Stdout)
		return
	default:
		flag.Usage()
		os.Exit(2)
	}

	if *verbose {
		hwcounter.Configure(hwcounter.Config{Logging: os.Stderr})
	}
	events, err := parseEvents(*eventsFlag)
	if err != nil {
		log.Fatal(err)
	}
	if *runsFlag < 1 {
		log.Fatalf("-p %d: need at least one run", *runsFlag)
	}
	if !hwcounter.IsInitialized() {
		log.Fatal("hardware counters are not available")
	}
	if err := run(context.Background(), os.Stdout, events, *nFlag, *runsFlag); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "\thwcount [-e events] [-n N] [-p runs] [-v]")
	fmt.Fprintln(w, "\thwcount list (prints all known events)")
	fmt.Fprintln(w, "Flags:")
	flag.CommandLine.PrintDefaults()
}

func list(w io.Writer) {
	for _, e := range hwcounter.Events() {
		fmt.Fprintf(w, "%-14s %s\n", e, e.Description())
	}
}

// parseEvents parses a comma-separated list of event names.
func parseEvents(s string) ([]hwcounter.Event, error) {
	var events []hwcounter.Event
	for _, name := range strings.Split(s, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		e, err := hwcounter.ParseEvent(name)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return nil, errors.New("no events to count")
	}
	return events, nil
}

// A result is one measured computation of fib(n).
type result struct {
	value  int
	counts []int64
}

func run(ctx context.Context, w io.Writer, events []hwcounter.Event, n, runs int) error {
	num, err := hwcounter.NumCounters(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Found %d counters.\n", num)

	results := make([]result, runs)
	g, ctx := errgroup.WithContext(ctx)
	for i := range results {
		g.Go(func() error {
			r := &results[i]
			counts, err := hwcounter.Measure(ctx, events, func() {
				r.value = fib(n)
			})
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			r.counts = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, r := range results {
		prefix := ""
		if runs > 1 {
			prefix = fmt.Sprintf("[%d] ", i)
		}
		report(w, prefix, events, n, r)
	}
	return nil
}

func report(w io.Writer, prefix string, events []hwcounter.Event, n int, r result) {
	ins, cyc := int64(-1), int64(-1)
	for j, e := range events {
		c := r.counts[j]
		switch e {
		case hwcounter.TotIns:
			ins = c
		case hwcounter.TotCyc:
			cyc = c
		}
		fmt.Fprintf(w, "%sComputed fib(%d) = %d in %d %s.\n", prefix, n, r.value, c, unit(e))
	}
	if ins >= 0 && cyc > 0 {
		fmt.Fprintf(w, "%sInstructions per cycle: %.2f\n", prefix, float64(ins)/float64(cyc))
	}
}

func unit(e hwcounter.Event) string {
	switch e {
	case hwcounter.TotIns:
		return "instructions"
	case hwcounter.TotCyc, hwcounter.RefCyc:
		return "cycles"
	}
	return e.String()
}

func fib(n int) int {
	if n < 2 {
		return 1
	}
	return fib(n-1) + fib(n-2)
}
