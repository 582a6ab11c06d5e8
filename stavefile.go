//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gomdrender"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Unit,
	"f":   Test.Fuzz,
	"l":   Lint.Run,
	"c":   Check,
	"cmp": Bench.Compare,
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	Bench st.Namespace
)

// Build compiles bin/gomdrender when its sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gomdrender")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Run, Test.Unit)
}

// Gate is the CI entry point. It never rewrites files.
func Gate() error {
	unformatted, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if unformatted != "" {
		return fmt.Errorf("gofmt needed on:\n%s", unformatted)
	}
	st.SerialDeps(Lint.Vet, Lint.Run, Build, Test.Unit)
	// -diff exits non-zero when go.mod or go.sum would change.
	return sh.RunV("go", "mod", "tidy", "-diff")
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Unit runs the test suite under the race detector through gotestsum.
func (Test) Unit() error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", "pkgname-and-test-fails", "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "./...")
}

// Fuzz gives each fuzz target FUZZ_TIME (default 10s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZ_TIME"), "10s")
	for pkg, name := range map[string]string{
		"./pkg/parser":        "FuzzParse",
		"./pkg/parser/inline": "FuzzTokenize",
		"./pkg/render/html":   "FuzzRender",
		"./pkg/fsutil":        "FuzzWriteAtomic",
	} {
		fmt.Printf("fuzz %s %s\n", pkg, name)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+name+"$", "-fuzztime", fuzzTime, pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", name, err)
		}
	}
	return nil
}

// Run runs golangci-lint, fixing what it can unless CI is set.
func (Lint) Run() error {
	args := []string{"run", "./..."}
	if os.Getenv("CI") == "" {
		args = append(args, "--fix")
	}
	return sh.RunV("golangci-lint", args...)
}

// Fmt rewrites Go files with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Compare benchmarks the renderer against goldmark on the same corpus.
// BENCH_RUNS sets -count (default 5).
func (Bench) Compare() error {
	return sh.RunV("go", "test", "-run=^$",
		"-bench=Render$|GoldmarkGFM$", "-benchmem",
		"-count", cmp.Or(os.Getenv("BENCH_RUNS"), "5"),
		"./pkg/render/html")
}

func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
