package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const modulePath = "critter-clash/server"

type packageInfo struct {
	ImportPath string
	Imports    []string
}

// domainPackages hold game rules and must stay free of transport and
// process wiring.
var domainPackages = []string{
	modulePath + "/internal/battle",
	modulePath + "/internal/clock",
	modulePath + "/internal/creature",
	modulePath + "/internal/match",
	modulePath + "/internal/session",
	modulePath + "/internal/shop",
	modulePath + "/internal/world",
}

var forbiddenPrefixes = []string{
	modulePath + "/internal/net",
	modulePath + "/internal/app",
	"github.com/gorilla/websocket",
	"github.com/go-chi/chi",
}

func main() {
	args := append([]string{"list", "-json"}, domainPatterns()...)
	cmd := exec.Command("go", args...)
	cmd.Env = os.Environ()
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Stderr.Write(exitErr.Stderr)
		}
		fmt.Fprintf(os.Stderr, "depscheck: failed to list packages: %v\n", err)
		os.Exit(1)
	}

	violations, err := findViolations(bytes.NewReader(output))
	if err != nil {
		fmt.Fprintf(os.Stderr, "depscheck: failed to decode package info: %v\n", err)
		os.Exit(1)
	}

	if len(violations) > 0 {
		fmt.Fprintln(os.Stderr, "depscheck: found forbidden imports:")
		for _, violation := range violations {
			fmt.Fprintf(os.Stderr, "  %s\n", violation)
		}
		os.Exit(1)
	}
}

func domainPatterns() []string {
	patterns := make([]string, 0, len(domainPackages))
	for _, pkg := range domainPackages {
		patterns = append(patterns, pkg+"/...")
	}
	return patterns
}

func findViolations(r io.Reader) ([]string, error) {
	decoder := json.NewDecoder(r)

	var violations []string
	for {
		var pkg packageInfo
		if err := decoder.Decode(&pkg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		for _, imp := range pkg.Imports {
			if imp == modulePath || forbidden(imp) {
				violations = append(violations, fmt.Sprintf("%s -> %s", pkg.ImportPath, imp))
			}
		}
	}
	sort.Strings(violations)
	return violations, nil
}

func forbidden(imp string) bool {
	for _, prefix := range forbiddenPrefixes {
		if strings.HasPrefix(imp, prefix) {
			return true
		}
	}
	return false
}
