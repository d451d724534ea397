//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/pkg/errors"
)

const loadgenPackage = "./cmd/loadgen"

// Build compiles the loadgen binary into ./bin.
func Build() error {
	mg.Deps(goCheck, makeLocalBin)
	env := map[string]string{"CGO_ENABLED": "0"}
	return sh.RunWith(env, "go", "build", "-o", filepath.Join(LocalBin, binaryWithExt("loadgen")), loadgenPackage)
}

// Check dependent tools are present and the correct version.
func CheckDeps() error {
	checks := []struct {
		name  string
		check func() error
	}{
		{"go", goCheck},
		{"docker", dockerCheck},
		{"golangci-lint", golangciLintCheck},
	}
	failures := false
	for _, check := range checks {
		fmt.Printf("Checking %s... ", check.name)
		if err := check.check(); err != nil {
			fmt.Printf("FAILED\nReason: %v\n", err)
			failures = true
		} else {
			fmt.Println("PASSED")
		}
	}
	if failures {
		return errors.New("one or more dependency checks failed")
	}
	return nil
}

// Clean removes build outputs and test reports.
func Clean() error {
	for _, dir := range []string{LocalBin, "test_reports"} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
