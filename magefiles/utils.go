//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	semver "github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

var LocalBin = filepath.Join(os.Getenv("PWD"), "/bin")

func binaryWithExt(name string) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("%s.exe", name)
	}
	return name
}

func makeLocalBin() error {
	return os.MkdirAll(LocalBin, os.ModePerm)
}

// checkVersion fails if the version reported by versionFn does not satisfy constraintStr.
func checkVersion(versionFn func() (*semver.Version, error), constraintStr string) error {
	version, err := versionFn()
	if err != nil {
		return errors.Errorf("error getting version: %v", err)
	}
	constraint, err := semver.NewConstraint(constraintStr)
	if err != nil {
		return errors.Errorf("error parsing constraint: %v", err)
	}
	if !constraint.Check(version) {
		return errors.Errorf("found version %v but it failed constraint %v", version, constraint)
	}
	return nil
}
