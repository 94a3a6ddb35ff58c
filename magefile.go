//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "hebrewtrainer"

var Default = Build

// Build compiles the hebrewtrainer binary
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, "./cmd/"+binary)
}

// Test runs all unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install copies the binary to $GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	target := filepath.Join(gopath, "bin", binary)
	fmt.Println("Installing to", target)
	return sh.Copy(target, binary)
}

// Clean removes the built binary
func Clean() error {
	return os.RemoveAll(binary)
}
