//go:build mage
// +build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target when running mage without arguments.
var Default = Build

// Build builds the server binary.
func Build() error {
	fmt.Println("Building server...")
	return sh.Run("go", "build", "-o", "bin/server", "./cmd/server")
}

// Test runs all tests with race detection.
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-race", "./...")
}

// Lint runs go vet.
func Lint() error {
	fmt.Println("Running vet...")
	return sh.Run("go", "vet", "./...")
}

// Check runs lint and tests.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build artifacts.
func Clean() error {
	fmt.Println("Cleaning...")
	return sh.Rm("bin")
}
