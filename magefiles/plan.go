package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleInputs = "samples/slidely.yaml"

// Sample builds the CLI and prints a text plan for the bundled sample company.
func Sample() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName),
		"generate", "--inputs", sampleInputs, "--week", "2025-01-06", "--format", "text")
}

// Save generates the sample plan for the given week (YYYY-MM-DD) and stores it
// in the local SQLite database, using earlier stored weeks as recency history.
func Save(week string) error {
	mg.Deps(Build, Init)
	if err := sh.RunV(filepath.Join(binDir, binName),
		"generate", "--inputs", sampleInputs, "--week", week, "--history", "--save", "--format", "text"); err != nil {
		return err
	}
	fmt.Println("Saved. Run `content-planner plan list --company slidely` to see stored weeks.")
	return nil
}
