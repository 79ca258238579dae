//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// litrec runs the built CLI binary with the given arguments.
func litrec(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Corpus fetches the raw snapshots and builds the corpus database.
func Corpus() error {
	mg.Deps(Build, Init)
	if err := litrec("corpus", "fetch"); err != nil {
		return err
	}
	return litrec("corpus", "build")
}

// Sample draws the benchmark users from the corpus.
func Sample() error {
	mg.Deps(Build)
	return litrec("sample")
}

// Dataset generates candidate pools and NL profiles for the sampled users.
func Dataset() error {
	mg.Deps(Build)
	return litrec("dataset")
}

// Index builds the candidate document index from the dataset.
func Index() error {
	mg.Deps(Build)
	return litrec("index")
}

// Retrieve runs sparse first-stage retrieval over the candidate pools.
func Retrieve() error {
	mg.Deps(Build)
	return litrec("retrieve")
}

// Rerank refines the retrieval run with pairwise LLM judgments.
func Rerank() error {
	mg.Deps(Build)
	return litrec("rerank")
}

// Eval scores the retrieval run against the dataset ground truth.
func Eval() error {
	mg.Deps(Build)
	return litrec("eval")
}
