/*
Package tmtest runs a real tendermint node, and optionally the
covaultd binary, as subprocesses for end to end tests. Tests using it
skip when the binaries are not installed, unless FORCE_TM_TEST=1 is
set to make the absence a failure (as on CI).
*/
package tmtest

import (
	"context"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/covault/covault/covtest/assert"
)

// TestReporter is the subset of testing.TB these helpers need
type TestReporter interface {
	assert.Tester
	Skipf(string, ...interface{})
	Logf(string, ...interface{})
}

// RunTendermint starts a tendermint node on the given home directory.
// The returned cleanup function stops the process and blocks until it
// is gone; it also runs automatically when the context is cancelled.
//
// Set TM_DEBUG=1 to pass the process output through to stderr.
func RunTendermint(ctx context.Context, t TestReporter, home string) (cleanup func()) {
	t.Helper()
	return runBinary(ctx, t, "tendermint", []string{"node", "--home", home})
}

// RunApp starts the application binary against a prepared home
// directory, with the same skip and cleanup behavior as RunTendermint
func RunApp(ctx context.Context, t TestReporter, appName string, home string) (cleanup func()) {
	t.Helper()
	return runBinary(ctx, t, appName, []string{"-home", home, "start"})
}

func runBinary(ctx context.Context, t TestReporter, name string, args []string) (cleanup func()) {
	path, err := exec.LookPath(name)
	if err != nil {
		if os.Getenv("FORCE_TM_TEST") == "1" {
			t.Fatalf("%s binary not found. Unset FORCE_TM_TEST to skip this test.", name)
		} else {
			t.Skipf("%s binary not found. Set FORCE_TM_TEST=1 to fail this test.", name)
		}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if os.Getenv("TM_DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("%s process failed: %s", name, err)
	}

	// give the process time to bind its ports and settle
	time.Sleep(2 * time.Second)
	t.Logf("Running %s pid=%d", path, cmd.Process.Pid)

	done := make(chan struct{})
	var once sync.Once
	cleanup = func() {
		once.Do(func() {
			t.Logf("%s cleanup called", name)
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			close(done)
		})
		// block until the process is gone, also for late callers
		<-done
	}

	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()

	return cleanup
}

// SetupConfig creates a temporary home directory and seeds it with
// the config and data directories from sourceDir. Such a source tree
// can be produced once with "tendermint init" and checked in under
// testdata. The second return value removes the directory again.
func SetupConfig(t assert.Tester, sourceDir string) (string, func()) {
	rootDir, err := ioutil.TempDir("", "covault-tmtest")
	assert.Nil(t, err)
	cleanup := func() { os.RemoveAll(rootDir) }

	for _, sub := range []string{"config", "data"} {
		if err := copyDir(sourceDir, rootDir, sub); err != nil {
			cleanup()
			t.Fatalf("Cannot copy %s files: %+v", sub, err)
		}
	}
	return rootDir, cleanup
}

// copyDir copies the regular files of one subdirectory, without
// recursing further
func copyDir(sourceDir, rootDir, subDir string) error {
	outDir := filepath.Join(rootDir, subDir)
	if err := os.Mkdir(outDir, 0755); err != nil {
		return err
	}

	inDir := filepath.Join(sourceDir, subDir)
	files, err := ioutil.ReadDir(inDir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		input := filepath.Join(inDir, f.Name())
		output := filepath.Join(outDir, f.Name())
		if err := copyFile(input, output, f.Mode()); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(input, output string, mode os.FileMode) error {
	from, err := os.Open(input)
	if err != nil {
		return err
	}
	defer from.Close()

	to, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE, mode)
	if err != nil {
		return err
	}
	defer to.Close()

	_, err = io.Copy(to, from)
	return err
}
