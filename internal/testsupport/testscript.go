// Package testsupport builds the aiopad binary for script tests and
// provides their custom commands.
package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce  sync.Once
	aiopadPath string
	buildErr   error
)

// BuildAiopad builds the aiopad binary once and returns its path.
func BuildAiopad(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "aiopad-bin-")
		if err != nil {
			buildErr = err
			return
		}

		aiopadPath = filepath.Join(binDir, "aiopad")
		cmd := exec.Command("go", "build", "-o", aiopadPath, "./cmd/aiopad")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build aiopad: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return aiopadPath
}

// SetupScriptEnv points the binary at a private home, data and config
// directory under the script's work dir and pins the clock zone.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("AIOPAD", BuildAiopad(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	for _, dir := range []string{".local/share", ".config/aiopad"} {
		if err := os.MkdirAll(filepath.Join(homeDir, dir), 0o755); err != nil {
			return err
		}
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("XDG_DATA_HOME", filepath.Join(homeDir, ".local", "share"))
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDir, ".config"))
	env.Setenv("AIOPAD_CLOCK_TIMEZONE", "UTC")
	env.Setenv("AIOPAD_SECURITY_BCRYPT_COST", "4")
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdNoteID finds a note by title in `note list --json` output and stores
// its ID in an env var.
func CmdNoteID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("noteid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: noteid FILE TITLE VAR")
	}

	var items []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &items); err != nil {
		ts.Fatalf("parse note list: %v", err)
	}

	for _, item := range items {
		if item.Title == args[1] {
			ts.Setenv(args[2], item.ID)
			return
		}
	}
	ts.Fatalf("note with title %q not found", args[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
