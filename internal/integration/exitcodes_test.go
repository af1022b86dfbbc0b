//go:build integration

package integration

import "testing"

// TestExitCode_Success covers code 0: a completed run and a pure resolve.
func TestExitCode_Success(t *testing.T) {
	repo := newTestRepo(t)

	_, _, code := repo.backstitch("apply", "--json", "--throttle", "0", "2024-03-01")
	if code != 0 {
		t.Errorf("apply exit code = %d, want 0", code)
	}
	_, _, code = repo.backstitch("resolve", "--json", "2024-03-01", "3")
	if code != 0 {
		t.Errorf("resolve exit code = %d, want 0", code)
	}
}

// TestExitCode_UserError covers code 1: malformed input never reaches git.
func TestExitCode_UserError(t *testing.T) {
	repo := newTestRepo(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "malformed token", args: []string{"apply", "--json", "banana"}},
		{name: "leading offset", args: []string{"apply", "--json", "3"}},
		{name: "out of range", args: []string{"apply", "--json", "1969-06-01"}},
		{name: "bad direction", args: []string{"resolve", "--json", "--direction", "x", "2024-03-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := repo.backstitch(tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1\nstdout: %s\nstderr: %s", code, stdout, stderr)
			}
			result := repo.decode(stdout)
			if result["code"] != float64(1) {
				t.Errorf("JSON code = %v, want 1", result["code"])
			}
		})
	}

	if count := repo.git("rev-list", "--count", "HEAD"); count != "1" {
		t.Errorf("commit count = %s, want 1 (rejected input must not commit)", count)
	}
}

// TestExitCode_SystemError covers code 2: git missing from PATH blocks
// everything.
func TestExitCode_SystemError(t *testing.T) {
	repo := newTestRepo(t)

	env := append(hermeticEnv(), "PATH="+t.TempDir())

	stdout, _, code := repo.backstitchEnv(env, "status", "--json")
	if code != 2 {
		t.Errorf("status exit code = %d, want 2", code)
	}
	result := repo.decode(stdout)
	if result["code"] != float64(2) {
		t.Errorf("JSON code = %v, want 2", result["code"])
	}

	_, _, code = repo.backstitchEnv(env, "apply", "--json", "2024-03-01")
	if code != 2 {
		t.Errorf("apply exit code = %d, want 2", code)
	}
}

// TestExitCode_Conflict covers code 3: a dirty work tree without a cleanse
// policy stops the run.
func TestExitCode_Conflict(t *testing.T) {
	repo := newTestRepo(t)
	repo.createFile("uncommitted.txt", "dirty\n")

	stdout, _, code := repo.backstitch("apply", "--json", "2024-03-01")
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	result := repo.decode(stdout)
	if result["code"] != float64(3) {
		t.Errorf("JSON code = %v, want 3", result["code"])
	}

	// The same tree with the cleanse policy succeeds.
	_, _, code = repo.backstitch("apply", "--json", "--throttle", "0", "--cleanse", "2024-03-01")
	if code != 0 {
		t.Errorf("cleanse exit code = %d, want 0", code)
	}
}
