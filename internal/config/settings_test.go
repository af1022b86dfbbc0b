package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gorewood/backstitch/internal/output"
)

// setupLayers points the global config dir at a temp directory and clears
// every BACKSTITCH_* override so tests control all three layers.
func setupLayers(t *testing.T) (globalDir, repoDir string) {
	t.Helper()
	globalDir = t.TempDir()
	repoDir = t.TempDir()
	t.Setenv("BACKSTITCH_CONFIG_HOME", globalDir)
	for _, key := range []string{
		"BACKSTITCH_DIRECTION", "BACKSTITCH_LENIENT", "BACKSTITCH_SILENT",
		"BACKSTITCH_THROTTLE", "BACKSTITCH_MESSAGE",
	} {
		t.Setenv(key, "")
	}
	return globalDir, repoDir
}

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoad_NoFiles(t *testing.T) {
	_, repoDir := setupLayers(t)

	s, err := Load(repoDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Direction != "" || s.Lenient != nil || s.Throttle != "" {
		t.Errorf("Settings = %+v, want zero values", s)
	}
}

func TestLoad_GlobalFile(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "direction: \"-\"\nlenient: true\nthrottle: 500ms\n")

	s, err := Load(repoDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Direction != "-" {
		t.Errorf("Direction = %q, want -", s.Direction)
	}
	if s.Lenient == nil || !*s.Lenient {
		t.Error("Lenient should be true")
	}
	if s.Throttle != "500ms" {
		t.Errorf("Throttle = %q, want 500ms", s.Throttle)
	}
}

func TestLoad_RepoFileOverridesGlobal(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "direction: \"-\"\nmessage: global subject\n")
	writeConfig(t, repoDir, RepoFileName, "direction: \"+\"\n")

	s, err := Load(repoDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Direction != "+" {
		t.Errorf("Direction = %q, want repo-local +", s.Direction)
	}
	// Fields the repo file does not mention survive from the global layer.
	if s.Message != "global subject" {
		t.Errorf("Message = %q, want global subject", s.Message)
	}
}

func TestLoad_ExplicitFalseOverridesTrue(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "lenient: true\n")
	writeConfig(t, repoDir, RepoFileName, "lenient: false\n")

	s, err := Load(repoDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Lenient == nil || *s.Lenient {
		t.Error("repo-local lenient: false should override global true")
	}
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "direction: \"-\"\n")
	t.Setenv("BACKSTITCH_DIRECTION", "+")
	t.Setenv("BACKSTITCH_LENIENT", "true")

	s, err := Load(repoDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Direction != "+" {
		t.Errorf("Direction = %q, want env +", s.Direction)
	}
	if s.Lenient == nil || !*s.Lenient {
		t.Error("Lenient should come from the environment")
	}
}

func TestLoad_BadEnvBool(t *testing.T) {
	_, repoDir := setupLayers(t)
	t.Setenv("BACKSTITCH_LENIENT", "definitely")

	_, err := Load(repoDir)
	if err == nil {
		t.Fatal("Load() succeeded with bad boolean, want error")
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "directon: \"+\"\n") // typo

	if _, err := Load(repoDir); err == nil {
		t.Fatal("Load() succeeded with unknown field, want error")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	globalDir, repoDir := setupLayers(t)
	writeConfig(t, globalDir, "config.yaml", "")

	if _, err := Load(repoDir); err != nil {
		t.Fatalf("Load() error = %v on empty file", err)
	}
}
