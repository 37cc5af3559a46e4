package files

import (
	"path/filepath"
	"testing"
)

func TestResolveBasePathHonorsTuduHome(t *testing.T) {
	tmp := t.TempDir()
	custom := filepath.Join(tmp, "custom-root")

	t.Setenv(HomeEnv, custom)

	got, err := ResolveBasePath()
	if err != nil {
		t.Fatalf("ResolveBasePath() error = %v", err)
	}
	if got != custom {
		t.Fatalf("ResolveBasePath() = %q, want %q", got, custom)
	}
}

func TestResolveBasePathExpandsTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(HomeEnv, "~/tudu-data")

	got, err := ResolveBasePath()
	if err != nil {
		t.Fatalf("ResolveBasePath() error = %v", err)
	}

	want := filepath.Join(home, "tudu-data")
	if got != want {
		t.Fatalf("ResolveBasePath() = %q, want %q", got, want)
	}
}

func TestResolveBasePathDefaultsToHomeDotTudu(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(HomeEnv, "  ")

	got, err := ResolveBasePath()
	if err != nil {
		t.Fatalf("ResolveBasePath() error = %v", err)
	}

	want := filepath.Join(home, DefaultDirName)
	if got != want {
		t.Fatalf("ResolveBasePath() = %q, want %q", got, want)
	}
}

func TestExpandHomeLeavesOtherPathsAlone(t *testing.T) {
	got, err := ExpandHome("/var/lib/tudu")
	if err != nil {
		t.Fatalf("ExpandHome() error = %v", err)
	}
	if got != "/var/lib/tudu" {
		t.Fatalf("ExpandHome() = %q, want unchanged", got)
	}
}
