package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	t.Parallel()
	got := Modes()
	if !slices.IsSorted(got) {
		t.Errorf("Modes() = %v, want sorted", got)
	}
	for _, want := range []string{"cpu", "mem", "trace"} {
		if !slices.Contains(got, want) {
			t.Errorf("Modes() = %v, missing %q", got, want)
		}
	}
}

func TestStart_Disabled(t *testing.T) {
	t.Parallel()
	s, err := Start("", "")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	t.Parallel()
	if _, err := Start("gpu", ""); err == nil {
		t.Error("Start(gpu) should fail")
	}
}

func TestStart_WritesProfile(t *testing.T) {
	dir := t.TempDir()
	s, err := Start("mem", dir)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()

	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
