package fluids

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultLibraryLookup(t *testing.T) {
	lib := Default()

	water, err := lib.Lookup("water")
	if err != nil {
		t.Fatalf("Lookup(water) failed: %v", err)
	}
	if water.Density <= 0 || water.Viscosity <= 0 {
		t.Errorf("water has non-physical properties: %+v", water)
	}
	if len(water.AnalyteDiffusivities) == 0 {
		t.Error("water should carry analyte diffusivities")
	}

	def, err := lib.Lookup(DefaultFluid)
	if err != nil {
		t.Fatalf("Lookup(default) failed: %v", err)
	}
	if def.Density != water.Density {
		t.Error("default fluid should alias water")
	}
}

func TestLookupUnknownFluid(t *testing.T) {
	_, err := Default().Lookup("unobtainium")
	if !errors.Is(err, ErrUnknownFluid) {
		t.Fatalf("Lookup(unobtainium) = %v, want ErrUnknownFluid", err)
	}
}

func TestLoadMergesOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fluids.yaml")
	content := []byte(`
ferrofluid:
  density: 1200.0
  viscosity: 0.006
  resistivity: 1.0
water:
  density: 1000.0
  viscosity: 0.001
  resistivity: 182000.0
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ferro, err := lib.Lookup("ferrofluid")
	if err != nil {
		t.Fatalf("Lookup(ferrofluid) failed: %v", err)
	}
	if ferro.Density != 1200.0 {
		t.Errorf("ferrofluid density = %v, want 1200", ferro.Density)
	}

	// Override replaces the built-in entry.
	water, _ := lib.Lookup("water")
	if water.Density != 1000.0 {
		t.Errorf("overridden water density = %v, want 1000", water.Density)
	}

	// Untouched built-ins survive the merge.
	if _, err := lib.Lookup("glycerol"); err != nil {
		t.Errorf("glycerol lost in merge: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of missing file should fail")
	}
}
