// Package fluids resolves bulk and analyte transport properties for the
// working fluids of a microfluidic circuit. Ports reference fluids by name
// so circuit descriptions carry "water" instead of half a dozen physical
// constants. The built-in table covers the common carrier fluids; project
// specific fluids can be layered in from a YAML file.
package fluids

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFluid indicates a lookup for a fluid name not present in the
// library.
var ErrUnknownFluid = errors.New("fluids: unknown fluid")

// DefaultFluid is the name resolved when a port does not specify a fluid.
const DefaultFluid = "default"

// Properties holds the bulk and per-analyte properties of one fluid.
// Units: density kg/m^3, viscosity Pa*s, resistivity ohm*m, diffusivity
// m^2/s, concentration mol/m^3, radius m, charge in elementary charges.
type Properties struct {
	Density     float64 `yaml:"density"`
	Viscosity   float64 `yaml:"viscosity"`
	Resistivity float64 `yaml:"resistivity"`

	AnalyteDiffusivities         map[string]float64 `yaml:"analyte_diffusivities"`
	AnalyteInitialConcentrations map[string]float64 `yaml:"analyte_initial_concentrations"`
	AnalyteRadii                 map[string]float64 `yaml:"analyte_radii"`
	AnalyteCharges               map[string]float64 `yaml:"analyte_charges"`
}

// Library maps fluid names to their properties.
type Library struct {
	fluids map[string]Properties
}

// Default returns a library seeded with the built-in fluid table.
func Default() *Library {
	water := Properties{
		Density:     997.0,
		Viscosity:   8.9e-4,
		Resistivity: 1.82e5,
		AnalyteDiffusivities: map[string]float64{
			"fluorescein": 4.25e-10,
			"glucose":     6.7e-10,
		},
		AnalyteInitialConcentrations: map[string]float64{
			"fluorescein": 1.0e-3,
			"glucose":     5.0,
		},
		AnalyteRadii: map[string]float64{
			"fluorescein": 5.02e-10,
			"glucose":     3.6e-10,
		},
		AnalyteCharges: map[string]float64{
			"fluorescein": -2,
			"glucose":     0,
		},
	}
	return &Library{fluids: map[string]Properties{
		DefaultFluid: water,
		"water":      water,
		"mineraloil": {
			Density:     838.0,
			Viscosity:   2.47e-2,
			Resistivity: 1.0e13,
		},
		"glycerol": {
			Density:     1261.0,
			Viscosity:   1.412,
			Resistivity: 6.4e5,
		},
	}}
}

// Load reads fluid definitions from YAML and merges them over the built-in
// table, so a project file only needs to list the fluids it adds or
// overrides.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fluids: read %s: %w", path, err)
	}
	lib := Default()
	extra := make(map[string]Properties)
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("fluids: parse %s: %w", path, err)
	}
	for name, props := range extra {
		lib.fluids[name] = props
	}
	return lib, nil
}

// Lookup resolves a fluid by name.
func (l *Library) Lookup(name string) (Properties, error) {
	props, ok := l.fluids[name]
	if !ok {
		return Properties{}, fmt.Errorf("%w: %q", ErrUnknownFluid, name)
	}
	return props, nil
}

// Names returns the set of known fluid names.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.fluids))
	for name := range l.fluids {
		names = append(names, name)
	}
	return names
}
