// Package materials loads the built-in catalog of named dielectric media:
// refractive index at a reference wavelength plus Abbe number for simple
// dispersion. No other package of the module imports it;
// optics.NewDielectric takes a bare refractive index.
package materials

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// medium is the yaml-unmarshalled record for one catalog entry, named
// the way gazed-vu/eg/is.go's brightStar struct is named after its yaml
// fields.
type medium struct {
	Name       string  `yaml:"name"`
	RefNdx     float64 `yaml:"ref_ndx"`
	RefWave    float64 `yaml:"ref_wave_um"`
	AbbeNumber float64 `yaml:"abbe_number"`
}

//go:embed catalog.yaml
var catalogYAML []byte

// Catalog is a name-indexed table of dielectric media.
type Catalog struct {
	byName map[string]medium
}

// DefaultCatalog parses the module's embedded catalog.yaml. It panics on
// malformed embedded data, which would be a build-time defect rather than
// a runtime condition callers need to recover from.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("materials: embedded catalog.yaml is malformed: %v", err))
	}
	return c
}

// LoadCatalog parses a catalog document from raw yaml bytes, for callers
// supplying their own medium list instead of the embedded default.
func LoadCatalog(data []byte) (*Catalog, error) {
	var media []medium
	if err := yaml.Unmarshal(data, &media); err != nil {
		return nil, fmt.Errorf("materials: LoadCatalog: %w", err)
	}
	c := &Catalog{byName: make(map[string]medium, len(media))}
	for _, m := range media {
		c.byName[m.Name] = m
	}
	return c, nil
}

// RefractiveIndex returns the index of refraction of medium name at its
// catalog reference wavelength, and whether name was found.
func (c *Catalog) RefractiveIndex(name string) (n float64, ok bool) {
	m, found := c.byName[name]
	return m.RefNdx, found
}

// AbbeNumber returns the Abbe number of medium name, and whether name was
// found.
func (c *Catalog) AbbeNumber(name string) (v float64, ok bool) {
	m, found := c.byName[name]
	return m.AbbeNumber, found
}

// RefractiveIndexAt approximates the refractive index of medium name at
// wavelength (microns) using a linear Abbe-number correction around the
// catalog's reference wavelength; this is not a full Sellmeier fit, only
// enough dispersion to make wavelength-dependent tests meaningful.
func (c *Catalog) RefractiveIndexAt(name string, wavelengthUm float64) (n float64, ok bool) {
	m, found := c.byName[name]
	if !found {
		return 0, false
	}
	if m.AbbeNumber == 0 {
		return m.RefNdx, true
	}
	dn := (m.RefNdx - 1) / m.AbbeNumber
	delta := wavelengthUm - m.RefWave
	return m.RefNdx - dn*delta, true
}

// Names returns the catalog's medium names, unordered.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	return names
}
