package lca

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedSchemaConstraint is the range of table schema versions this build reads.
const SupportedSchemaConstraint = "^1.0.0"

//go:embed tables.yaml
var defaultTablesYAML []byte

// EmissionFactor is the per-(metal, route) reference entry.
type EmissionFactor struct {
	CO2PerKg          float64 `yaml:"co2_per_kg" json:"co2_per_kg"`
	EnergyUse         float64 `yaml:"energy_use" json:"energy_use"`                 // default kWh/kg
	TransportDistance float64 `yaml:"transport_distance" json:"transport_distance"` // default km
	WaterUsage        float64 `yaml:"water_usage" json:"water_usage"`               // L/kg
}

// MetalEntry holds the reference data for one metal.
type MetalEntry struct {
	MaterialPurity float64        `yaml:"material_purity" json:"material_purity"`
	Raw            EmissionFactor `yaml:"raw" json:"raw"`
	Recycled       EmissionFactor `yaml:"recycled" json:"recycled"`
}

// RouteProfile holds the per-route process parameters and circularity indicators.
type RouteProfile struct {
	ProcessEfficiency     float64 `yaml:"process_efficiency" json:"process_efficiency"`
	WasteRate             float64 `yaml:"waste_rate" json:"waste_rate"`
	RecycledContent       float64 `yaml:"recycled_content" json:"recycled_content"`
	ReusePotential        float64 `yaml:"reuse_potential" json:"reuse_potential"`
	ReusePotentialOnReuse float64 `yaml:"reuse_potential_on_reuse" json:"reuse_potential_on_reuse"`
}

// Conversion holds the emission conversion constants.
type Conversion struct {
	EnergyKgCO2ePerKWh   float64 `yaml:"energy_kg_co2e_per_kwh" json:"energy_kg_co2e_per_kwh"`
	TransportKgCO2ePerKm float64 `yaml:"transport_kg_co2e_per_km" json:"transport_kg_co2e_per_km"`
	EndOfLifeScale       float64 `yaml:"end_of_life_scale" json:"end_of_life_scale"`
}

// CircularScaling adjusts the caller's energy and transport figures for the
// circular pathway.
type CircularScaling struct {
	EnergyScale    float64 `yaml:"energy_scale" json:"energy_scale"`
	TransportScale float64 `yaml:"transport_scale" json:"transport_scale"`
}

// TableSet is the serialized form of the reference tables.
type TableSet struct {
	SchemaVersion     string                 `yaml:"schema_version" json:"schema_version"`
	Conversion        Conversion             `yaml:"conversion" json:"conversion"`
	Circular          CircularScaling        `yaml:"circular" json:"circular"`
	EndOfLife         map[EndOfLife]float64  `yaml:"end_of_life" json:"end_of_life"`
	Routes            map[Route]RouteProfile `yaml:"routes" json:"routes"`
	MaxMaterialPurity float64                `yaml:"max_material_purity" json:"max_material_purity"`
	Metals            map[Metal]MetalEntry   `yaml:"metals" json:"metals"`
}

// Tables is the validated, read-only reference data shared by the Estimator
// and the Calculator. A Tables value is never modified after construction;
// accessors return copies.
type Tables struct {
	set TableSet
}

// DefaultTables returns the embedded industry-average tables.
// They are parsed once per process.
//
//nolint:gochecknoglobals // Parse-once accessor for embedded constant data.
var DefaultTables = sync.OnceValues(func() (*Tables, error) {
	return ParseTables(defaultTablesYAML)
})

// LoadTables reads and validates a tables file. An empty path returns the
// embedded defaults.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file %s: %w", path, err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("loading tables file %s: %w", path, err)
	}
	return t, nil
}

// ParseTables decodes YAML table data and validates it.
func ParseTables(data []byte) (*Tables, error) {
	var set TableSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}
	return NewTables(set)
}

// NewTables validates set and returns an immutable Tables built from a copy of it.
func NewTables(set TableSet) (*Tables, error) {
	if err := validateTableSet(set); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTables, err)
	}
	return &Tables{set: copyTableSet(set)}, nil
}

// SchemaVersion returns the schema version the tables were written against.
func (t *Tables) SchemaVersion() string {
	return t.set.SchemaVersion
}

// Factor returns the emission factor entry for a metal and route.
func (t *Tables) Factor(metal Metal, route Route) (EmissionFactor, error) {
	entry, ok := t.set.Metals[metal]
	if !ok {
		return EmissionFactor{}, &ValidationError{Field: FieldMetal, Value: string(metal), Err: ErrUnknownMetal}
	}
	switch route {
	case RouteRaw:
		return entry.Raw, nil
	case RouteRecycled:
		return entry.Recycled, nil
	default:
		return EmissionFactor{}, &ValidationError{Field: FieldProductionRoute, Value: string(route), Err: ErrUnknownRoute}
	}
}

// MaterialPurity returns the base material purity for a metal.
func (t *Tables) MaterialPurity(metal Metal) (float64, error) {
	entry, ok := t.set.Metals[metal]
	if !ok {
		return 0, &ValidationError{Field: FieldMetal, Value: string(metal), Err: ErrUnknownMetal}
	}
	return entry.MaterialPurity, nil
}

// MaxMaterialPurity returns the cap applied to estimated purity.
func (t *Tables) MaxMaterialPurity() float64 {
	return t.set.MaxMaterialPurity
}

// Route returns the profile for a production route.
func (t *Tables) Route(route Route) (RouteProfile, error) {
	p, ok := t.set.Routes[route]
	if !ok {
		return RouteProfile{}, &ValidationError{Field: FieldProductionRoute, Value: string(route), Err: ErrUnknownRoute}
	}
	return p, nil
}

// EndOfLifeFactor returns the end-of-life multiplier for an option.
func (t *Tables) EndOfLifeFactor(eol EndOfLife) (float64, error) {
	f, ok := t.set.EndOfLife[eol]
	if !ok {
		return 0, &ValidationError{Field: FieldEndOfLife, Value: string(eol), Err: ErrUnknownEndOfLife}
	}
	return f, nil
}

// Conversion returns the emission conversion constants.
func (t *Tables) Conversion() Conversion {
	return t.set.Conversion
}

// Circular returns the circular pathway scaling.
func (t *Tables) Circular() CircularScaling {
	return t.set.Circular
}

// Snapshot returns a deep copy of the underlying table set for display.
func (t *Tables) Snapshot() TableSet {
	return copyTableSet(t.set)
}

func copyTableSet(set TableSet) TableSet {
	out := set
	out.EndOfLife = make(map[EndOfLife]float64, len(set.EndOfLife))
	for k, v := range set.EndOfLife {
		out.EndOfLife[k] = v
	}
	out.Routes = make(map[Route]RouteProfile, len(set.Routes))
	for k, v := range set.Routes {
		out.Routes[k] = v
	}
	out.Metals = make(map[Metal]MetalEntry, len(set.Metals))
	for k, v := range set.Metals {
		out.Metals[k] = v
	}
	return out
}

// validateTableSet checks the schema version, coverage of every enum value,
// and the numeric ranges of every entry.
//
//nolint:gocognit // Flat list of independent checks.
func validateTableSet(set TableSet) error {
	if set.SchemaVersion == "" {
		return errors.New("schema_version is required")
	}
	v, err := semver.NewVersion(set.SchemaVersion)
	if err != nil {
		return fmt.Errorf("schema_version %q: %w", set.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(SupportedSchemaConstraint)
	if err != nil {
		return fmt.Errorf("schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("schema_version %s does not satisfy %s", v, SupportedSchemaConstraint)
	}

	if err = checkNonNegative("conversion.energy_kg_co2e_per_kwh", set.Conversion.EnergyKgCO2ePerKWh); err != nil {
		return err
	}
	if err = checkNonNegative("conversion.transport_kg_co2e_per_km", set.Conversion.TransportKgCO2ePerKm); err != nil {
		return err
	}
	if err = checkNonNegative("conversion.end_of_life_scale", set.Conversion.EndOfLifeScale); err != nil {
		return err
	}
	if err = checkNonNegative("circular.energy_scale", set.Circular.EnergyScale); err != nil {
		return err
	}
	if err = checkNonNegative("circular.transport_scale", set.Circular.TransportScale); err != nil {
		return err
	}
	if err = checkFraction("max_material_purity", set.MaxMaterialPurity); err != nil {
		return err
	}

	for _, eol := range EndOfLifeOptions() {
		f, ok := set.EndOfLife[eol]
		if !ok {
			return fmt.Errorf("end_of_life.%s is missing", eol)
		}
		if err = checkNonNegative("end_of_life."+string(eol), f); err != nil {
			return err
		}
	}

	for _, route := range Routes() {
		p, ok := set.Routes[route]
		if !ok {
			return fmt.Errorf("routes.%s is missing", route)
		}
		prefix := "routes." + string(route) + "."
		if err = checkFraction(prefix+"process_efficiency", p.ProcessEfficiency); err != nil {
			return err
		}
		if err = checkFraction(prefix+"waste_rate", p.WasteRate); err != nil {
			return err
		}
		for name, pct := range map[string]float64{
			"recycled_content":         p.RecycledContent,
			"reuse_potential":          p.ReusePotential,
			"reuse_potential_on_reuse": p.ReusePotentialOnReuse,
		} {
			if err = checkPercent(prefix+name, pct); err != nil {
				return err
			}
		}
	}
	raw, recycled := set.Routes[RouteRaw], set.Routes[RouteRecycled]
	if recycled.RecycledContent < raw.RecycledContent {
		return errors.New("routes.recycled.recycled_content must be >= routes.raw.recycled_content")
	}

	for _, metal := range Metals() {
		entry, ok := set.Metals[metal]
		if !ok {
			return fmt.Errorf("metals.%s is missing", metal)
		}
		prefix := "metals." + string(metal) + "."
		if err = checkFraction(prefix+"material_purity", entry.MaterialPurity); err != nil {
			return err
		}
		for route, f := range map[Route]EmissionFactor{RouteRaw: entry.Raw, RouteRecycled: entry.Recycled} {
			rp := prefix + string(route) + "."
			if err = checkNonNegative(rp+"co2_per_kg", f.CO2PerKg); err != nil {
				return err
			}
			if err = checkNonNegative(rp+"energy_use", f.EnergyUse); err != nil {
				return err
			}
			if err = checkNonNegative(rp+"transport_distance", f.TransportDistance); err != nil {
				return err
			}
			if err = checkNonNegative(rp+"water_usage", f.WaterUsage); err != nil {
				return err
			}
		}
	}

	return nil
}

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: %w", name, ErrNonFiniteValue)
	}
	if v < 0 {
		return fmt.Errorf("%s: %w", name, ErrNegativeValue)
	}
	return nil
}

func checkFraction(name string, v float64) error {
	if err := checkNonNegative(name, v); err != nil {
		return err
	}
	if v > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %g", name, v)
	}
	return nil
}

func checkPercent(name string, v float64) error {
	if err := checkNonNegative(name, v); err != nil {
		return err
	}
	if v > percentMax {
		return fmt.Errorf("%s must be between 0 and 100, got %g", name, v)
	}
	return nil
}
