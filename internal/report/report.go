package report

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/metallca/internal/greenops"
	"github.com/rshade/metallca/internal/lca"
)

const (
	idPrefix    = "lca_report_"
	ulidLength  = 26
	defaultMass = 1.0
	defaultUnit = "kg"
)

// Field names reported by ValidateMass.
const (
	FieldMass     = "mass"
	FieldMassUnit = "mass_unit"
)

// Report errors.
var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidID     = errors.New("invalid report id")
	ErrNilAssessment = errors.New("assessment is required")
)

//nolint:gochecknoglobals // Compiled once, read-only.
var idPattern = regexp.MustCompile(`^lca_report_[a-z]+_[a-z]+_[0-9A-HJKMNP-TV-Z]{26}$`)

// Report is a saved assessment with everything needed to present it.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Mass     float64 `json:"mass"`
	MassUnit string  `json:"mass_unit"`

	Assessment      lca.Assessment             `json:"assessment"`
	Recommendations []string                   `json:"recommendations"`
	Equivalency     greenops.EquivalencyOutput `json:"equivalency"`
}

// Summary is the list view of a Report.
type Summary struct {
	ID                  string    `json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	Metal               lca.Metal `json:"metal"`
	ProductionRoute     lca.Route `json:"production_route"`
	CO2ReductionPercent float64   `json:"co2_reduction_percent"`
}

// Option customizes New.
type Option func(*options)

type options struct {
	mass float64
	unit string
	now  func() time.Time
}

// WithMass sets the production quantity used for savings equivalencies.
// The default is 1 kg.
func WithMass(mass float64, unit string) Option {
	return func(o *options) {
		o.mass = mass
		o.unit = unit
	}
}

// WithClock overrides the creation time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewID returns a report ID for an assessment of metal produced by route.
func NewID(metal lca.Metal, route lca.Route) string {
	return fmt.Sprintf("%s%s_%s_%s", idPrefix, metal, route, ulid.Make())
}

// ValidateID rejects anything that is not a well-formed report ID, which
// also keeps IDs from escaping the store directory.
func ValidateID(id string) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// ValidateMass checks a production quantity and its unit before any work is
// done with them. An empty unit means kg.
func ValidateMass(mass float64, unit string) error {
	_, err := greenops.MassToKg(mass, unit)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, greenops.ErrInvalidUnit):
		return &lca.ValidationError{Field: FieldMassUnit, Value: unit, Err: err}
	default:
		return &lca.ValidationError{Field: FieldMass, Value: strconv.FormatFloat(mass, 'g', -1, 64), Err: err}
	}
}

// New builds a report for a. An empty id generates one with NewID.
func New(a *lca.Assessment, id string, opts ...Option) (*Report, error) {
	if a == nil {
		return nil, ErrNilAssessment
	}

	o := options{mass: defaultMass, unit: defaultUnit, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if id == "" {
		id = NewID(a.Enhanced.Metal, a.Enhanced.ProductionRoute)
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	if err := ValidateMass(o.mass, o.unit); err != nil {
		return nil, err
	}

	saving := a.Results.Conventional.CO2Equivalent - a.Results.Circular.CO2Equivalent
	equivalency, err := greenops.CalculateSavings(greenops.SavingsInput{
		PerKgCO2e: saving,
		Mass:      o.mass,
		MassUnit:  o.unit,
	})
	if err != nil {
		return nil, fmt.Errorf("calculating savings equivalencies: %w", err)
	}

	unit := o.unit
	if unit == "" {
		unit = defaultUnit
	}

	return &Report{
		ID:              id,
		CreatedAt:       o.now().UTC(),
		Mass:            o.mass,
		MassUnit:        strings.ToLower(unit),
		Assessment:      *a,
		Recommendations: lca.Recommend(a.Enhanced),
		Equivalency:     equivalency,
	}, nil
}

// Summary returns the list view of r.
func (r *Report) Summary() Summary {
	return Summary{
		ID:                  r.ID,
		CreatedAt:           r.CreatedAt,
		Metal:               r.Assessment.Enhanced.Metal,
		ProductionRoute:     r.Assessment.Enhanced.ProductionRoute,
		CO2ReductionPercent: r.Assessment.Results.Improvements.CO2ReductionPercent,
	}
}

// idULID extracts the ULID suffix of id.
func idULID(id string) (ulid.ULID, error) {
	if len(id) < ulidLength {
		return ulid.ULID{}, ErrInvalidID
	}
	return ulid.ParseStrict(id[len(id)-ulidLength:])
}
