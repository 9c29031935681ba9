package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML keys that ShallowMergeYAML understands.
const (
	keyOutput    = "output"
	keyLogging   = "logging"
	keyServer    = "server"
	keyEstimator = "estimator"
	keyTables    = "tables"
	keyReports   = "reports"
)

// ShallowMergeYAML overlays the top-level sections of the YAML file at
// overlayPath onto target. A section present in the overlay replaces the
// whole section in target; absent sections and unknown keys are left alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = applySection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// applySection decodes node into a fresh zero value so the section is
// replaced rather than merged field by field.
func applySection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		return replace(node, &target.Output)
	case keyLogging:
		return replace(node, &target.Logging)
	case keyServer:
		return replace(node, &target.Server)
	case keyEstimator:
		return replace(node, &target.Estimator)
	case keyTables:
		return replace(node, &target.Tables)
	case keyReports:
		return replace(node, &target.Reports)
	default:
		return nil
	}
}

func replace[T any](node *yaml.Node, dst *T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
