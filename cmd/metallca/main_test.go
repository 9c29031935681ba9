package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/metallca/internal/lca"
)

func TestRun(t *testing.T) {
	t.Setenv("METALLCA_HOME", t.TempDir())
	t.Setenv("METALLCA_LOG_LEVEL", "error")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "help", args: []string{"--help"}, wantCode: exitOK},
		{name: "unknown command", args: []string{"frobnicate"}, wantCode: exitError, wantErr: "unknown command"},
		{
			name:     "invalid metal",
			args:     []string{"assess", "--metal", "zinc", "--route", "raw", "--end-of-life", "recycle"},
			wantCode: exitValidation,
			wantErr:  "unknown metal",
		},
		{
			name:     "negative mass",
			args:     []string{"assess", "--metal", "steel", "--route", "raw", "--end-of-life", "recycle", "--mass", "-5"},
			wantCode: exitValidation,
			wantErr:  "invalid mass",
		},
		{
			name:     "unknown mass unit",
			args:     []string{"assess", "--metal", "steel", "--route", "raw", "--end-of-life", "recycle", "--mass-unit", "stone"},
			wantCode: exitValidation,
			wantErr:  "invalid mass_unit",
		},
		{
			name:     "negative energy use",
			args:     []string{"assess", "--metal", "steel", "--route", "raw", "--end-of-life", "recycle", "--energy-use", "-1"},
			wantCode: exitValidation,
			wantErr:  "invalid energyUse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.wantCode, run(tt.args, &stderr))
			if tt.wantErr != "" {
				assert.Contains(t, stderr.String(), "Error: ")
				assert.Contains(t, stderr.String(), tt.wantErr)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitValidation, exitCode(fmt.Errorf("wrapped: %w", lca.ErrValidation)))
	assert.Equal(t, exitError, exitCode(errors.New("boom")))
	assert.Equal(t, exitError, exitCode(lca.ErrDivisionByZero))
}
