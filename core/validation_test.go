package core

import (
	"errors"
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		dims    []Dimension
		wantErr error
	}{
		{
			name:    "valid dimension list",
			dims:    []Dimension{DimFamily, DimMaterial, DimShellSize},
			wantErr: nil,
		},
		{
			name:    "default dimensions",
			dims:    DefaultDimensions(),
			wantErr: nil,
		},
		{
			name:    "empty list",
			dims:    nil,
			wantErr: ErrEmptySchema,
		},
		{
			name:    "empty dimension name",
			dims:    []Dimension{DimFamily, ""},
			wantErr: ErrEmptyDimension,
		},
		{
			name:    "duplicate dimension",
			dims:    []Dimension{DimFamily, DimMaterial, DimFamily},
			wantErr: ErrDuplicateDimension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.dims)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDimensions() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDimensions() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidSchema) {
				t.Errorf("ValidateDimensions() error = %v, want it wrapped in %v", err, ErrInvalidSchema)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	schema, err := NewSchema([]Dimension{DimFamily, DimMaterial})
	if err != nil {
		t.Fatalf("NewSchema() error: %v", err)
	}

	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{
			name:    "valid record",
			record:  Record{Values: []string{"D38999", "Aluminum"}},
			wantErr: nil,
		},
		{
			name:    "empty values are allowed",
			record:  Record{Values: []string{"", ""}},
			wantErr: nil,
		},
		{
			name:    "too few values",
			record:  Record{Values: []string{"D38999"}},
			wantErr: ErrRaggedRecord,
		},
		{
			name:    "too many values",
			record:  Record{Values: []string{"D38999", "Aluminum", "extra"}},
			wantErr: ErrRaggedRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(schema, tt.record)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateRecord() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
