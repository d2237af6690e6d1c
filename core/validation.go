// Copyright 2025 Catalook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateDimensions validates an ordered dimension list for use as a schema.
//
// Validation rules:
//   - at least one dimension
//   - no empty dimension names
//   - no duplicate dimensions
func ValidateDimensions(dims []Dimension) error {
	if len(dims) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSchema, ErrEmptySchema)
	}
	seen := make(map[Dimension]struct{}, len(dims))
	for _, d := range dims {
		if d == "" {
			return fmt.Errorf("%w: %w", ErrInvalidSchema, ErrEmptyDimension)
		}
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidSchema, ErrDuplicateDimension, d)
		}
		seen[d] = struct{}{}
	}
	return nil
}

// ValidateRecord validates a Record against a schema.
//
// Validation rules:
//   - value count must equal the schema's dimension count
//
// NOT validated (domain semantics are the catalog's business):
//   - value contents (empty values are allowed)
//   - Key (0 is valid for records without a key dimension value)
func ValidateRecord(schema Schema, record Record) error {
	if len(record.Values) != len(schema.Dimensions) {
		return fmt.Errorf("%w: %w: got %d values, schema has %d dimensions",
			ErrInvalidRecord, ErrRaggedRecord, len(record.Values), len(schema.Dimensions))
	}
	return nil
}
