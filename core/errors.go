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

import "errors"

// Domain validation errors
var (
	// ErrInvalidSchema indicates a dimension list failed validation.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrInvalidRecord indicates a Record failed validation against a schema.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptySchema indicates a schema with no dimensions.
	ErrEmptySchema = errors.New("schema has no dimensions")

	// ErrDuplicateDimension indicates a dimension appears twice in a schema.
	ErrDuplicateDimension = errors.New("duplicate dimension")

	// ErrEmptyDimension indicates a dimension with an empty name.
	ErrEmptyDimension = errors.New("dimension name cannot be empty")

	// ErrRaggedRecord indicates a record whose value count does not match
	// the schema's dimension count.
	ErrRaggedRecord = errors.New("record value count does not match schema")

	// ErrUnknownDimension indicates a reference to a dimension the schema
	// does not contain.
	ErrUnknownDimension = errors.New("unknown dimension")

	// ErrUnknownRecord indicates a lookup for a record key the snapshot
	// does not contain.
	ErrUnknownRecord = errors.New("unknown record")
)
