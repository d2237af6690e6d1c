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


package storage

import "errors"

var (
	// ErrSourceUnavailable indicates the catalog source could not be reached
	// or opened.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrSourceInvalid indicates the catalog source was readable but
	// structurally invalid (bad header, ragged rows, unknown key dimension).
	ErrSourceInvalid = errors.New("catalog source invalid")

	// ErrEmptyCatalog indicates the source contained a header but no records.
	ErrEmptyCatalog = errors.New("catalog source is empty")

	// ErrCacheEmpty indicates the catalog cache holds no stored catalog.
	ErrCacheEmpty = errors.New("catalog cache is empty")

	// ErrStorageClosed indicates the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")
)
