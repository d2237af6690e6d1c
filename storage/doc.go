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


// Package storage defines where catalog data comes from.
//
// A Source produces one complete catalog (schema plus records) per fetch
// and reports coarse progress milestones while doing so. Sources are read
// by the dataset store, which turns a successful fetch into an immutable
// snapshot; a failed fetch leaves the previously installed snapshot
// untouched.
//
// Implementations live in subpackages:
//
//   - csv: reads a catalog from a CSV file, header row as dimensions
//   - badger: a BadgerDB-backed cache holding the last fetched catalog,
//     usable offline as a Source of its own
//
// All implementations must be safe for use by a single fetcher at a time;
// the dataset store never runs two fetches of the same source concurrently.
package storage
