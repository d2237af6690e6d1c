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


// Package dataset owns the currently installed catalog snapshot.
//
// The Store loads catalogs from a storage.Source on a background worker
// pool and installs the result as a single atomic swap: readers always see
// either the previous complete snapshot or the new complete one, never a
// partial state. A failed load leaves the previous snapshot authoritative.
// When loads overlap, only the newest submission installs; a slower,
// earlier load finishing late is discarded.
//
// The Watcher wires a file-backed source to fsnotify so edits to the
// catalog file trigger a background reload automatically.
package dataset
