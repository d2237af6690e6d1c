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

// Package search coordinates concurrent catalog queries.
//
// The Coordinator type evaluates free-text and filter queries against the
// current catalog snapshot. Every submission receives a generation token;
// only the most recently submitted query is allowed to publish its result,
// so overlapping searches never interleave and stale results are discarded
// rather than surfaced.
//
// The package also keeps a bounded History of committed searches and offers
// policy-driven lookup of alternative and opposite parts for a reference
// record.
package search
