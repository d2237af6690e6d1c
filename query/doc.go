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


// Package query parses free-text catalog queries and evaluates them
// against records.
//
// A raw query is a comma-separated list of terms combined with OR
// semantics. Terms are matched as case-insensitive substrings against
// every field of a record, so "d38999, vg95234" matches any record
// containing either fragment in any column. Matching is exact substring
// only; there is no ranking or fuzziness.
package query
