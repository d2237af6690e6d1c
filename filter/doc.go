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


// Package filter implements dependent filtering over catalog snapshots.
//
// Given a partial filter selection, Options recomputes the set of values
// still reachable in every dimension, so that filter menus narrow as the
// user makes selections in other dimensions. Values within one dimension
// are OR-combined, dimensions AND-combined. Selections that become
// unreachable after a dataset or upstream change are reported so the
// caller can drop them; everything else is a pure function of
// (snapshot, selection) with no internal state.
package filter
