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

package search

import "errors"

var (
	// ErrStoreRequired is returned when a dataset store is not provided.
	ErrStoreRequired = errors.New("dataset store required")

	// ErrSuperseded is returned by a search handle whose query was overtaken
	// by a later submission before it could commit.
	ErrSuperseded = errors.New("search superseded by a later query")

	// ErrCoordinatorClosed is returned when submitting to a closed coordinator.
	ErrCoordinatorClosed = errors.New("coordinator closed")

	// ErrHistoryIndexOutOfRange is returned when restoring a history entry
	// that does not exist.
	ErrHistoryIndexOutOfRange = errors.New("history index out of range")
)
