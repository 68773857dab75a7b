// Copyright 2025 Poiesic Systems
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


package publish

import (
	"errors"
	"fmt"
)

// ErrIndexRequired is returned when a publisher has no target index.
var ErrIndexRequired = errors.New("index repository required")

// Failure records one document that could not be uploaded.
type Failure struct {
	Source string
	ID     string
	Err    error
}

func (f *Failure) Error() string {
	if f.Source != "" {
		return fmt.Sprintf("publishing %s (%s): %v", f.ID, f.Source, f.Err)
	}
	return fmt.Sprintf("publishing %s: %v", f.ID, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
