// Copyright 2026 the original author or authors.
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

package editgraph

import (
	"errors"
	"fmt"

	"github.com/osmforge/editgraph/model"
)

// NotFoundError reports a lookup of an entity ID absent from both the
// local and base layers of a graph.
type NotFoundError struct {
	ID model.ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entity %s not found in graph", e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError

	return errors.As(err, &nf)
}
