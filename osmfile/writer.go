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

package osmfile

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/paulmach/osm"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

const generator = "editgraph"

// WriteChange renders a graph difference as an osmChange XML document,
// the format the OSM API consumes for uploads.  Changesets in the
// difference are skipped; they travel outside the osmChange body.
func WriteChange(w io.Writer, d *editgraph.Difference) error {
	change := &osm.Change{Version: "0.6", Generator: generator}

	var err error

	change.Create, err = toOSM(d.Created())
	if err != nil {
		return err
	}

	change.Modify, err = toOSM(d.Modified())
	if err != nil {
		return err
	}

	change.Delete, err = toOSM(d.Deleted())
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(change); err != nil {
		return fmt.Errorf("encoding osmChange: %w", err)
	}

	return enc.Flush()
}

func toOSM(entities []model.Entity) (*osm.OSM, error) {
	var out *osm.OSM

	for _, e := range entities {
		if e.EntityKind() == model.CHANGESET {
			continue
		}

		o, err := ToObject(e)
		if err != nil {
			return nil, err
		}

		if out == nil {
			out = &osm.OSM{}
		}

		switch v := o.(type) {
		case *osm.Node:
			out.Nodes = append(out.Nodes, v)
		case *osm.Way:
			out.Ways = append(out.Ways, v)
		case *osm.Relation:
			out.Relations = append(out.Relations, v)
		}
	}

	return out, nil
}
