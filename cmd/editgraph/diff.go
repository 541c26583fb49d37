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

package main

import (
	"context"
	"log"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/cmd/editgraph/cli"
	"github.com/osmforge/editgraph/model"
	"github.com/osmforge/editgraph/osmfile"
)

func init() {
	RootCmd.AddCommand(diffCmd)

	flags := diffCmd.Flags()
	flags.StringP("output", "o", "", "write the osmChange document to a file instead of stdout")
}

var diffCmd = &cobra.Command{
	Use:   "diff <base OSM file> <edited OSM file>",
	Short: "Emit the osmChange document turning one OSM file into another",
	Long:  "Emit the osmChange document turning one OSM file into another",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		base := loadGraph(cmd.Context(), args[0])
		head := applyEdited(cmd.Context(), base, args[1])

		out := os.Stdout

		output, err := cmd.Flags().GetString("output")
		if err != nil {
			log.Fatal(err)
		}

		if output != "" {
			out, err = os.Create(output)
			if err != nil {
				log.Fatal(err)
			}
			defer out.Close()
		}

		if err := osmfile.WriteChange(out, editgraph.NewDifference(base, head)); err != nil {
			log.Fatal(err)
		}
	},
}

func loadGraph(ctx context.Context, path string) *editgraph.Graph {
	in, err := cli.OpenInput(path, true)
	if err != nil {
		log.Fatal(err)
	}

	g, err := osmfile.ReadGraph(ctx, in)
	if err != nil {
		log.Fatal(err)
	}

	if err := in.Close(); err != nil {
		log.Fatal(err)
	}

	return g
}

// applyEdited derives a head graph from base reflecting the edited
// file: entities that differ are replaced, entities absent from the
// edited file are removed.
func applyEdited(ctx context.Context, base *editgraph.Graph, path string) *editgraph.Graph {
	in, err := cli.OpenInput(path, true)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	head := base
	seen := map[model.ID]bool{}

	for batch := range osmfile.Stream(ctx, in, osmfile.DefaultBatchSize) {
		if batch.Error != nil {
			log.Fatal(batch.Error)
		}

		for _, e := range batch.Value {
			seen[e.GetID()] = true

			if prev, ok := base.Find(e.GetID()); ok && entitiesEqual(prev, e) {
				continue
			}

			head = head.Replace(e)
		}
	}

	base.Entities(func(e model.Entity) bool {
		if !seen[e.GetID()] {
			head = head.Remove(e)
		}

		return true
	})

	return head
}

// entitiesEqual compares two separately-loaded entities structurally,
// since loads never share pointers.
func entitiesEqual(a, b model.Entity) bool {
	if a.EntityKind() != b.EntityKind() || !a.GetTags().Equal(b.GetTags()) {
		return false
	}

	switch av := a.(type) {
	case *model.Node:
		bv := b.(*model.Node)

		return av.Lon == bv.Lon && av.Lat == bv.Lat
	case *model.Way:
		return slices.Equal(av.Nodes, b.(*model.Way).Nodes)
	case *model.Relation:
		return slices.Equal(av.Members, b.(*model.Relation).Members)
	default:
		return true
	}
}
