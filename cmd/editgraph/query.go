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
	"fmt"
	"log"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/cmd/editgraph/cli"
	"github.com/osmforge/editgraph/model"
	"github.com/osmforge/editgraph/osmfile"
)

func init() {
	RootCmd.AddCommand(queryCmd)

	flags := queryCmd.Flags()
	flags.StringP("bbox", "b", "", "bounding box to query: left,bottom,right,top")
	flags.BoolP("tagged", "t", false, "only report entities carrying tags")
}

var queryCmd = &cobra.Command{
	Use:   "query [<OSM file>]",
	Short: "List the entities of an OSM file intersecting a bounding box",
	Long:  "List the entities of an OSM file intersecting a bounding box",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()

		bbox, err := flags.GetString("bbox")
		if err != nil {
			log.Fatal(err)
		}

		extent, err := model.ParseExtent(bbox)
		if err != nil {
			log.Fatal(err)
		}

		tagged, err := flags.GetBool("tagged")
		if err != nil {
			log.Fatal(err)
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		}

		in, err := cli.OpenInput(path, path != "")
		if err != nil {
			log.Fatal(err)
		}

		g, err := osmfile.ReadGraph(cmd.Context(), in)
		if err != nil {
			log.Fatal(err)
		}

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		tree := editgraph.NewTree(g)

		var count int64
		for _, e := range tree.Intersects(extent, g) {
			if tagged && len(e.GetTags()) == 0 {
				continue
			}

			count++
			fmt.Printf("%s\t%s\n", e.GetID(), e.GetTags())
		}

		fmt.Printf("%s entities\n", humanize.Comma(count))
	},
}
