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
	"encoding/json"
	"fmt"
	"io"
	"log"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/osmforge/editgraph/cmd/editgraph/cli"
	"github.com/osmforge/editgraph/model"
	"github.com/osmforge/editgraph/osmfile"
)

type fileInfo struct {
	Extent        string
	NodeCount     int64
	WayCount      int64
	RelationCount int64
}

func init() {
	RootCmd.AddCommand(infoCmd)

	flags := infoCmd.Flags()
	flags.BoolP("json", "j", false, "format information in JSON")
}

var infoCmd = &cobra.Command{
	Use:   "info [<OSM file>]",
	Short: "Print entity counts and the extent of an OSM file",
	Long:  "Print entity counts and the extent of an OSM file",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var path string
		if len(args) == 1 {
			path = args[0]
		}

		jsonfmt, err := cmd.Flags().GetBool("json")
		if err != nil {
			log.Fatal(err)
		}

		in, err := cli.OpenInput(path, !jsonfmt && path != "")
		if err != nil {
			log.Fatal(err)
		}

		info := runInfo(cmd.Context(), in)

		if err := in.Close(); err != nil {
			log.Fatal(err)
		}

		if jsonfmt {
			b, err := json.Marshal(info)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Println(string(b))
		} else {
			fmt.Printf("Extent: %s\n", info.Extent)
			fmt.Printf("NodeCount: %s\n", humanize.Comma(info.NodeCount))
			fmt.Printf("WayCount: %s\n", humanize.Comma(info.WayCount))
			fmt.Printf("RelationCount: %s\n", humanize.Comma(info.RelationCount))
		}
	},
}

func runInfo(ctx context.Context, in io.Reader) *fileInfo {
	info := &fileInfo{}
	extent := model.EmptyExtent()

	for batch := range osmfile.Stream(ctx, in, osmfile.DefaultBatchSize) {
		if batch.Error != nil {
			log.Fatal(batch.Error)
		}

		for _, e := range batch.Value {
			switch v := e.(type) {
			case *model.Node:
				info.NodeCount++
				extent = extent.ExtendPoint(v.Lon, v.Lat)
			case *model.Way:
				info.WayCount++
			case *model.Relation:
				info.RelationCount++
			}
		}
	}

	info.Extent = extent.String()

	return info
}
