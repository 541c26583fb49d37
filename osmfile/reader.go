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

// Package osmfile reads and writes OSM XML files for the edit graph,
// including compressed variants, and emits osmChange documents for
// graph differences.
package osmfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/destel/rill"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/osm/osmxml"
	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"

	"github.com/osmforge/editgraph"
	"github.com/osmforge/editgraph/model"
)

// DefaultBatchSize is the number of entities per streamed batch.
const DefaultBatchSize = 4000

// Open opens an OSM XML file, transparently decompressing .gz, .zst,
// .lz4 and .xz variants by file extension.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f, name)
	if err != nil {
		f.Close()

		return nil, err
	}

	return &fileReader{r: r, f: f}, nil
}

// NewReader wraps r with the decompressor implied by the file name's
// extension.  Unrecognized extensions pass the reader through as plain
// XML.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz", ".gzip":
		return gzip.NewReader(r)
	case ".zst", ".zstd":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return d.IOReadCloser(), nil
	case ".lz4":
		return lz4.NewReader(r), nil
	case ".xz":
		return xz.NewReader(r)
	default:
		return r, nil
	}
}

type fileReader struct {
	r io.Reader
	f *os.File
}

func (fr *fileReader) Read(p []byte) (int, error) { return fr.r.Read(p) }

func (fr *fileReader) Close() error {
	if c, ok := fr.r.(io.Closer); ok && fr.r != io.Reader(fr.f) {
		c.Close()
	}

	return fr.f.Close()
}

// Stream scans OSM XML from r and emits entities in batches of
// batchSize (DefaultBatchSize when zero or negative).  The stream ends
// early when the context is cancelled; a scan failure arrives on the
// channel as the final errored batch.
func Stream(ctx context.Context, r io.Reader, batchSize int) <-chan rill.Try[[]model.Entity] {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	ch := make(chan rill.Try[model.Entity])

	go func() {
		defer close(ch)

		scanner := osmxml.New(ctx, r)
		defer scanner.Close()

		for scanner.Scan() {
			e, ok := FromObject(scanner.Object())
			if !ok {
				continue
			}

			select {
			case ch <- rill.Try[model.Entity]{Value: e}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			ch <- rill.Try[model.Entity]{Error: err}
		}
	}()

	return rill.Batch(ch, batchSize, -1)
}

// ReadGraph builds a fresh graph from OSM XML, rebasing the streamed
// batches into its base layer.
func ReadGraph(ctx context.Context, r io.Reader) (*editgraph.Graph, error) {
	g := editgraph.New()

	for batch := range Stream(ctx, r, DefaultBatchSize) {
		if batch.Error != nil {
			return nil, batch.Error
		}

		g.Rebase(batch.Value, []*editgraph.Graph{g}, false)
	}

	return g, nil
}
