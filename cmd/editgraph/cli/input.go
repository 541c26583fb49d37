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

// Package cli holds shared command-line plumbing for the editgraph
// commands.
package cli

import (
	"fmt"
	"io"
	"os"

	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/osmforge/editgraph/osmfile"
)

// OpenInput opens an OSM file for a command: "" or "-" reads stdin,
// anything else is opened, optionally wrapped with a progress bar
// tracking raw bytes read, and decompressed by extension.  The caller
// owns the returned closer.
func OpenInput(path string, progress bool) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var rc io.ReadCloser = f

	if progress {
		rc, err = wrapProgress(f)
		if err != nil {
			f.Close()

			return nil, err
		}
	}

	// decompress after the progress wrapper so the bar tracks file
	// bytes, not inflated bytes
	r, err := osmfile.NewReader(rc, path)
	if err != nil {
		rc.Close()

		return nil, err
	}

	return &input{r: r, c: rc}, nil
}

type input struct {
	r io.Reader
	c io.Closer
}

func (in *input) Read(p []byte) (int, error) { return in.r.Read(p) }

func (in *input) Close() error {
	if c, ok := in.r.(io.Closer); ok {
		c.Close()
	}

	return in.c.Close()
}

// progressReader pairs a proxy reader with its bar so closing clears
// the terminal line of progress output.
type progressReader struct {
	r   io.ReadCloser
	bar *pb.ProgressBar
}

func wrapProgress(f *os.File) (io.ReadCloser, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	bar := pb.New(int(fi.Size())).SetUnits(pb.U_BYTES_DEC).SetWidth(79)
	bar.Output = os.Stderr
	bar.Start()

	return progressReader{r: bar.NewProxyReader(f), bar: bar}, nil
}

func (pr progressReader) Read(p []byte) (int, error) {
	return pr.r.Read(p)
}

func (pr progressReader) Close() error {
	// make sure newline is not printed by Finish()
	pr.bar.Output = nil
	pr.bar.NotPrint = true

	pr.bar.Finish()

	fmt.Fprintf(os.Stderr, "\033[2K\r") // clear status bar

	return pr.r.Close()
}
