package prsqc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/biogo/hts/bgzf"
	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicGzip = []byte{0x1f, 0x8b}
)

// OpenInput opens a local path or a gs://bucket/object URL for reading.
// Zstandard, BGZF, gzip and bzip2 content is decompressed transparently.
// The caller must Close the returned reader.
func OpenInput(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "gs://") {
		rc, err := openGoogleStorage(ctx, path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return rc, nil
	}

	f, err := os.Open(genomisc.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	// The first 18 bytes are enough to identify a BGZF block header
	head := make([]byte, 18)
	n, _ := f.ReadAt(head, 0)
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, magicZstd):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		rc := dec.IOReadCloser()
		return &stackedReadCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case isBGZF(head):
		bg, err := bgzf.NewReader(f, 1)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: bg, closers: []io.Closer{bg, f}}, nil
	case bytes.HasPrefix(head, magicGzip):
		gz, err := pgzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	}

	// bzip2 or plain text
	fd, err := genomisc.MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}
	if fd == io.ReadCloser(f) {
		// Plain text comes back as the file itself
		return f, nil
	}
	return &stackedReadCloser{Reader: fd, closers: []io.Closer{fd, f}}, nil
}

// isBGZF checks for a gzip member with the BC extra subfield that bgzip
// writes in every block.
func isBGZF(head []byte) bool {
	return len(head) >= 14 &&
		bytes.HasPrefix(head, magicGzip) &&
		head[2] == 8 && head[3]&4 != 0 &&
		head[12] == 'B' && head[13] == 'C'
}

func openGoogleStorage(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(path, "gs://"), "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("%q is not a gs://bucket/object path", path)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}

	obj, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, err
	}

	br := bufio.NewReader(obj)
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, magicZstd):
		dec, err := zstd.NewReader(br)
		if err != nil {
			obj.Close()
			client.Close()
			return nil, err
		}
		rc := dec.IOReadCloser()
		return &stackedReadCloser{Reader: rc, closers: []io.Closer{rc, obj, client}}, nil
	case bytes.HasPrefix(head, magicGzip):
		// BGZF is a series of gzip members, which pgzip reads as one stream
		gz, err := pgzip.NewReader(br)
		if err != nil {
			obj.Close()
			client.Close()
			return nil, err
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, obj, client}}, nil
	}

	return &stackedReadCloser{Reader: br, closers: []io.Closer{obj, client}}, nil
}

// stackedReadCloser closes each layer of a decompression stack in order,
// innermost first.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// scanLines calls fn with each line of the input at path and its 1-based
// line number. Iteration stops at the first error returned by fn.
func (s *Session) scanLines(path string, fn func(lineNo int, line string) error) error {
	rc, err := s.open(path)
	if err != nil {
		return pfx.Err(fmt.Errorf("cannot open %s: %w", path, err))
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	const maxCapacity = 8 * 1000000 // 8 MB
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := fn(lineNo, strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return pfx.Err(fmt.Errorf("reading %s: %w", path, err))
	}

	return nil
}
