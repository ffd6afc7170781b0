// core/fasta/reader.go
package fasta

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Record is a parsed FASTA sequence. ID is the full header line after '>'
// (guide pipelines embed genomic region tokens past the first whitespace,
// so the header is kept verbatim).
type Record struct {
	ID  string
	Seq string
}

// ReadAll parses every record from r. Sequence lines are concatenated and
// blank lines skipped. A header with no sequence is an error naming the
// offending record.
func ReadAll(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var (
		recs []Record
		id   string
		seen bool
		seq  strings.Builder
	)
	flush := func() error {
		if !seen {
			return nil
		}
		if seq.Len() == 0 {
			return errors.Errorf("fasta: record %q has no sequence", id)
		}
		recs = append(recs, Record{ID: id, Seq: seq.String()})
		seq.Reset()
		return nil
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			id = strings.TrimSpace(line[1:])
			seen = true
			continue
		}
		if !seen {
			return nil, errors.New("fasta: sequence data before first header")
		}
		seq.WriteString(line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "fasta: read")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return recs, nil
}

// ReadFile opens path (plain or gzip, "-" for stdin) and parses all records.
func ReadFile(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return ReadAll(rc)
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// open sniffs the gzip magic number (1F 8B) so mislabelled .gz files still work.
func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := fh.Read(sig[:])
	_, _ = fh.Seek(0, io.SeekStart)
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}
