// Package catalog reads and writes the index record stream.
//
// A record is 28 bytes, little-endian, with no padding:
//
//	int32 slice | int32 grid | int32 magnetization | float64 committor | float64 committor std
//
// The same layout is used for index.bin and the sampled committor_index.bin.
package catalog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/haricheung/magsample/internal/types"
)

// RecordSize is the encoded size of one record in bytes.
const RecordSize = 3*4 + 2*8

// Decode parses one record from b, which must hold at least RecordSize bytes.
func Decode(b []byte) types.Record {
	return types.Record{
		Slice:         int32(binary.LittleEndian.Uint32(b[0:4])),
		Grid:          int32(binary.LittleEndian.Uint32(b[4:8])),
		Magnetization: int32(binary.LittleEndian.Uint32(b[8:12])),
		CommittorMean: math.Float64frombits(binary.LittleEndian.Uint64(b[12:20])),
		CommittorStd:  math.Float64frombits(binary.LittleEndian.Uint64(b[20:28])),
	}
}

// Encode writes r into b, which must hold at least RecordSize bytes.
func Encode(b []byte, r types.Record) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(r.Slice))
	binary.LittleEndian.PutUint32(b[4:8], uint32(r.Grid))
	binary.LittleEndian.PutUint32(b[8:12], uint32(r.Magnetization))
	binary.LittleEndian.PutUint64(b[12:20], math.Float64bits(r.CommittorMean))
	binary.LittleEndian.PutUint64(b[20:28], math.Float64bits(r.CommittorStd))
}

// Load reads exactly n records from r into a new catalog.
//
// Expectations:
//   - Returns a catalog with Len() == n when r holds at least n records
//   - Returns ErrRecordTruncated when r ends before n records
//   - Returns ErrAllocationFailure for negative n
//   - Field values are not range-checked
func Load(r io.Reader, n int) (*types.Catalog, error) {
	if n < 0 {
		return nil, fmt.Errorf("catalog of %d records: %w", n, types.ErrAllocationFailure)
	}
	c := types.NewCatalog(n)
	br := bufio.NewReader(r)
	buf := make([]byte, RecordSize)
	for i := range n {
		if _, err := io.ReadFull(br, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("record %d of %d: %w", i, n, types.ErrRecordTruncated)
			}
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		c.SetRow(i, Decode(buf))
	}
	return c, nil
}

// LoadFile opens path and loads n records from it.
func LoadFile(path string, n int) (*types.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, types.ErrCatalogUnavailable, err)
	}
	defer f.Close()
	c, err := Load(f, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadAll reads records until EOF. A trailing partial record is an error.
// Used by tools that do not know the simulation shape, such as histogram.
func LoadAll(r io.Reader) (*types.Catalog, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, RecordSize)
	c := types.NewCatalog(0)
	for i := 0; ; i++ {
		_, err := io.ReadFull(br, buf)
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("record %d: %w", i, types.ErrRecordTruncated)
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", i, err)
		}
		rec := Decode(buf)
		c.Slice = append(c.Slice, rec.Slice)
		c.Grid = append(c.Grid, rec.Grid)
		c.Magnetization = append(c.Magnetization, rec.Magnetization)
		c.CommittorMean = append(c.CommittorMean, rec.CommittorMean)
		c.CommittorStd = append(c.CommittorStd, rec.CommittorStd)
	}
}

// ReadFile loads every record of path.
func ReadFile(path string) (*types.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, types.ErrCatalogUnavailable, err)
	}
	defer f.Close()
	c, err := LoadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Writer buffers encoded records onto an underlying stream.
type Writer struct {
	bw  *bufio.Writer
	buf [RecordSize]byte
	n   int
}

// NewWriter returns a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Write encodes one record.
func (w *Writer) Write(r types.Record) error {
	Encode(w.buf[:], r)
	if _, err := w.bw.Write(w.buf[:]); err != nil {
		return fmt.Errorf("write record %d: %w", w.n, err)
	}
	w.n++
	return nil
}

// Count returns the number of records written so far.
func (w *Writer) Count() int { return w.n }

// Flush pushes buffered records to the underlying stream.
func (w *Writer) Flush() error { return w.bw.Flush() }

// File is a Writer that owns its output file.
type File struct {
	*Writer
	f *os.File
}

// Create truncates or creates path and returns a File writing to it.
func Create(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &File{Writer: NewWriter(f), f: f}, nil
}

// Close flushes and closes the file. The first error wins.
func (f *File) Close() error {
	ferr := f.Flush()
	cerr := f.f.Close()
	if ferr != nil {
		return ferr
	}
	return cerr
}
