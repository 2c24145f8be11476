// Package binfmt provides the little-endian primitives shared by the map
// document and preset codecs. Every file starts with a 4-byte magic and a
// uint16 version so stale or foreign files are rejected early.
package binfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrTooLong is returned when a string does not fit its length prefix.
var ErrTooLong = errors.New("binfmt: string exceeds 65535 bytes")

// DecodeError reports a corrupt, truncated or version-mismatched payload.
type DecodeError struct {
	Reason string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at offset %d: %s", e.Offset, e.Reason)
}

// Writer appends encoded values to a growing buffer. Like Reader, the
// first failure sticks and Err reports it.
type Writer struct {
	buf []byte
	err error
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Header writes the file magic and format version.
func (w *Writer) Header(magic string, version uint16) {
	w.buf = append(w.buf, magic...)
	w.U16(version)
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) I32(v int32) {
	w.U32(uint32(v))
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

// Text writes a uint16 length prefix followed by the raw bytes.
// A longer string is not written and sets ErrTooLong.
func (w *Writer) Text(s string) {
	if len(s) > math.MaxUint16 {
		if w.err == nil {
			w.err = fmt.Errorf("%w: %d bytes at offset %d", ErrTooLong, len(s), len(w.buf))
		}
		return
	}
	w.U16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Err returns the first encode error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Finish returns the encoded buffer, or nil and the first encode error.
func (w *Writer) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}

// Reader consumes values from an encoded buffer. The first failure sticks:
// later reads return zero values and Err reports the original problem.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader creates a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first decode error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.off
}

// Fail records a decode error at the current offset unless one is already set.
func (r *Reader) Fail(format string, args ...any) {
	if r.err == nil {
		r.err = &DecodeError{Reason: fmt.Sprintf(format, args...), Offset: r.off}
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.Fail("truncated payload: need %d bytes, have %d", n, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Header checks the magic and version written by Writer.Header.
func (r *Reader) Header(magic string, version uint16) {
	got := r.take(len(magic))
	if r.err != nil {
		return
	}
	if string(got) != magic {
		r.off -= len(magic)
		r.Fail("bad magic %q, want %q", got, magic)
		return
	}
	if v := r.U16(); r.err == nil && v != version {
		r.off -= 2
		r.Fail("unsupported version %d, want %d", v, version)
	}
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) I32() int32 {
	return int32(r.U32())
}

func (r *Reader) Bool() bool {
	switch v := r.U8(); v {
	case 0:
		return false
	case 1:
		return true
	default:
		r.off--
		r.Fail("invalid bool byte %d", v)
		return false
	}
}

func (r *Reader) Text() string {
	n := r.U16()
	b := r.take(int(n))
	if b == nil {
		return ""
	}
	return string(b)
}

// Count reads a uint32 element count and rejects counts that could not
// possibly fit in the remaining payload given minSize bytes per element.
func (r *Reader) Count(minSize int) int {
	n := r.U32()
	if r.err != nil {
		return 0
	}
	if minSize > 0 && uint64(n)*uint64(minSize) > uint64(len(r.data)-r.off) {
		r.off -= 4
		r.Fail("element count %d exceeds remaining payload", n)
		return 0
	}
	return int(n)
}

// Finish reports an error if unread bytes remain after a successful decode.
func (r *Reader) Finish() error {
	if r.err == nil && r.off != len(r.data) {
		r.Fail("%d trailing bytes", len(r.data)-r.off)
	}
	return r.err
}
