// Package codec implements the wire format as a "concatenation of records
// [length][bytes][padding]": a small, hand-rolled binary encoding for
// ir.Program, used by internal/corpus's exportState/importState. Record
// payloads are a closed tagged-union encoding (varint op id, plain varint
// variable ids,
// op-specific params via a one-byte tag switch) rather than a
// reflection-based serializer, hand-switching on Go kind instead of
// reaching for encoding/gob.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// wireAlign is the byte boundary each record's payload is padded to. 4 is
// enough to keep the record stream easy to scan by eye in a hex dump without
// wasting much space on small programs.
const wireAlign = 4

// WriteRecord writes one [length][bytes][padding] record to w.
func WriteRecord(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("codec: write record length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("codec: write record payload: %w", err)
	}
	if pad := paddingFor(len(payload)); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("codec: write record padding: %w", err)
		}
	}
	return nil
}

// ReadRecord reads one record from r, returning io.EOF (unwrapped) once the
// stream is exhausted between records.
func ReadRecord(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("codec: truncated record length: %w", err)
		}
		return nil, err
	}
	n := binary.LittleEndian.Uint32(lenBuf[:])
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("codec: truncated record payload: %w", err)
	}
	if pad := paddingFor(int(n)); pad > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(pad)); err != nil {
			return nil, fmt.Errorf("codec: truncated record padding: %w", err)
		}
	}
	return payload, nil
}

func paddingFor(n int) int {
	rem := n % wireAlign
	if rem == 0 {
		return 0
	}
	return wireAlign - rem
}

// ReadAllRecords drains every record in data in order.
func ReadAllRecords(data []byte) ([][]byte, error) {
	r := bytes.NewReader(data)
	var records [][]byte
	for {
		rec, err := ReadRecord(r)
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
