package codec

import (
	"bytes"

	"ecmafuzz/internal/ir"
)

// EncodeRing concatenates one record per program, in order — the format
// internal/corpus's exportState writes and importState reads back.
func EncodeRing(programs []*ir.Program) ([]byte, error) {
	var buf bytes.Buffer
	for _, p := range programs {
		if err := WriteRecord(&buf, EncodeProgram(p)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DecodeRing is EncodeRing's inverse.
func DecodeRing(data []byte) ([]*ir.Program, error) {
	records, err := ReadAllRecords(data)
	if err != nil {
		return nil, err
	}
	programs := make([]*ir.Program, 0, len(records))
	for _, rec := range records {
		p, err := DecodeProgram(rec)
		if err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, nil
}
