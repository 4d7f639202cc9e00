package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"ecmafuzz/internal/ir"
)

// EncodeProgram serializes p's instructions (not its ProgramTypes, Parent, or
// Comments — those are derived/diagnostic, never round-tripped) into one
// record payload.
func EncodeProgram(p *ir.Program) []byte {
	var buf bytes.Buffer
	buf.Write(p.UUID[:])
	writeUvarint(&buf, uint64(p.Size()))
	for _, instr := range p.Code {
		writeUvarint(&buf, uint64(instr.Op))
		writeVariables(&buf, instr.Outputs())
		writeVariables(&buf, instr.InnerOutputs())
		writeVariables(&buf, instr.Inputs())
		encodeParameters(&buf, instr.Parameters)
	}
	return buf.Bytes()
}

// DecodeProgram reconstructs a Program from a payload written by
// EncodeProgram. Decoded instructions are appended directly via ir.Append:
// a corpus import is restoring an already-well-formed program, not
// constructing one incrementally, so none of internal/builder's live
// scope/context bookkeeping applies here.
func DecodeProgram(payload []byte) (*ir.Program, error) {
	r := bytes.NewReader(payload)

	var rawUUID [16]byte
	if _, err := r.Read(rawUUID[:]); err != nil {
		return nil, fmt.Errorf("codec: read program uuid: %w", err)
	}

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, fmt.Errorf("codec: read instruction count: %w", err)
	}

	p := ir.New()
	p.UUID = rawUUID

	for i := uint64(0); i < count; i++ {
		opID, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, fmt.Errorf("codec: read op at instruction %d: %w", i, err)
		}
		op := ir.Op(opID)

		outputs, err := readVariables(r)
		if err != nil {
			return nil, fmt.Errorf("codec: read outputs at instruction %d: %w", i, err)
		}
		inner, err := readVariables(r)
		if err != nil {
			return nil, fmt.Errorf("codec: read inner outputs at instruction %d: %w", i, err)
		}
		inputs, err := readVariables(r)
		if err != nil {
			return nil, fmt.Errorf("codec: read inputs at instruction %d: %w", i, err)
		}
		params, err := decodeParameters(r)
		if err != nil {
			return nil, fmt.Errorf("codec: read parameters at instruction %d: %w", i, err)
		}

		ir.Append(p, ir.NewInstruction(op, outputs, inner, inputs, params))
	}

	return p, nil
}

func writeVariables(buf *bytes.Buffer, vars []ir.Variable) {
	writeUvarint(buf, uint64(len(vars)))
	for _, v := range vars {
		writeUvarint(buf, uint64(v))
	}
}

func readVariables(r *bytes.Reader) ([]ir.Variable, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	vars := make([]ir.Variable, n)
	for i := range vars {
		v, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		vars[i] = ir.Variable(v)
	}
	return vars, nil
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	buf.Write(tmp[:n])
}
