package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/ir"
)

func buildSampleProgram(t *testing.T) *ir.Program {
	t.Helper()
	p := ir.New()
	n := ir.Append(p, ir.NewInstruction(ir.OpLoadInteger, []ir.Variable{0}, nil, nil, ir.IntegerValue(42)))
	s := ir.Append(p, ir.NewInstruction(ir.OpLoadString, []ir.Variable{1}, nil, nil, ir.StringValue("hi")))
	ir.Append(p, ir.NewInstruction(ir.OpBinaryOperation, []ir.Variable{2}, nil, []ir.Variable{n, s}, ir.BinaryAdd))
	cond := ir.Append(p, ir.NewInstruction(ir.OpLoadBoolean, []ir.Variable{3}, nil, nil, ir.BooleanValue(true)))
	ir.Append(p, ir.NewInstruction(ir.OpBeginIf, nil, nil, []ir.Variable{cond}, nil))
	ir.Append(p, ir.NewInstruction(ir.OpLoadUndefined, []ir.Variable{4}, nil, nil, nil))
	ir.Append(p, ir.NewInstruction(ir.OpEndIf, nil, nil, nil, nil))
	return p
}

func TestWriteReadRecord_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecord(&buf, []byte("hello")))
	require.NoError(t, WriteRecord(&buf, []byte("a")))

	got1, err := ReadRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got1)

	got2, err := ReadRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got2)
}

func TestEncodeDecodeProgram_RoundTripsStructure(t *testing.T) {
	p := buildSampleProgram(t)
	payload := EncodeProgram(p)

	decoded, err := DecodeProgram(payload)
	require.NoError(t, err)

	require.Equal(t, p.Size(), decoded.Size())
	assert.Equal(t, p.UUID, decoded.UUID)
	for i := range p.Code {
		assert.Equal(t, p.Code[i].Op, decoded.Code[i].Op)
		assert.Equal(t, p.Code[i].Outputs(), decoded.Code[i].Outputs())
		assert.Equal(t, p.Code[i].Inputs(), decoded.Code[i].Inputs())
		assert.Equal(t, p.Code[i].Parameters, decoded.Code[i].Parameters)
	}
}

func TestEncodeDecodeProgram_EmptyProgram(t *testing.T) {
	p := ir.New()
	decoded, err := DecodeProgram(EncodeProgram(p))
	require.NoError(t, err)
	assert.Equal(t, 0, decoded.Size())
}

func TestEncodeDecodeRing_RoundTripsMultiplePrograms(t *testing.T) {
	p1 := buildSampleProgram(t)
	p2 := ir.New()
	ir.Append(p2, ir.NewInstruction(ir.OpLoadFloat, []ir.Variable{0}, nil, nil, ir.FloatValue(3.5)))

	data, err := EncodeRing([]*ir.Program{p1, p2})
	require.NoError(t, err)

	decoded, err := DecodeRing(data)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, p1.Size(), decoded[0].Size())
	assert.Equal(t, p2.Size(), decoded[1].Size())
	assert.Equal(t, ir.FloatValue(3.5), decoded[1].Code[0].Parameters)
}

// instructionShape is what a wire round-trip actually promises to preserve
// (op, in/out variables, parameters) — comparing this instead of the raw
// ir.Instruction avoids diffing its unexported bookkeeping fields (index,
// inouts layout) that codec intentionally doesn't own.
type instructionShape struct {
	Op         ir.Op
	Outputs    []ir.Variable
	Inputs     []ir.Variable
	Parameters ir.Parameters
}

func shapeOf(instrs []ir.Instruction) []instructionShape {
	shapes := make([]instructionShape, len(instrs))
	for i, instr := range instrs {
		shapes[i] = instructionShape{
			Op:         instr.Op,
			Outputs:    instr.Outputs(),
			Inputs:     instr.Inputs(),
			Parameters: instr.Parameters,
		}
	}
	return shapes
}

func TestEncodeDecodeProgram_StructuralDiffIsEmpty(t *testing.T) {
	p := buildSampleProgram(t)
	decoded, err := DecodeProgram(EncodeProgram(p))
	require.NoError(t, err)

	if diff := cmp.Diff(shapeOf(p.Code), shapeOf(decoded.Code), cmpopts.EquateComparable()); diff != "" {
		t.Errorf("decoded program shape mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRing_EmptyInputYieldsNoPrograms(t *testing.T) {
	decoded, err := DecodeRing(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
