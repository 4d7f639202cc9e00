package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"ecmafuzz/internal/ir"
)

// Parameter tags. 0 always means "no parameters" so the common case (an op
// with AttrIsMutableParameters unset) costs one byte.
const (
	tagNone byte = iota
	tagInteger
	tagBigInt
	tagFloat
	tagString
	tagBoolean
	tagRegExp
	tagBuiltinName
	tagPropertyName
	tagObjectLiteralFields
	tagUnaryOperator
	tagBinaryOperator
	tagLogicalOperator
	tagComparator
	tagUpdateOperator
	tagSwitchCaseParameters
	tagLoopParameters
	tagExploreParameters
)

// encodeParameters appends params's tagged-union encoding to buf.
// FunctionParameters, ClassDefinitionParameters, and MethodDefinitionParameters
// carry a *FunctionSignature, which in turn can reference arbitrary Type
// values (object shapes, nested signatures). Those three are not encoded:
// they are written as tagNone, so function/class/method-begin instructions
// decode with nil Parameters, and corpus import keeps them that way.
func encodeParameters(buf *bytes.Buffer, params ir.Parameters) {
	switch v := params.(type) {
	case nil:
		buf.WriteByte(tagNone)
	case ir.IntegerValue:
		buf.WriteByte(tagInteger)
		writeUvarint(buf, uint64(v))
	case ir.BigIntValue:
		buf.WriteByte(tagBigInt)
		writeString(buf, string(v))
	case ir.FloatValue:
		buf.WriteByte(tagFloat)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(float64(v)))
		buf.Write(tmp[:])
	case ir.StringValue:
		buf.WriteByte(tagString)
		writeString(buf, string(v))
	case ir.BooleanValue:
		buf.WriteByte(tagBoolean)
		if v {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case ir.RegExpValue:
		buf.WriteByte(tagRegExp)
		writeString(buf, v.Pattern)
		writeString(buf, v.Flags)
	case ir.BuiltinName:
		buf.WriteByte(tagBuiltinName)
		writeString(buf, string(v))
	case ir.PropertyName:
		buf.WriteByte(tagPropertyName)
		writeString(buf, string(v))
	case ir.ObjectLiteralFields:
		buf.WriteByte(tagObjectLiteralFields)
		writeUvarint(buf, uint64(len(v.Names)))
		for i, name := range v.Names {
			writeString(buf, name)
			spread := i < len(v.Spread) && v.Spread[i]
			if spread {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		}
	case ir.UnaryOperator:
		buf.WriteByte(tagUnaryOperator)
		writeUvarint(buf, uint64(v))
	case ir.BinaryOperator:
		buf.WriteByte(tagBinaryOperator)
		writeUvarint(buf, uint64(v))
	case ir.LogicalOperator:
		buf.WriteByte(tagLogicalOperator)
		writeUvarint(buf, uint64(v))
	case ir.Comparator:
		buf.WriteByte(tagComparator)
		writeUvarint(buf, uint64(v))
	case ir.UpdateOperator:
		buf.WriteByte(tagUpdateOperator)
		writeUvarint(buf, uint64(v))
	case ir.SwitchCaseParameters:
		buf.WriteByte(tagSwitchCaseParameters)
		if v.IsDefault {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case ir.LoopParameters:
		buf.WriteByte(tagLoopParameters)
		writeUvarint(buf, uint64(v.Comparator))
	case ir.ExploreParameters:
		buf.WriteByte(tagExploreParameters)
		writeString(buf, v.ProbeID)
	default:
		// FunctionParameters / ClassDefinitionParameters / MethodDefinitionParameters
		// and anything else carrying a *FunctionSignature: not wire-encoded,
		// see the doc comment above.
		buf.WriteByte(tagNone)
	}
}

func decodeParameters(r *bytes.Reader) (ir.Parameters, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNone:
		return nil, nil
	case tagInteger:
		v, err := binary.ReadUvarint(r)
		return ir.IntegerValue(v), err
	case tagBigInt:
		s, err := readString(r)
		return ir.BigIntValue(s), err
	case tagFloat:
		var tmp [8]byte
		if _, err := r.Read(tmp[:]); err != nil {
			return nil, err
		}
		return ir.FloatValue(math.Float64frombits(binary.LittleEndian.Uint64(tmp[:]))), nil
	case tagString:
		s, err := readString(r)
		return ir.StringValue(s), err
	case tagBoolean:
		b, err := r.ReadByte()
		return ir.BooleanValue(b != 0), err
	case tagRegExp:
		pattern, err := readString(r)
		if err != nil {
			return nil, err
		}
		flags, err := readString(r)
		return ir.RegExpValue{Pattern: pattern, Flags: flags}, err
	case tagBuiltinName:
		s, err := readString(r)
		return ir.BuiltinName(s), err
	case tagPropertyName:
		s, err := readString(r)
		return ir.PropertyName(s), err
	case tagObjectLiteralFields:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return nil, err
		}
		fields := ir.ObjectLiteralFields{
			Names:  make([]string, n),
			Spread: make([]bool, n),
		}
		for i := uint64(0); i < n; i++ {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			spread, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			fields.Names[i] = name
			fields.Spread[i] = spread != 0
		}
		return fields, nil
	case tagUnaryOperator:
		v, err := binary.ReadUvarint(r)
		return ir.UnaryOperator(v), err
	case tagBinaryOperator:
		v, err := binary.ReadUvarint(r)
		return ir.BinaryOperator(v), err
	case tagLogicalOperator:
		v, err := binary.ReadUvarint(r)
		return ir.LogicalOperator(v), err
	case tagComparator:
		v, err := binary.ReadUvarint(r)
		return ir.Comparator(v), err
	case tagUpdateOperator:
		v, err := binary.ReadUvarint(r)
		return ir.UpdateOperator(v), err
	case tagSwitchCaseParameters:
		b, err := r.ReadByte()
		return ir.SwitchCaseParameters{IsDefault: b != 0}, err
	case tagLoopParameters:
		v, err := binary.ReadUvarint(r)
		return ir.LoopParameters{Comparator: ir.Comparator(v)}, err
	case tagExploreParameters:
		s, err := readString(r)
		return ir.ExploreParameters{ProbeID: s}, err
	default:
		return nil, fmt.Errorf("codec: unknown parameter tag %d", tag)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	out := make([]byte, n)
	if _, err := r.Read(out); err != nil {
		return "", err
	}
	return string(out), nil
}
