package ir

import "github.com/google/uuid"

// Comments attaches free-form annotations to instruction indices and to the
// program as a whole — corpus provenance, the mutator chain that produced a
// sample, why a splice donor was picked. Purely diagnostic; never consulted
// by the interpreter or the builder.
type Comments struct {
	ProgramComments []string
	PerInstruction  map[int][]string
}

func (c *Comments) AddProgram(s string) {
	c.ProgramComments = append(c.ProgramComments, s)
}

func (c *Comments) AddInstruction(index int, s string) {
	if c.PerInstruction == nil {
		c.PerInstruction = make(map[int][]string)
	}
	c.PerInstruction[index] = append(c.PerInstruction[index], s)
}

// Program is an ordered, well-formed sequence of Instructions: the unit the
// builder constructs, the interpreter types, the corpus stores, and the
// engines execute. The only legal way to produce one is internal/builder —
// everything else in this package treats a Program as a value to read.
type Program struct {
	UUID uuid.UUID
	Code []Instruction

	// Parent is the donor program a splice or code-generation mutation drew
	// this program's ancestry from, or nil for a program generated from
	// scratch. Kept for provenance/triage only, never walked by execution.
	Parent *Program

	// ProgramTypes holds the abstract interpreter's per-variable inferred
	// Type, populated after a Analyze pass (internal/interp). A variable the
	// interpreter hasn't reached has no entry; TypeOf reports Unknown() for it.
	ProgramTypes map[Variable]Type

	Comments Comments
}

// New returns an empty program with a fresh identity.
func New() *Program {
	return &Program{UUID: uuid.New()}
}

// Size returns the number of instructions.
func (p *Program) Size() int { return len(p.Code) }

// append adds instr to the end of the program, stamping its index. Exported
// only to internal/builder via the Append wrapper below — nothing else
// constructs a well-formed program incrementally.
func (p *Program) append(instr Instruction) Variable {
	instr.index = len(p.Code)
	p.Code = append(p.Code, instr)
	out := NoVariable
	if len(instr.Outputs()) > 0 {
		out = instr.Outputs()[0]
	}
	return out
}

// Append is the single mutating entry point builder.Builder uses to grow a
// program. It lives here, rather than being unexported entirely, because
// splitting IR constructon across two packages would otherwise force public
// access to unexported fields; callers outside internal/builder should treat
// this as append-only construction, never patch a finished Program in place.
func Append(p *Program, instr Instruction) Variable {
	return p.append(instr)
}

// NumVariables returns one past the highest Variable index any instruction
// in the program defines.
func (p *Program) NumVariables() int {
	max := -1
	for _, instr := range p.Code {
		for _, v := range instr.AllOutputs() {
			if int(v) > max {
				max = int(v)
			}
		}
	}
	return max + 1
}

// InstructionFor returns the instruction that defines v, and whether one was
// found — absence is a legitimate data condition (a stale Variable from a
// different program), not a structural violation, so this is comma-ok
// rather than a panic.
func (p *Program) InstructionFor(v Variable) (Instruction, bool) {
	for _, instr := range p.Code {
		for _, out := range instr.AllOutputs() {
			if out == v {
				return instr, true
			}
		}
	}
	return Instruction{}, false
}

// TypeOf returns the interpreter's inferred type for v, or Unknown() if
// ProgramTypes hasn't been populated or doesn't cover v.
func (p *Program) TypeOf(v Variable) Type {
	if p.ProgramTypes == nil {
		return Unknown()
	}
	if t, ok := p.ProgramTypes[v]; ok {
		return t
	}
	return Unknown()
}

// Clone returns a deep-enough copy of p for a mutator to modify without
// aliasing the original's instruction slice. Parameters values are plain
// data (value or immutable pointer) so a shallow per-instruction copy is
// sufficient; only the Code and ProgramTypes backing arrays need to be
// fresh.
func (p *Program) Clone() *Program {
	clone := &Program{
		UUID:   uuid.New(),
		Parent: p,
		Code:   make([]Instruction, len(p.Code)),
	}
	copy(clone.Code, p.Code)
	if p.ProgramTypes != nil {
		clone.ProgramTypes = make(map[Variable]Type, len(p.ProgramTypes))
		for k, v := range p.ProgramTypes {
			clone.ProgramTypes[k] = v
		}
	}
	return clone
}
