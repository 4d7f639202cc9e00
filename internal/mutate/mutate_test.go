package mutate

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecmafuzz/internal/builder"
	"ecmafuzz/internal/config"
	"ecmafuzz/internal/corpus"
	"ecmafuzz/internal/ir"
	"ecmafuzz/internal/jsenv"
)

// constGenerator always emits a single integer literal; used to give the
// insertion/code-generation mutators something deterministic to insert.
type constGenerator struct{}

func (constGenerator) Name() string               { return "const" }
func (constGenerator) RequiredContext() ir.Context { return ir.ContextNone }
func (g constGenerator) Generate(b *builder.Builder) {
	b.LoadInteger(7)
}

func simplePool() []builder.Generator {
	return []builder.Generator{constGenerator{}}
}

func buildParent(t *testing.T) *ir.Program {
	t.Helper()
	b := builder.New(builder.ModeConservative, jsenv.Default(), rand.New(rand.NewSource(3)))
	v0 := b.LoadInteger(42)
	v1 := b.LoadInteger(1)
	v2 := b.LoadInteger(2)
	v3 := b.LoadInteger(3)
	b.BinaryOperation(ir.BinaryAdd, v0, v1)
	b.CompareOperation(ir.CompareEqual, v2, v3)
	return b.Finalize()
}

func testCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c := corpus.New(config.CorpusConfig{MaxSize: 10, MinSize: 1, MinMutationsPerSample: 99}, rand.New(rand.NewSource(9)))
	require.NoError(t, c.Add(buildParent(t)))
	return c
}

func TestInsertionMutator_GrowsProgram(t *testing.T) {
	parent := buildParent(t)
	m := NewInsertionMutator(simplePool())
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Greater(t, child.Size(), parent.Size())
}

func TestInsertionMutator_RefusesWithEmptyPool(t *testing.T) {
	m := NewInsertionMutator(nil)
	_, ok := m.Mutate(buildParent(t), jsenv.Default(), rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestCodeGenerationMutator_InsertsABurst(t *testing.T) {
	parent := buildParent(t)
	m := NewCodeGenerationMutator(simplePool())
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.GreaterOrEqual(t, child.Size(), parent.Size()+m.MinBurst)
}

func TestOperationMutator_SwapsAtLeastOneParameter(t *testing.T) {
	parent := buildParent(t)
	m := &OperationMutator{Probability: 1.0}
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Equal(t, parent.Size(), child.Size())

	changed := false
	for i := range parent.Code {
		if parent.Code[i].Parameters != child.Code[i].Parameters {
			changed = true
		}
	}
	assert.True(t, changed)
}

func TestOperationMutator_RefusesWhenNothingSwappable(t *testing.T) {
	b := builder.New(builder.ModeConservative, jsenv.Default(), rand.New(rand.NewSource(1)))
	b.LoadUndefined()
	parent := b.Finalize()

	m := &OperationMutator{Probability: 1.0}
	_, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

func TestInputMutator_SwapsAnInput(t *testing.T) {
	parent := buildParent(t)
	m := &InputMutator{Probability: 1.0}

	var child *ir.Program
	ok := false
	for seed := int64(1); seed <= 50 && !ok; seed++ {
		child, ok = m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(seed)))
	}
	require.True(t, ok, "expected at least one of 50 seeds to find a distinct same-type variable to swap in")
	assert.Equal(t, parent.Size(), child.Size())
}

func TestSpliceMutator_GraftsDonorRange(t *testing.T) {
	parent := buildParent(t)
	c := testCorpus(t)
	m := NewSpliceMutator(c)
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(4)))
	require.True(t, ok)
	assert.Greater(t, child.Size(), parent.Size()-1)
}

func TestCombineMutator_AppendsWholeDonor(t *testing.T) {
	parent := buildParent(t)
	c := testCorpus(t)
	m := NewCombineMutator(c)
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(5)))
	require.True(t, ok)
	assert.GreaterOrEqual(t, child.Size(), parent.Size()*2)
}

func TestProbingMutator_InsertsProbeOrTypeof(t *testing.T) {
	parent := buildParent(t)
	m := NewProbingMutator()
	child, ok := m.Mutate(parent, jsenv.Default(), rand.New(rand.NewSource(6)))
	require.True(t, ok)
	assert.Greater(t, child.Size(), parent.Size())
}

func TestPool_PickRetriesADifferentMutatorOnRefusal(t *testing.T) {
	parent := buildParent(t)
	refusing := NewInsertionMutator(nil) // always refuses: empty pool
	accepting := NewProbingMutator()
	pool := NewPool(rand.New(rand.NewSource(1)), refusing, accepting)

	child, chosen, ok := pool.Pick(parent, jsenv.Default())
	require.True(t, ok)
	assert.Same(t, accepting, chosen)
	assert.NotNil(t, child)
}

func TestStats_RecordsValidAndInvalidSeparately(t *testing.T) {
	var s Stats
	s.RecordValid()
	s.RecordValid()
	s.RecordInvalid()
	valid, invalid := s.Counts()
	assert.Equal(t, 2, valid)
	assert.Equal(t, 1, invalid)
}
