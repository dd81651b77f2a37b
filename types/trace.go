package types

// Trace of a solver run, the maximum value change of every sweep
type Trace struct {
	iterations []int
	deltas     []float64
}

func NewTrace() *Trace {
	return &Trace{
		iterations: make([]int, 0),
		deltas:     make([]float64, 0),
	}
}

func (t *Trace) Slice(from, to int) *Trace {
	slicedTrace := NewTrace()
	for i := from; i < to; i++ {
		slicedTrace.Append(t.iterations[i], t.deltas[i])
	}
	return slicedTrace
}

func (t *Trace) Append(iteration int, delta float64) {
	t.iterations = append(t.iterations, iteration)
	t.deltas = append(t.deltas, delta)
}

func (t *Trace) Len() int {
	return len(t.deltas)
}

func (t *Trace) Get(i int) (int, float64, bool) {
	if i < 0 || i >= len(t.deltas) {
		return 0, 0, false
	}
	return t.iterations[i], t.deltas[i], true
}

func (t *Trace) Last() (int, float64, bool) {
	if len(t.deltas) < 1 {
		return 0, 0, false
	}
	lastIndex := len(t.deltas) - 1
	return t.iterations[lastIndex], t.deltas[lastIndex], true
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.deltas) {
		return nil, false
	}
	return &Trace{
		iterations: t.iterations[0:i],
		deltas:     t.deltas[0:i],
	}, true
}

// Deltas returns a copy of the recorded deltas
func (t *Trace) Deltas() []float64 {
	out := make([]float64, len(t.deltas))
	copy(out, t.deltas)
	return out
}
