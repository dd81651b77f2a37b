package solver

import (
	"github.com/zeu5/value-iteration/types"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// sweeper computes one synchronous Bellman backup of every state.
// Each chunk of states is owned by exactly one goroutine and only
// reads the frozen value table of the previous sweep.
type sweeper[S, A comparable] struct {
	mdp    *types.MDP[S, A]
	gamma  float64
	chunks [][2]int
	// per chunk scratch space
	rows [][]float64
	qs   [][]float64
}

func newSweeper[S, A comparable](m *types.MDP[S, A], gamma float64, workers int) *sweeper[S, A] {
	n := len(m.States)
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers

	s := &sweeper[S, A]{
		mdp:    m,
		gamma:  gamma,
		chunks: make([][2]int, 0, workers),
		rows:   make([][]float64, 0, workers),
		qs:     make([][]float64, 0, workers),
	}
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		s.chunks = append(s.chunks, [2]int{lo, hi})
		s.rows = append(s.rows, make([]float64, n))
		s.qs = append(s.qs, make([]float64, len(m.Actions)))
	}
	return s
}

// sweep writes the backed up value of every state into next
func (s *sweeper[S, A]) sweep(values, next []float64) {
	if len(s.chunks) == 1 {
		s.backup(0, values, next)
		return
	}
	var g errgroup.Group
	for c := range s.chunks {
		c := c
		g.Go(func() error {
			s.backup(c, values, next)
			return nil
		})
	}
	g.Wait()
}

func (s *sweeper[S, A]) backup(c int, values, next []float64) {
	lo, hi := s.chunks[c][0], s.chunks[c][1]
	for i := lo; i < hi; i++ {
		s.mdp.QValues(values, s.mdp.States[i], s.gamma, s.rows[c], s.qs[c])
		next[i] = floats.Max(s.qs[c])
	}
}

// greedy picks, for every state, the first action in enumeration order
// with the largest Q value
func (s *sweeper[S, A]) greedy(values []float64) types.Policy[S, A] {
	policy := make(types.Policy[S, A], len(s.mdp.States))
	row, q := s.rows[0], s.qs[0]
	for _, state := range s.mdp.States {
		s.mdp.QValues(values, state, s.gamma, row, q)
		policy[state] = s.mdp.Actions[floats.MaxIdx(q)]
	}
	return policy
}
