package board

import "sync"

// topology holds the lookup tables shared by every board of one size:
// neighbor lists, the playable point list and the Zobrist keys.
type topology struct {
	size      int
	ns        int
	maxpoint  int
	points    []Point
	neighbors [][4]Point
	diagonals [][4]Point
	stones    []uint64
	side      uint64
}

type topologyStore struct {
	mu     sync.Mutex
	bySize map[int]*topology
}

var topologies = &topologyStore{bySize: make(map[int]*topology)}

func topologyFor(size int) *topology {
	topologies.mu.Lock()
	defer topologies.mu.Unlock()
	if t, ok := topologies.bySize[size]; ok {
		return t
	}
	t := newTopology(size)
	topologies.bySize[size] = t
	return t
}

func newTopology(size int) *topology {
	ns := size + 1
	t := &topology{
		size:     size,
		ns:       ns,
		maxpoint: size*size + 3*(size+1),
	}
	t.neighbors = make([][4]Point, t.maxpoint)
	t.diagonals = make([][4]Point, t.maxpoint)
	for row := 1; row <= size; row++ {
		for col := 1; col <= size; col++ {
			p := Point(row*ns + col)
			t.points = append(t.points, p)
			n := Point(ns)
			t.neighbors[p] = [4]Point{p - n, p - 1, p + 1, p + n}
			t.diagonals[p] = [4]Point{p - n - 1, p - n + 1, p + n - 1, p + n + 1}
		}
	}

	rng := splitmix64{state: 0x9e3779b97f4a7c15 ^ uint64(size)}
	t.stones = make([]uint64, t.maxpoint*2)
	for i := range t.stones {
		t.stones[i] = rng.next()
	}
	t.side = rng.next()
	return t
}

// stoneKey returns the Zobrist key of a stone of color c on point p.
func (t *topology) stoneKey(p Point, c Color) uint64 {
	idx := int(p) * 2
	if c == White {
		idx++
	}
	return t.stones[idx]
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
