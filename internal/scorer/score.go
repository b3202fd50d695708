// Package scorer ranks Gomoku candidate moves with attack and defense
// heuristics and detects the line patterns that force a reply.
//
// Everything here is a pure function of the board: nothing is cached
// between calls and the board is never mutated.
package scorer

import (
	"math"
	"sort"

	"github.com/ExploreNcrack/Comput496/pkg/board"
)

const (
	// WinScore is returned by AttackScore for a move that completes five.
	WinScore = 1e12
	// OpenFourScore is returned by AttackScore for a move that creates an open four.
	OpenFourScore = 1e11
)

// attackTable scores the run a move would join, indexed by run length.
var attackTable = [6]float64{0, 1, 500, 1300, 2000, 10000000}

// defenseTable scores an opponent run adjacent to the move, indexed by length.
var defenseTable = [5]float64{0, 200, 400, 2100, 100000}

// line describes the run through a point in one direction.
type line struct {
	count  int // stones of the color, the point itself included
	open   int // ends that are empty
	border int // ends that are the board edge
	room   int // empty cells beyond both ends
}

// lineThrough measures the run color would have through p along d if p held color.
func lineThrough(b *board.Board, p, d board.Point, color board.Color) line {
	l := line{count: 1}
	for _, s := range [2]board.Point{d, -d} {
		q := p + s
		for b.Get(q) == color {
			l.count++
			q += s
		}
		switch b.Get(q) {
		case board.Empty:
			l.open++
			for r := q; b.Get(r) == board.Empty; r += s {
				l.room++
			}
		case board.Border:
			l.border++
		}
	}
	return l
}

func (l line) attack() float64 {
	base := attackTable[min(l.count, 5)]
	score := base
	if l.room+l.count < 5 {
		score -= base/2 + 3
	}
	if l.room+l.count > 5 {
		score += math.Pow(1.3, float64(l.room+l.count-5))
	}
	if l.count < 5 && l.border != 2 {
		switch l.open {
		case 0:
			score -= base/2 + 3
		case 1:
			score -= base / 3
		}
	}
	return score
}

// AttackScore rates p as a move for color by the runs it would extend.
// Completing five returns WinScore and creating an open four returns
// OpenFourScore regardless of the other directions.
func AttackScore(b *board.Board, p board.Point, color board.Color) float64 {
	var score float64
	openFour := false
	for _, d := range b.Directions() {
		l := lineThrough(b, p, d, color)
		if l.count >= 5 {
			return WinScore
		}
		if l.count == 4 && l.open == 2 {
			openFour = true
		}
		score += l.attack()
	}
	if openFour {
		return OpenFourScore
	}
	return score
}

// DefenseScore rates p as a move for color by the opponent runs it would cut.
func DefenseScore(b *board.Board, p board.Point, color board.Color) float64 {
	opp := color.Opponent()
	var score float64
	for _, d := range b.Directions() {
		for _, s := range [2]board.Point{d, -d} {
			n := 0
			for q := p + s; b.Get(q) == opp; q += s {
				n++
			}
			score += defenseTable[min(n, 4)]
		}
	}
	return score
}

// Score is the combined attack and defense value of p for color.
func Score(b *board.Board, p board.Point, color board.Color) float64 {
	a := AttackScore(b, p, color)
	if a >= OpenFourScore {
		return a
	}
	return a + DefenseScore(b, p, color)
}

// Rank returns moves sorted by Score for color, best first. Equal scores
// keep the lower point first. The input slice is not modified.
func Rank(b *board.Board, moves []board.Point, color board.Color) []board.Point {
	type scored struct {
		p     board.Point
		score float64
	}
	list := make([]scored, len(moves))
	for i, m := range moves {
		list[i] = scored{m, Score(b, m, color)}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].p < list[j].p
	})
	out := make([]board.Point, len(list))
	for i, s := range list {
		out[i] = s.p
	}
	return out
}

// Ranking is the result of Scan.
type Ranking struct {
	Moves     []board.Point
	Win       bool // Moves[0] completes five
	MustBlock bool // the opponent threatens; Moves holds blocking moves when any exist
}

// Scan orders candidate moves for color. A move completing five is put
// first and returned at once. Otherwise, when the opponent threatens to win
// the candidates are pruned: to the opponent's five-completing points when
// it has any, else to the moves that block its open four or free threes.
// Otherwise all candidates are ranked by Score.
func Scan(b *board.Board, moves []board.Point, color board.Color) Ranking {
	for i, m := range moves {
		if AttackScore(b, m, color) >= WinScore {
			out := append([]board.Point{m}, moves[:i]...)
			out = append(out, moves[i+1:]...)
			return Ranking{Moves: out, Win: true}
		}
	}

	ranked := Rank(b, moves, color)
	if !Threatens(b, color.Opponent()) {
		return Ranking{Moves: ranked}
	}

	// A five next move can only be stopped on its own point; anything wider
	// lets an attacking move outrank the block.
	threats := WinMoves(b, color.Opponent())
	if len(threats) == 0 {
		threats = BlockingMoves(b, color)
	}
	block := make(map[board.Point]bool, len(threats))
	for _, p := range threats {
		block[p] = true
	}
	var pruned []board.Point
	for _, m := range ranked {
		if block[m] {
			pruned = append(pruned, m)
		}
	}
	if len(pruned) == 0 {
		// Nothing blocks; every move loses, keep the ranking.
		return Ranking{Moves: ranked, MustBlock: true}
	}
	return Ranking{Moves: pruned, MustBlock: true}
}
