package game

import "container/heap"

// UnreachableDistance is the sentinel ConnectionDistance reports when the
// opponent has severed every candidate chain on an n×n board. It is larger
// than any real distance, which never exceeds n·n.
func UnreachableDistance(n int) int { return n*n + 1 }

// bridgePatterns are the six two-bridge destinations and, for each, the two
// carrier cells realizing the virtual connection. A destination is a cell
// two steps away sharing exactly two common neighbors with the origin; the
// carriers are those common neighbors. All deltas are (row, col).
var bridgePatterns = [6]struct {
	target   [2]int
	carriers [2][2]int
}{
	{target: [2]int{-2, 1}, carriers: [2][2]int{{-1, 0}, {-1, 1}}},
	{target: [2]int{2, -1}, carriers: [2][2]int{{1, 0}, {1, -1}}},
	{target: [2]int{-1, -1}, carriers: [2][2]int{{-1, 0}, {0, -1}}},
	{target: [2]int{1, 1}, carriers: [2][2]int{{1, 0}, {0, 1}}},
	{target: [2]int{-1, 2}, carriers: [2][2]int{{-1, 1}, {0, 1}}},
	{target: [2]int{1, -2}, carriers: [2][2]int{{1, -1}, {0, -1}}},
}

type pathNode struct {
	row, col int
	dist     int
}

type pathQueue []pathNode

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(pathNode)) }

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// ConnectionDistance returns the minimum number of currently-empty cells the
// side must fill to connect its two target edges: own stones cost nothing,
// empty cells cost one, opponent stones are impassable. With bridges
// enabled, a two-bridge destination with both carriers empty is one step
// away despite spanning two cells. A raw distance of at most one is
// reported as zero: the side completes a chain on its next placement.
func ConnectionDistance(b *Board, s Side, bridges bool) int {
	n := b.size
	stone := s.Stone()
	unreachable := UnreachableDistance(n)
	dist := make([]int, n*n)
	for i := range dist {
		dist[i] = unreachable
	}

	queue := &pathQueue{}
	for i := 0; i < n; i++ {
		row, col := 0, i
		if s == White {
			row, col = i, 0
		}
		switch b.cells[b.index(row, col)] {
		case stone:
			dist[b.index(row, col)] = 0
			heap.Push(queue, pathNode{row: row, col: col})
		case Empty:
			dist[b.index(row, col)] = 1
			heap.Push(queue, pathNode{row: row, col: col, dist: 1})
		}
	}

	for queue.Len() > 0 {
		cur := heap.Pop(queue).(pathNode)
		if cur.dist > dist[b.index(cur.row, cur.col)] {
			continue // stale queue entry
		}
		goal := cur.row
		if s == White {
			goal = cur.col
		}
		if goal == n-1 {
			// The first goal-edge pop carries the minimum distance.
			if cur.dist <= 1 {
				return 0
			}
			return cur.dist
		}

		for _, d := range neighborOffsets {
			row, col := cur.row+d[0], cur.col+d[1]
			if !b.inBounds(row, col) {
				continue
			}
			cost := cur.dist
			switch b.cells[b.index(row, col)] {
			case stone:
			case Empty:
				cost++
			default:
				continue
			}
			if cost < dist[b.index(row, col)] {
				dist[b.index(row, col)] = cost
				heap.Push(queue, pathNode{row: row, col: col, dist: cost})
			}
		}

		if !bridges {
			continue
		}
		for _, p := range bridgePatterns {
			row, col := cur.row+p.target[0], cur.col+p.target[1]
			if !b.inBounds(row, col) || b.cells[b.index(row, col)] != Empty {
				continue
			}
			blocked := false
			for _, c := range p.carriers {
				cr, cc := cur.row+c[0], cur.col+c[1]
				if !b.inBounds(cr, cc) || b.cells[b.index(cr, cc)] != Empty {
					blocked = true
					break
				}
			}
			if blocked {
				continue
			}
			cost := cur.dist + 1
			if cost < dist[b.index(row, col)] {
				dist[b.index(row, col)] = cost
				heap.Push(queue, pathNode{row: row, col: col, dist: cost})
			}
		}
	}
	return unreachable
}

// Evaluate scores a position from the given side's perspective; higher is
// better for that side. Implementations stay strictly inside the searcher's
// terminal score band.
type Evaluate func(b *Board, pov Side) int32

// EvaluateConnectivity is the default evaluation: the weighted difference of
// connection distances. The weight on the own distance exceeds the weight on
// the opponent's by one, so among moves leaving the opponent equally far the
// evaluation prefers shortening the own chain.
func EvaluateConnectivity(b *Board, pov Side) int32 {
	return evaluateConnectivity(b, pov, 10, 11, true)
}

// ConnectivityEvaluator builds a connection-distance evaluation with the
// given weights: oppWeight·d(opponent) − ownWeight·d(own).
func ConnectivityEvaluator(oppWeight, ownWeight int, bridges bool) Evaluate {
	return func(b *Board, pov Side) int32 {
		return evaluateConnectivity(b, pov, oppWeight, ownWeight, bridges)
	}
}

func evaluateConnectivity(b *Board, pov Side, oppWeight, ownWeight int, bridges bool) int32 {
	own := ConnectionDistance(b, pov, bridges)
	opp := ConnectionDistance(b, pov.Opponent(), bridges)
	return int32(oppWeight*opp - ownWeight*own)
}
