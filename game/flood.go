package game

import "github.com/gammazero/deque"

type NeighborGetter func(*Cell) []*Cell
type Visitor func(*Cell)

// flood visits start and then, breadth first, every cell getNeighbors yields
// for an already visited cell. Each cell is visited at most once.
func flood(start *Cell, visit Visitor, getNeighbors NeighborGetter) int {
	visited := map[int]struct{}{start.idx: {}}

	var visitQueue deque.Deque[*Cell]
	visitQueue.PushBack(start)

	for visitQueue.Len() > 0 {
		cell := visitQueue.PopFront()
		visit(cell)

		for _, neighbor := range getNeighbors(cell) {
			if _, alreadyVisited := visited[neighbor.idx]; alreadyVisited {
				continue
			}
			visited[neighbor.idx] = struct{}{}
			visitQueue.PushBack(neighbor)
		}
	}

	return len(visited)
}
