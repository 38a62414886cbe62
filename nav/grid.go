package nav

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrBadGrid = errors.New("nav: invalid grid")

// Grid is a walkability grid in world space. Cell (0,0) has its lower-left
// corner at Origin.
type Grid struct {
	CellSize float64
	Width    int
	Height   int
	Origin   cp.Vector

	blocked []bool
}

type gridPos struct {
	x int
	y int
}

func NewGrid(width, height int, cellSize float64, origin cp.Vector) (*Grid, error) {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cell=%v", ErrBadGrid, width, height, cellSize)
	}
	return &Grid{
		CellSize: cellSize,
		Width:    width,
		Height:   height,
		Origin:   origin,
		blocked:  make([]bool, width*height),
	}, nil
}

// ParseGrid builds a grid from text rows where '#' marks a wall. The first
// row is the top of the map.
func ParseGrid(rows []string, cellSize float64, origin cp.Vector) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadGrid)
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	g, err := NewGrid(width, len(rows), cellSize, origin)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		y := len(rows) - 1 - i
		for x, ch := range []byte(row) {
			if ch == '#' {
				g.SetBlocked(x, y, true)
			}
		}
	}
	return g, nil
}

func (g *Grid) SetBlocked(x, y int, blocked bool) {
	if !g.inBounds(gridPos{x: x, y: y}) {
		return
	}
	g.blocked[y*g.Width+x] = blocked
}

func (g *Grid) Blocked(x, y int) bool {
	p := gridPos{x: x, y: y}
	if !g.inBounds(p) {
		return true
	}
	return g.blocked[y*g.Width+x]
}

// Walkable reports whether the world point lies on an open cell.
func (g *Grid) Walkable(p cp.Vector) bool {
	c, ok := g.cell(p)
	return ok && !g.blocked[c.y*g.Width+c.x]
}

// Bounds returns the world-space extent of the grid.
func (g *Grid) Bounds() cp.BB {
	return cp.BB{
		L: g.Origin.X,
		B: g.Origin.Y,
		R: g.Origin.X + float64(g.Width)*g.CellSize,
		T: g.Origin.Y + float64(g.Height)*g.CellSize,
	}
}

// CellCenter returns the world-space center of a cell.
func (g *Grid) CellCenter(x, y int) cp.Vector {
	half := g.CellSize * 0.5
	return cp.Vector{
		X: g.Origin.X + float64(x)*g.CellSize + half,
		Y: g.Origin.Y + float64(y)*g.CellSize + half,
	}
}

func (g *Grid) inBounds(p gridPos) bool {
	return p.x >= 0 && p.y >= 0 && p.x < g.Width && p.y < g.Height
}

func (g *Grid) cell(p cp.Vector) (gridPos, bool) {
	gp := gridPos{
		x: int(math.Floor((p.X - g.Origin.X) / g.CellSize)),
		y: int(math.Floor((p.Y - g.Origin.Y) / g.CellSize)),
	}
	return gp, g.inBounds(gp)
}

// Nearest returns the center of the closest open cell to p within
// maxDistance.
func (g *Grid) Nearest(p cp.Vector, maxDistance float64) (cp.Vector, bool) {
	if g.Walkable(p) {
		return p, true
	}
	best := cp.Vector{}
	bestDist := math.Inf(1)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.blocked[y*g.Width+x] {
				continue
			}
			c := g.CellCenter(x, y)
			if d := c.Distance(p); d < bestDist {
				best, bestDist = c, d
			}
		}
	}
	if math.IsInf(bestDist, 1) || bestDist > maxDistance {
		return cp.Vector{}, false
	}
	return best, true
}

// FindPath returns world-space waypoints from start to goal. The final
// waypoint is goal itself so agents stop on the exact point rather than a
// cell center. ok is false when either end is blocked or no route exists.
func (g *Grid) FindPath(start, goal cp.Vector) (path []cp.Vector, ok bool) {
	s, okS := g.cell(start)
	t, okT := g.cell(goal)
	if !okS || !okT {
		return nil, false
	}
	cells := astarPath(s, t, g.blocked, g.Width, g.Height)
	if len(cells) == 0 {
		return nil, false
	}
	path = make([]cp.Vector, 0, len(cells))
	// skip the start cell, the agent is already inside it
	for _, c := range cells[1:] {
		path = append(path, g.CellCenter(c.x, c.y))
	}
	if len(path) > 0 {
		path[len(path)-1] = goal
	} else {
		path = append(path, goal)
	}
	return path, true
}

func astarPath(start, goal gridPos, blocked []bool, gridW, gridH int) []gridPos {
	if start.x < 0 || start.y < 0 || goal.x < 0 || goal.y < 0 {
		return nil
	}
	if start.x >= gridW || start.y >= gridH || goal.x >= gridW || goal.y >= gridH {
		return nil
	}
	if blocked[start.y*gridW+start.x] || blocked[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal), g: 0})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		cur := current.pos
		curIdx := cur.y*gridW + cur.x
		if current.g > gScore[curIdx] {
			continue // stale entry
		}

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		for _, n := range neighbors(cur, gridW, gridH) {
			idx := n.y*gridW + n.x
			if blocked[idx] {
				continue
			}
			tentativeG := gScore[curIdx] + 1
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				f := tentativeG + heuristic(n, goal)
				heap.Push(open, &openItem{pos: n, f: f, g: tentativeG})
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if goalIdx < 0 || goalIdx >= len(cameFrom) || cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	cur := goalIdx
	for cur != -1 {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
		cur = cameFrom[cur]
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, gridW, gridH int) []gridPos {
	out := make([]gridPos, 0, 4)
	if p.x > 0 {
		out = append(out, gridPos{x: p.x - 1, y: p.y})
	}
	if p.x < gridW-1 {
		out = append(out, gridPos{x: p.x + 1, y: p.y})
	}
	if p.y > 0 {
		out = append(out, gridPos{x: p.x, y: p.y - 1})
	}
	if p.y < gridH-1 {
		out = append(out, gridPos{x: p.x, y: p.y + 1})
	}
	return out
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.y-b.y))
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
