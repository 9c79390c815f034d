package game

// SpatialCellSize is about twice the radius of a cell at a few hundred mass.
const SpatialCellSize = 100.0

// SpatialGrid buckets food indices for broad-phase pickup queries.
type SpatialGrid struct {
	cols  int
	rows  int
	cells [][]int
}

func NewSpatialGrid(worldW, worldH float64) SpatialGrid {
	cols := int(worldW/SpatialCellSize) + 1
	rows := int(worldH/SpatialCellSize) + 1
	return SpatialGrid{cols: cols, rows: rows, cells: make([][]int, cols*rows)}
}

// Clear resets all buckets, keeping their capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) bucket(cx, cy int) (int, int) {
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

func (g *SpatialGrid) Insert(x, y float64, idx int) {
	cx, cy := g.bucket(int(x/SpatialCellSize), int(y/SpatialCellSize))
	i := cy*g.cols + cx
	g.cells[i] = append(g.cells[i], idx)
}

// QueryBuf appends every index in buckets overlapping the circle's bounding box.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	minCX, minCY := g.bucket(int((x-radius)/SpatialCellSize), int((y-radius)/SpatialCellSize))
	maxCX, maxCY := g.bucket(int((x+radius)/SpatialCellSize), int((y+radius)/SpatialCellSize))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
