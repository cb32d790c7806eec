package board

import "fmt"

const (
	// GridDim is the side of the square grid coordinates are linearized on.
	GridDim = 9
	// MaxWidth is the largest number of rows or columns a board may span,
	// castle included.
	MaxWidth = 5

	CastleI = 4
	CastleJ = 4
)

// Coord is a grid position.
type Coord struct {
	I, J int
}

// Castle is where the castle sits on every board.
var Castle = Coord{I: CastleI, J: CastleJ}

// ID linearizes a coordinate. Only coordinates inside the grid have IDs.
func (c Coord) ID() int {
	return c.I*GridDim + c.J
}

// InGrid is true if c has an ID.
func (c Coord) InGrid() bool {
	return c.I >= 0 && c.I < GridDim && c.J >= 0 && c.J < GridDim
}

// CoordFromID reverses ID.
func CoordFromID(id int) Coord {
	return Coord{I: id / GridDim, J: id % GridDim}
}

// Neighbors returns the four orthogonal neighbors of c.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{{I: c.I + 1, J: c.J}, {I: c.I, J: c.J + 1}, {I: c.I - 1, J: c.J}, {I: c.I, J: c.J - 1}}
}

// Adjacent is true if c and o are one orthogonal step apart.
func (c Coord) Adjacent(o Coord) bool {
	di, dj := c.I-o.I, c.J-o.J
	return di*di+dj*dj == 1
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.I, c.J)
}

// Bounds is the bounding box of all occupied cells.
type Bounds struct {
	IMin, IMax, JMin, JMax int
}

// Extend returns the bounds grown to include c.
func (b Bounds) Extend(c Coord) Bounds {
	return Bounds{
		IMin: min(b.IMin, c.I), IMax: max(b.IMax, c.I),
		JMin: min(b.JMin, c.J), JMax: max(b.JMax, c.J),
	}
}

// Fits is true if the box spans fewer than MaxWidth+1 rows and columns.
func (b Bounds) Fits() bool {
	return b.IMax-b.IMin < MaxWidth && b.JMax-b.JMin < MaxWidth
}

func (b Bounds) Width() int  { return b.JMax - b.JMin + 1 }
func (b Bounds) Height() int { return b.IMax - b.IMin + 1 }
