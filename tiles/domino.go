package tiles

import "fmt"

// A Domino is a pair of sides. The number is only used to tell dominoes
// apart in a catalog; it plays no part in equality.
type Domino struct {
	a, b   Side
	number int
}

// Key is the canonical, order-insensitive identity of a domino. Two dominoes
// with the same sides (in either order) have the same Key.
type Key struct {
	lo, hi Side
}

func NewDomino(a, b Side, number int) Domino {
	return Domino{a: a, b: b, number: number}
}

func (d Domino) SideA() Side { return d.a }
func (d Domino) SideB() Side { return d.b }
func (d Domino) Number() int { return d.number }

// Key returns the canonical key with the two sides sorted.
func (d Domino) Key() Key {
	if d.b.less(d.a) {
		return Key{lo: d.b, hi: d.a}
	}
	return Key{lo: d.a, hi: d.b}
}

// Equal compares side pairs in either order and ignores the number.
func (d Domino) Equal(o Domino) bool {
	return d.Key() == o.Key()
}

// OtherSide returns the side that is not s. Asking for the other side of
// a side this domino doesn't have is a bug in the caller.
func (d Domino) OtherSide(s Side) Side {
	switch s {
	case d.a:
		return d.b
	case d.b:
		return d.a
	}
	panic(fmt.Sprintf("side %v is not on domino %v", s, d))
}

func (d Domino) Crowns() int {
	return int(d.a.crowns) + int(d.b.crowns)
}

func (d Domino) String() string {
	return fmt.Sprintf("#%d [%v | %v]", d.number, d.a, d.b)
}

// Remove returns a copy of ds without the first domino equal to d. The
// second return value is false if no such domino was found.
func Remove(ds []Domino, d Domino) ([]Domino, bool) {
	for i := range ds {
		if ds[i].Equal(d) {
			out := make([]Domino, 0, len(ds)-1)
			out = append(out, ds[:i]...)
			return append(out, ds[i+1:]...), true
		}
	}
	return ds, false
}
