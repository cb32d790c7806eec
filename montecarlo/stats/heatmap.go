package stats

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/castlebuilder/kingmaker/board"
	"github.com/castlebuilder/kingmaker/montecarlo"
)

var ErrNoSamples = errors.New("no playout samples; turn on sample collection first")

type Heat struct {
	numHits       int
	fractionOfMax float64
}

// HeatMap shows where the kingdom tends to grow in the playouts that
// follow a move.
type HeatMap struct {
	board   *board.Board
	squares [board.GridDim][board.GridDim]Heat
}

// CalculateHeatmap builds a heat map for ev, played on b. Cells already
// occupied on b are left cold.
func CalculateHeatmap(b *board.Board, ev *montecarlo.EvaluatedMove) (*HeatMap, error) {
	if len(ev.Samples()) == 0 {
		return nil, ErrNoSamples
	}
	h := &HeatMap{board: b}
	maxNumHits := 0
	for ri := range h.squares {
		for ci := range h.squares[ri] {
			c := board.Coord{I: ri, J: ci}
			if b.Occupied(c) {
				continue
			}
			n := ev.Occupancy(c)
			h.squares[ri][ci].numHits = n
			if n > maxNumHits {
				maxNumHits = n
			}
		}
	}
	log.Debug().Int("max-hits", maxNumHits).Int("samples", len(ev.Samples())).Msg("heatmap-calculated")
	if maxNumHits == 0 {
		return h, nil
	}
	for ri := range h.squares {
		for ci := range h.squares[ri] {
			h.squares[ri][ci].fractionOfMax = float64(h.squares[ri][ci].numHits) / float64(maxNumHits)
		}
	}
	return h, nil
}

// Fraction is the heat at c, from 0 to 1.
func (h *HeatMap) Fraction(c board.Coord) float64 {
	if !c.InGrid() {
		return 0
	}
	return h.squares[c.I][c.J].fractionOfMax
}

// heatColor maps a heat level onto the 256-color grayscale ramp, 232
// (black) to 255 (white).
func heatColor(out *termenv.Output, fraction float64) termenv.Color {
	code := 232 + int(fraction*float64(255-232))
	return out.Color(strconv.Itoa(code))
}

// Display renders the heat map to w. Shading is dropped when w is not a
// color terminal.
func (h *HeatMap) Display(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for ri, row := range h.squares {
		for ci, heat := range row {
			label := "  "
			if s, ok := h.board.At(board.Coord{I: ri, J: ci}); ok {
				label = s.Terrain().Abbrev()
			}
			fmt.Fprint(w, out.String(label).Background(heatColor(out, heat.fractionOfMax)))
		}
		fmt.Fprintln(w)
	}
}

// Normalize collapses whitespace so a typed-in move description can be
// matched against ShortDescription.
func Normalize(p string) string {
	return strings.ToLower(strings.Join(strings.Fields(p), " "))
}

// SimStats summarizes the evaluations of one candidate set.
type SimStats struct {
	evals []*montecarlo.EvaluatedMove
	hist  histogram.Histogram
}

func NewSimStats(evals []*montecarlo.EvaluatedMove) *SimStats {
	return &SimStats{evals: evals}
}

// Find looks up an evaluation by its short description.
func (st *SimStats) Find(play string) (*montecarlo.EvaluatedMove, error) {
	normalized := Normalize(play)
	for _, ev := range st.evals {
		if Normalize(ev.Move().ShortDescription()) == normalized {
			return ev, nil
		}
	}
	return nil, fmt.Errorf("play %q was not evaluated", play)
}

type scoreCount struct {
	score int
	count int
}

// CalculatePlayStats tabulates how often each final score came up in the
// playouts after play, and remembers a histogram of them.
func (st *SimStats) CalculatePlayStats(play string) (string, error) {
	ev, err := st.Find(play)
	if err != nil {
		return "", err
	}
	samples := ev.Samples()
	if len(samples) == 0 {
		return "", ErrNoSamples
	}
	counts := map[int]int{}
	for _, s := range samples {
		counts[int(s)]++
	}
	l := make([]scoreCount, 0, len(counts))
	for score, count := range counts {
		l = append(l, scoreCount{score, count})
	}
	sort.Slice(l, func(i, j int) bool {
		if l[i].count == l[j].count {
			return l[i].score > l[j].score
		}
		return l[i].count > l[j].count
	})

	var ss strings.Builder
	fmt.Fprintf(&ss, "### Final scores after %s\n", ev.Move().ShortDescription())
	fmt.Fprintf(&ss, "%-9s%-9s%-16s\n", "Score", "Count", "% of time")
	for _, sc := range l {
		fmt.Fprintf(&ss, "%-9d%-9d%-16.2f\n", sc.score, sc.count,
			float64(sc.count*100)/float64(len(samples)))
	}
	st.hist = histogram.Hist(15, samples)
	return ss.String(), nil
}

func (st *SimStats) LastHistogram() histogram.Histogram {
	return st.hist
}

// PrintHistogram writes the last calculated histogram to w.
func (st *SimStats) PrintHistogram(w io.Writer, width int) error {
	return histogram.Fprint(w, st.hist, histogram.Linear(width))
}

// Summary lists up to maxToDisplay evaluations, best mean first.
func (st *SimStats) Summary(maxToDisplay int) string {
	sorted := make([]*montecarlo.EvaluatedMove, len(st.evals))
	copy(sorted, st.evals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Mean() > sorted[j].Mean()
	})
	var ss strings.Builder
	fmt.Fprintf(&ss, "%-36s%-9s%-9s%-20s%-9s\n", "Play", "Mean", "Stdev", "95% CI", "Playouts")
	for i, ev := range sorted {
		if i >= maxToDisplay {
			break
		}
		low, high := ev.ConfidenceInterval()
		fmt.Fprintf(&ss, "%-36s%-9.2f%-9.2f%-20s%-9d\n", ev.Move().ShortDescription(),
			ev.Mean(), ev.Stats().Stdev(), fmt.Sprintf("[%.2f, %.2f]", low, high), ev.Playouts())
	}
	return ss.String()
}
