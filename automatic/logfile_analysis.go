package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/castlebuilder/kingmaker/stats"
)

// AnalyzeLogFile reads a results file written by WriteResults and
// summarizes the scores of every player in it.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return analyzeResults(file)
}

func analyzeResults(in io.Reader) (string, error) {
	r := csv.NewReader(in)

	byPlayer := map[string]*stats.Statistic{}
	unplaced := map[string]int{}
	gamesPlayed := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == resultsHeader[0] {
			continue
		}
		if len(record) != len(resultsHeader) {
			return "", fmt.Errorf("malformed record %v", record)
		}
		score, err := strconv.Atoi(record[3])
		if err != nil {
			return "", err
		}
		left, err := strconv.Atoi(record[6])
		if err != nil {
			return "", err
		}
		player := record[2]
		if byPlayer[player] == nil {
			byPlayer[player] = &stats.Statistic{}
		}
		byPlayer[player].Push(float64(score))
		unplaced[player] += left
		gamesPlayed++
	}

	players := make([]string, 0, len(byPlayer))
	for p := range byPlayer {
		players = append(players, p)
	}
	sort.Strings(players)

	var ss strings.Builder
	fmt.Fprintf(&ss, "Games played: %d\n", gamesPlayed)
	for _, p := range players {
		st := byPlayer[p]
		fmt.Fprintf(&ss, "%v games: %d  Mean Score: %.6f  Stdev: %.6f  Min: %.0f  Max: %.0f\n",
			p, st.Iterations(), st.Mean(), st.Stdev(), st.Min(), st.Max())
		fmt.Fprintf(&ss, "%v unplaced dominoes per game: %.3f\n",
			p, float64(unplaced[p])/float64(st.Iterations()))
	}
	return ss.String(), nil
}
