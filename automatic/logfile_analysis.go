package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/othello-go/reversi/stats"
)

type moveStats struct {
	moves int
	depth stats.Statistic
	nodes stats.Statistic
}

// AnalyzeLogFile reads a per-move log written by PlayMatch and reports the
// search effort of each player.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,turn,player,color,move,black,white,depth,nodes
	perPlayer := map[string]*moveStats{}
	games := map[string]bool{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		if len(record) != 9 {
			return "", fmt.Errorf("unexpected record length %d", len(record))
		}
		depth, err := strconv.Atoi(record[7])
		if err != nil {
			return "", err
		}
		nodes, err := strconv.ParseUint(record[8], 10, 64)
		if err != nil {
			return "", err
		}
		games[record[0]] = true
		ps, ok := perPlayer[record[2]]
		if !ok {
			ps = &moveStats{}
			perPlayer[record[2]] = ps
		}
		ps.moves++
		ps.depth.Push(float64(depth))
		ps.nodes.Push(float64(nodes))
	}

	names := lo.Keys(perPlayer)
	slices.Sort(names)
	str := fmt.Sprintf("Games: %d\n", len(games))
	for _, name := range names {
		ps := perPlayer[name]
		str += fmt.Sprintf("%v: %d moves, mean depth %.2f, mean nodes %.1f (stdev %.1f, max %.0f)\n",
			name, ps.moves, ps.depth.Mean(), ps.nodes.Mean(), ps.nodes.Stdev(), ps.nodes.Max())
	}
	return str, nil
}
