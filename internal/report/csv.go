// Package report renders a match as a spreadsheet-friendly CSV.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/riky97/volleyball-scoreboard/internal/match"
)

// Header is the first row of every report.
var Header = []string{
	"Numero set",
	"Team Casa",
	"Team Ospite",
	"Punti Casa",
	"Punti Ospite",
	"Vincitore",
	"Set vinti Casa",
	"Set vinti Ospite",
	"Stato Match",
	"Durata Set (minuti)",
}

// BuildMatchReportCSV returns one row per finished set. Match-level columns
// (team names, sets won, status) repeat on every row so the sheet can be
// filtered without lookups. Rows end in CRLF.
func BuildMatchReportCSV(st match.State) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Header); err != nil {
		return "", err
	}
	for i, set := range st.SetHistory {
		row := []string{
			strconv.Itoa(set.SetNumber),
			st.Home.Name,
			st.Away.Name,
			strconv.Itoa(set.HomePoints),
			strconv.Itoa(set.AwayPoints),
			set.Winner.Label(),
			strconv.Itoa(st.Home.SetsWon),
			strconv.Itoa(st.Away.SetsWon),
			string(st.Status),
			duration(st.SetHistory, i),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("build match report: %w", err)
	}
	return buf.String(), nil
}

// duration is the set length in whole minutes, measured from the end of the
// previous set. The first set has no reference point.
func duration(sets []match.SetSnapshot, i int) string {
	if sets[i].SetNumber <= 1 || i == 0 || sets[i-1].Timestamp == 0 {
		return "N/A"
	}
	ms := sets[i].Timestamp - sets[i-1].Timestamp
	return strconv.FormatInt(int64(math.Round(float64(ms)/float64(time.Minute/time.Millisecond))), 10)
}

// DefaultFileName suggests a name for the save dialog.
func DefaultFileName(now time.Time) string {
	return "partita-" + now.Format("2006-01-02-1504") + ".csv"
}
