package foam

import (
	"fmt"
	"os"
	"sort"
	"strconv"
)

// ParseTime parses a snapshot directory name as a simulation time. It
// returns false for directories like "constant" or "system" that are not
// time snapshots.
func ParseTime(label string) (float64, bool) {
	t, err := strconv.ParseFloat(label, 64)
	if err != nil {
		return 0, false
	}
	return t, true
}

// Times lists the time-directory labels of a case, sorted ascending by
// numeric value. The labels keep the exact text the solver chose: "0.3"
// stays "0.3", never "0.30" or "0.300000".
func Times(casePath string) ([]string, error) {
	entries, err := os.ReadDir(casePath)
	if err != nil {
		return nil, fmt.Errorf("scan case %s: %w", casePath, err)
	}
	var labels []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, ok := ParseTime(e.Name()); ok {
			labels = append(labels, e.Name())
		}
	}
	sort.SliceStable(labels, func(i, j int) bool {
		a, _ := ParseTime(labels[i])
		b, _ := ParseTime(labels[j])
		return a < b
	})
	return labels, nil
}

// LatestTime returns the label of the newest snapshot in a case.
func LatestTime(casePath string) (string, error) {
	labels, err := Times(casePath)
	if err != nil {
		return "", err
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("case %s: %w", casePath, ErrNoTimes)
	}
	return labels[len(labels)-1], nil
}
