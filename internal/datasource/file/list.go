package file

import (
	"bufio"
	"os"
	"strings"
)

// ReadList reads a list file and returns its entries in order. Blank lines
// and lines starting with '#' are skipped; a line may also hold several
// comma-separated entries.
//
//	# weekly report
//	top_call_types, delay_stats
//	busiest_week
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
