package universe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Read parses a ticker list. Tickers are separated by newlines and/or
// commas; blank entries and '#' comment lines are skipped, symbols are
// upper-cased and duplicates keep their first position.
func Read(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	tickers := make([]string, 0)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			tickers = append(tickers, part)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tickers: %w", err)
	}

	return Normalize(tickers), nil
}

// ReadFile parses a ticker list file
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Normalize trims, upper-cases and de-duplicates tickers keeping order
func Normalize(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))

	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// Resolve merges explicit tickers with an optional ticker file; explicit
// tickers come first
func Resolve(explicit []string, file string) ([]string, error) {
	all := append([]string(nil), explicit...)
	if file != "" {
		fromFile, err := ReadFile(file)
		if err != nil {
			return nil, err
		}
		all = append(all, fromFile...)
	}

	tickers := Normalize(all)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers given")
	}
	return tickers, nil
}
