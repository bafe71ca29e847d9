package automatic

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"lukechampine.com/frand"
)

// GenerateSeeds creates n random non-zero seeds for reproducible matches.
func GenerateSeeds(n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = frand.Uint64n(math.MaxUint64) + 1
	}
	return seeds
}

// SaveSeeds writes seeds to a file, one hex number per line.
func SaveSeeds(seeds []uint64, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	_, err = writer.WriteString("# Autoplay game seeds (hex, one per game)\n")
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		_, err = writer.WriteString(strconv.FormatUint(seed, 16) + "\n")
		if err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadSeeds reads seeds written by SaveSeeds.
func LoadSeeds(path string) ([]uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds []uint64
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		seed, err := strconv.ParseUint(line, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse seed at line %d: %w", lineNum, err)
		}
		if seed == 0 {
			return nil, fmt.Errorf("zero seed at line %d", lineNum)
		}
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}
	return seeds, nil
}
