package automatic

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// GenerateSeeds creates n random 32-byte seeds. Replaying a seed with
// GameRunner.Play reproduces the library order and prefill of its game.
func GenerateSeeds(n int) ([][32]byte, error) {
	if n < 0 {
		return nil, errors.New("negative number of seeds")
	}
	seeds := make([][32]byte, n)
	for i := range seeds {
		seeds[i] = frand.Entropy256()
	}
	return seeds, nil
}

// SeedsForRun returns the seeds for a run of n games. With no path they
// are freshly generated. If path exists its seeds are replayed, otherwise
// new seeds are generated and saved there for a later replay.
func SeedsForRun(path string, n int) ([][32]byte, error) {
	if path == "" {
		return GenerateSeeds(n)
	}
	if _, err := os.Stat(path); err == nil {
		seeds, err := LoadSeeds(path)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", path).Int("seeds", len(seeds)).Msg("seeds-loaded")
		return seeds, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	seeds, err := GenerateSeeds(n)
	if err != nil {
		return nil, err
	}
	if err := SaveSeeds(seeds, path); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Int("seeds", len(seeds)).Msg("seeds-saved")
	return seeds, nil
}

// ParseSeed decodes a seed as printed in a results file.
func ParseSeed(s string) ([32]byte, error) {
	var seed [32]byte
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return seed, err
	}
	if len(decoded) != len(seed) {
		return seed, fmt.Errorf("invalid seed length: got %d bytes, expected %d", len(decoded), len(seed))
	}
	copy(seed[:], decoded)
	return seed, nil
}

// SaveSeeds writes seeds to a file, one base64 seed per line.
func SaveSeeds(seeds [][32]byte, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create seed file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	_, err = writer.WriteString("# Autoplay game seeds (base64 URL-safe encoded, 32 bytes each)\n")
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, seed := range seeds {
		encoded := base64.RawURLEncoding.EncodeToString(seed[:])
		_, err = writer.WriteString(encoded + "\n")
		if err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return writer.Flush()
}

// LoadSeeds reads seeds written by SaveSeeds, skipping blank lines and
// comments.
func LoadSeeds(path string) ([][32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer file.Close()

	var seeds [][32]byte
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		seed, err := ParseSeed(line)
		if err != nil {
			return nil, fmt.Errorf("bad seed at line %d: %w", lineNum, err)
		}
		seeds = append(seeds, seed)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file: %w", err)
	}

	return seeds, nil
}
