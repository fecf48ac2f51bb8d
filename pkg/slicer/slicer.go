// Package slicer estimates filament usage and print time by running a
// model through OrcaSlicer and reading the metadata comments it writes at
// the top of the generated gcode.
package slicer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBinary is the OrcaSlicer executable looked up on PATH
	DefaultBinary = "orca-slicer"

	// sliceTimeout bounds one slicer invocation
	sliceTimeout = 120 * time.Second

	// metadataLineLimit is how deep into the gcode the metadata comments
	// are searched. OrcaSlicer writes them within the first few dozen
	// lines.
	metadataLineLimit = 100
)

var (
	filamentRe  = regexp.MustCompile(`^;\s*filament used \[g\]\s*=\s*([\d.]+)`)
	printTimeRe = regexp.MustCompile(`^;\s*estimated printing time \(normal mode\)\s*=\s*(.+)`)

	hoursRe   = regexp.MustCompile(`(\d+)h`)
	minutesRe = regexp.MustCompile(`(\d+)m`)
	secondsRe = regexp.MustCompile(`(\d+)s`)
)

// Estimate holds the print cost figures parsed from sliced gcode
type Estimate struct {
	FilamentGrams    float64
	PrintTimeSeconds int
}

// Slicer runs OrcaSlicer with a fixed printer/filament configuration
type Slicer struct {
	binary     string
	configPath string
}

// New creates a slicer using the given OrcaSlicer profile. It fails when
// the config file does not exist or the binary is not on PATH, so callers
// can skip enrichment up front instead of failing per model.
func New(configPath string) (*Slicer, error) {
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("slicer config not found: %w", err)
	}
	if _, err := exec.LookPath(DefaultBinary); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", DefaultBinary, err)
	}
	return &Slicer{binary: DefaultBinary, configPath: configPath}, nil
}

// Slice runs the model through OrcaSlicer and parses the resulting gcode.
// The temporary gcode file is always removed. Any failure comes back as
// an error; callers treat these as warnings, not fatal.
func (s *Slicer) Slice(ctx context.Context, modelPath string) (*Estimate, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model not found: %w", err)
	}

	gcodeFile, err := os.CreateTemp("", "gridlib-*.gcode")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp gcode file: %w", err)
	}
	gcodePath := gcodeFile.Name()
	gcodeFile.Close()
	defer os.Remove(gcodePath)

	ctx, cancel := context.WithTimeout(ctx, sliceTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.binary,
		"--slice", "--load", s.configPath, "-o", gcodePath, modelPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("slicing %s timed out after %s", filepath.Base(modelPath), sliceTimeout)
		}
		return nil, fmt.Errorf("slicing %s failed: %w: %s",
			filepath.Base(modelPath), err, truncate(string(output), 500))
	}

	estimate, err := parseGCode(gcodePath)
	if err != nil {
		return nil, fmt.Errorf("parsing gcode for %s: %w", filepath.Base(modelPath), err)
	}
	return estimate, nil
}

// parseGCode scans the leading metadata comments of a gcode file
func parseGCode(path string) (*Estimate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		grams    float64
		seconds  int
		hasGrams bool
		hasTime  bool
	)

	scanner := bufio.NewScanner(f)
	for lineNo := 0; scanner.Scan() && lineNo < metadataLineLimit; lineNo++ {
		line := scanner.Text()

		if !hasGrams {
			if m := filamentRe.FindStringSubmatch(line); m != nil {
				grams, err = strconv.ParseFloat(m[1], 64)
				if err == nil {
					hasGrams = true
				}
			}
		}
		if !hasTime {
			if m := printTimeRe.FindStringSubmatch(line); m != nil {
				if secs, ok := ParseTimeString(strings.TrimSpace(m[1])); ok {
					seconds = secs
					hasTime = true
				}
			}
		}
		if hasGrams && hasTime {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !hasGrams || !hasTime {
		return nil, fmt.Errorf("metadata incomplete (filament found: %v, time found: %v)", hasGrams, hasTime)
	}
	return &Estimate{FilamentGrams: grams, PrintTimeSeconds: seconds}, nil
}

// ParseTimeString converts an OrcaSlicer duration like "1h 23m 45s" into
// seconds. Partial forms ("23m 45s", "45s") are accepted; the second
// return value is false when no component matches.
func ParseTimeString(s string) (int, bool) {
	total := 0
	matched := false

	if m := hoursRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 3600
		matched = true
	}
	if idx := minutesRe.FindStringSubmatchIndex(s); idx != nil {
		// Reject "ms" so millisecond values are not read as minutes
		if end := idx[1]; end >= len(s) || s[end] != 's' {
			n, _ := strconv.Atoi(s[idx[2]:idx[3]])
			total += n * 60
			matched = true
		}
	}
	if m := secondsRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
		matched = true
	}

	if !matched {
		return 0, false
	}
	return total, true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
