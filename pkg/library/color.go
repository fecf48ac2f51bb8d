package library

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// colorNames maps common color names to hex codes (Tailwind CSS palette)
var colorNames = map[string]string{
	"blue":    "#3B82F6",
	"green":   "#10B981",
	"red":     "#EF4444",
	"purple":  "#A855F7",
	"yellow":  "#F59E0B",
	"orange":  "#F97316",
	"pink":    "#EC4899",
	"indigo":  "#6366F1",
	"teal":    "#14B8A6",
	"cyan":    "#06B6D4",
	"gray":    "#6B7280",
	"grey":    "#6B7280",
	"slate":   "#64748B",
	"lime":    "#84CC16",
	"emerald": "#10B981",
	"sky":     "#0EA5E9",
	"violet":  "#8B5CF6",
	"fuchsia": "#D946EF",
	"rose":    "#F43F5E",
	"amber":   "#F59E0B",
}

// ParseColor converts a color name or hex code into a normalized
// "#RRGGBB" hex code. Hex input is accepted with or without the leading
// "#" and returned uppercased.
func ParseColor(input string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))

	if hex, ok := colorNames[input]; ok {
		return hex, nil
	}

	hex := input
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if hexColorRe.MatchString(hex) {
		return strings.ToUpper(hex), nil
	}

	return "", fmt.Errorf("invalid color %q: use a color name (e.g. \"blue\") or hex code (e.g. \"#3B82F6\")", input)
}

// RandomColor picks a random named color, returning its name and hex code
func RandomColor() (name, hex string) {
	names := make([]string, 0, len(colorNames))
	for n := range colorNames {
		names = append(names, n)
	}
	sort.Strings(names)
	name = names[rand.Intn(len(names))]
	return name, colorNames[name]
}
