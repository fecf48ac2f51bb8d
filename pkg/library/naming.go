package library

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	dimensionPattern    = regexp.MustCompile(`(?i)(\d+)x(\d+)`)
	dimensionWordRe     = regexp.MustCompile(`(?i)\s*\d+x\d+\s*`)
	nonKebabRe          = regexp.MustCompile(`[^a-z0-9-]`)
	multiHyphenRe       = regexp.MustCompile(`-+`)
	hexColorRe          = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	perspectiveSuffixRe = regexp.MustCompile(`-perspective\.png$`)
)

// ToKebabCase converts a filename or label into a kebab-case identifier:
// "Utensils 1x3.stl" becomes "utensils-1x3".
func ToKebabCase(text string) string {
	text = strings.TrimSuffix(text, filepath.Ext(text))
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, " ", "-")
	text = strings.ReplaceAll(text, "_", "-")
	text = nonKebabRe.ReplaceAllString(text, "")
	text = multiHyphenRe.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// ExtractDimensions finds a WxH grid-unit pattern like "1x3" in a
// filename. The third return value reports whether a pattern was found.
func ExtractDimensions(filename string) (width, height int, ok bool) {
	m := dimensionPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0, false
	}
	width, _ = strconv.Atoi(m[1])
	height, _ = strconv.Atoi(m[2])
	return width, height, true
}

// StripDimensions removes an embedded WxH pattern and the extension from
// a filename, leaving the bare item name.
func StripDimensions(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = dimensionWordRe.ReplaceAllString(name, " ")
	return strings.Join(strings.Fields(name), " ")
}

// DisplayName builds the catalog display name "[WxH] [name]" from a model
// filename: "Utensils 1x3.stl" becomes "1x3 Utensils".
func DisplayName(filename string, width, height int) string {
	name := StripDimensions(filename)
	return strings.TrimSpace(fmt.Sprintf("%dx%d %s", width, height, name))
}

// ObjectID builds a unique kebab-case ID for one object of a multi-object
// model file: "multi-model", "Bin", 1, 3 becomes "multi-model-bin-1x3".
func ObjectID(baseName, objectName string, width, height int) string {
	return ToKebabCase(fmt.Sprintf("%s %s %dx%d", baseName, objectName, width, height))
}

// ObjectDisplayName builds the display name for one object of a
// multi-object model file
func ObjectDisplayName(objectName string, width, height int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(objectName, "_", " "))
	return fmt.Sprintf("%dx%d %s", width, height, clean)
}

// ObjectImageName builds the preview filename for one object of a
// multi-object model file: "multi-model_Bin_1x3.png".
func ObjectImageName(baseName, objectName string, width, height int) string {
	clean := strings.ReplaceAll(objectName, " ", "_")
	return fmt.Sprintf("%s_%s_%dx%d.png", baseName, clean, width, height)
}

// ImageNames derives the orthographic and perspective preview filenames
// from a model filename: "bin_1x1.stl" becomes "bin_1x1.png" and
// "bin_1x1-perspective.png".
func ImageNames(modelFile string) (ortho, perspective string) {
	stem := strings.TrimSuffix(filepath.Base(modelFile), filepath.Ext(modelFile))
	return stem + ".png", stem + "-perspective.png"
}

// RotationImageName derives the filename of a rotated perspective variant
// from the base perspective filename: "bin-perspective.png" at 90 becomes
// "bin-perspective-90.png". It returns false when the base filename does
// not follow the standard "-perspective.png" convention.
func RotationImageName(perspectiveFile string, angle int) (string, bool) {
	if !perspectiveSuffixRe.MatchString(perspectiveFile) {
		return "", false
	}
	base := strings.TrimSuffix(perspectiveFile, "-perspective.png")
	return fmt.Sprintf("%s-perspective-%d.png", base, angle), true
}
