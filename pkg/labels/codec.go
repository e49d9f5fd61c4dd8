// Package labels reads and writes polygon label files. Each line holds one
// object: an integer class id followed by normalized x y vertex pairs.
package labels

import (
	"math"
	"strconv"
	"strings"

	"github.com/menta2k/polycrop/pkg/types"
)

// Digits written after the decimal point for every coordinate.
const coordPrecision = 16

// Parse decodes label text into objects, in line order. Blank lines are
// ignored. Polygon validity is not checked: a line with only a class id gives
// an object with an empty polygon.
func Parse(text string) ([]types.LabeledObject, error) {
	lines := strings.Split(text, "\n")
	objects := make([]types.LabeledObject, 0, len(lines))

	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		obj, err := parseLine(fields)
		if err != nil {
			return nil, &types.FormatError{Line: i + 1, Text: strings.TrimSpace(line), Reason: err.Error()}
		}
		objects = append(objects, obj)
	}

	return objects, nil
}

type lineError string

func (e lineError) Error() string { return string(e) }

func parseLine(fields []string) (types.LabeledObject, error) {
	classID, err := strconv.ParseUint(fields[0], 10, 31)
	if err != nil {
		return types.LabeledObject{}, lineError("class id is not a non-negative integer")
	}

	coords := fields[1:]
	if len(coords)%2 != 0 {
		return types.LabeledObject{}, lineError("odd number of coordinates")
	}

	polygon := make(types.Polygon, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, err := parseCoord(coords[i])
		if err != nil {
			return types.LabeledObject{}, err
		}
		y, err := parseCoord(coords[i+1])
		if err != nil {
			return types.LabeledObject{}, err
		}
		polygon[i/2] = types.Point{X: x, Y: y}
	}

	return types.LabeledObject{ClassID: int(classID), Polygon: polygon}, nil
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, lineError("invalid coordinate " + strconv.Quote(s))
	}
	return v, nil
}

// Serialize encodes objects one per line in input order. Lines are joined by
// a single newline; there is no trailing newline.
func Serialize(objects []types.LabeledObject) string {
	var b strings.Builder
	for i, obj := range objects {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(obj.ClassID))
		for _, pt := range obj.Polygon {
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.X, 'f', coordPrecision, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(pt.Y, 'f', coordPrecision, 64))
		}
	}
	return b.String()
}
