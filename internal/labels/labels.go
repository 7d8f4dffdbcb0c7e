package labels

import (
	"fmt"
	"strconv"
	"strings"
)

// Class is a tissue label in the four-class scheme expected by
// extract_wm_hemispheres_fetus.
type Class uint8

const (
	BG  Class = 0
	CSF Class = 1
	GM  Class = 2
	WM  Class = 3
)

func (c Class) String() string {
	switch c {
	case BG:
		return "BG"
	case CSF:
		return "CSF"
	case GM:
		return "GM"
	case WM:
		return "WM"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// Rule maps an open intensity interval (Lower, Upper) to a class. A nil bound
// is unbounded on that side.
type Rule struct {
	Name  string
	Lower *float64
	Upper *float64
	Class Class
}

func bound(v float64) *float64 { return &v }

// Matches reports whether v lies strictly inside the rule's interval.
func (r Rule) Matches(v float64) bool {
	if r.Lower != nil && !(v > *r.Lower) {
		return false
	}
	if r.Upper != nil && !(v < *r.Upper) {
		return false
	}
	return true
}

// Rules is evaluated top to bottom; the first match wins. Anything left
// unmatched is white matter, including unexpected label values.
var Rules = []Rule{
	{Name: "background", Upper: bound(0.5), Class: BG},
	{Name: "csf", Lower: bound(123.5), Upper: bound(124.5), Class: CSF},
	{Name: "cerebellum", Lower: bound(99.5), Upper: bound(101.5), Class: CSF},
	{Name: "midbrain", Lower: bound(93.5), Upper: bound(95.5), Class: CSF},
	{Name: "choroid plexus", Lower: bound(111.5), Upper: bound(113.5), Class: GM},
}

// Fallback is assigned when no rule matches.
const Fallback = WM

// MaskThreshold separates brain from background voxels.
const MaskThreshold = 0.5

// Classify returns the class for a single raw segmentation intensity.
func Classify(v float64) Class {
	for _, r := range Rules {
		if r.Matches(v) {
			return r.Class
		}
	}
	return Fallback
}

// MaskValue returns 1 for voxels inside the brain and 0 elsewhere.
func MaskValue(v float64) uint8 {
	if v > MaskThreshold {
		return 1
	}
	return 0
}

// ClassifyExpression renders Rules as a minccalc if/else chain.
func ClassifyExpression() string {
	parts := make([]string, 0, len(Rules)+1)
	for _, r := range Rules {
		parts = append(parts, fmt.Sprintf("if(%s){out=%d}", r.condition(), uint8(r.Class)))
	}
	parts = append(parts, fmt.Sprintf("{out=%d}", uint8(Fallback)))
	return strings.Join(parts, " else ")
}

// MaskExpression is the minccalc expression for the binary brain mask.
func MaskExpression() string {
	return "A[0]>" + formatBound(MaskThreshold)
}

func (r Rule) condition() string {
	var terms []string
	if r.Lower != nil {
		terms = append(terms, "A[0]>"+formatBound(*r.Lower))
	}
	if r.Upper != nil {
		terms = append(terms, "A[0]<"+formatBound(*r.Upper))
	}
	if len(terms) == 0 {
		return "1"
	}
	return strings.Join(terms, "&&")
}

// Interval renders the rule's range in human-readable form, e.g. "99.5 < v < 101.5".
func (r Rule) Interval() string {
	switch {
	case r.Lower != nil && r.Upper != nil:
		return formatBound(*r.Lower) + " < v < " + formatBound(*r.Upper)
	case r.Lower != nil:
		return "v > " + formatBound(*r.Lower)
	case r.Upper != nil:
		return "v < " + formatBound(*r.Upper)
	default:
		return "any"
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
