package csg

import (
	"fmt"
	"strings"
)

// Op selects the boolean operation applied to two solids.
type Op int

const (
	Intersection Op = iota
	Union
	// Difference computes A minus B.
	Difference
)

func (op Op) String() string {
	switch op {
	case Intersection:
		return "intersection"
	case Union:
		return "union"
	case Difference:
		return "difference"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp parses an operator name as returned by Op.String. Common aliases
// such as "and", "or", "sub" are accepted.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intersection", "intersect", "and":
		return Intersection, nil
	case "union", "or":
		return Union, nil
	case "difference", "diff", "sub", "subtract":
		return Difference, nil
	}
	return 0, fmt.Errorf("unknown boolean operation %q", s)
}
