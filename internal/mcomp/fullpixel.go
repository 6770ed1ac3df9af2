package mcomp

import (
	"fmt"
	"strings"
)

// SearchMethod selects the integer-pel search strategy.
type SearchMethod int

const (
	// MethodNStep is the step-halving diamond search.
	MethodNStep SearchMethod = iota
	MethodHex
	MethodBigDiamond
	MethodSquare
	MethodFastHex
	MethodFastDiamond
)

var methodNames = [...]string{"nstep", "hex", "bigdia", "square", "fast_hex", "fast_diamond"}

func (m SearchMethod) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("SearchMethod(%d)", int(m))
	}
	return methodNames[m]
}

// ParseSearchMethod maps a method name to its value.
func ParseSearchMethod(s string) (SearchMethod, error) {
	for i, n := range methodNames {
		if strings.EqualFold(s, n) {
			return SearchMethod(i), nil
		}
	}
	return 0, fmt.Errorf("mcomp: unknown search method %q", s)
}

// FullPixelSearch runs method from the full-pel start with the 1/8-pel
// predictor center. For the pattern searches the returned cost is SAD
// based unless rd is set and it is below varMax, in which case it is
// replaced by MVPredVar; the diamond searches always return MVPredVar.
// When costs is non-nil it is reset and then filled around the result.
func FullPixelSearch(b *Block, cfg *SearchSiteConfig, method SearchMethod, start MV, step int, costs *CostList, center MV, varMax int, rd bool) (MV, int) {
	if costs != nil {
		costs.Invalidate()
	}
	var (
		mv   MV
		cost int
	)
	switch method {
	case MethodFastDiamond:
		mv, cost = FastDiamondSearch(b, start, step, costs, true, center)
	case MethodFastHex:
		mv, cost = FastHexSearch(b, start, step, costs, true, center)
	case MethodHex:
		mv, cost = HexSearch(b, start, step, true, costs, true, center)
	case MethodSquare:
		mv, cost = SquareSearch(b, start, step, true, costs, true, center)
	case MethodBigDiamond:
		mv, cost = BigDiamondSearch(b, start, step, true, costs, true, center)
	case MethodNStep:
		return FullPixelDiamond(b, cfg, start, step, MaxMVSearchSteps-1-step, true, costs, center)
	default:
		panic(fmt.Sprintf("mcomp: invalid search method %d", int(method)))
	}
	if rd && cost < varMax {
		cost = b.MVPredVar(mv, center, true)
	}
	return mv, cost
}
