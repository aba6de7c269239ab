package finance

import (
	"fmt"
	"math"
)

const (
	irrTolerance     = 1e-7
	irrMaxIterations = 200
)

// NPV discounts cash flows at ratePercent per period. flows[0] is undiscounted.
func NPV(ratePercent float64, flows []float64) float64 {
	r := ratePercent / 100
	var npv float64
	for t, cf := range flows {
		npv += cf / math.Pow(1+r, float64(t))
	}
	return npv
}

// npvDerivative is d(NPV)/dr for a rate expressed as a fraction
func npvDerivative(r float64, flows []float64) float64 {
	var d float64
	for t, cf := range flows {
		if t == 0 {
			continue
		}
		d -= float64(t) * cf / math.Pow(1+r, float64(t+1))
	}
	return d
}

// IRR returns the internal rate of return of flows, in percent per period.
// Flows need at least one negative and one positive value.
func IRR(flows []float64) (float64, error) {
	var hasNeg, hasPos bool
	for _, cf := range flows {
		if cf < 0 {
			hasNeg = true
		}
		if cf > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, fmt.Errorf("%w: need both negative and positive flows", ErrInvalidCashFlows)
	}

	npvAt := func(r float64) float64 { return NPV(r*100, flows) }

	// Newton from 10%
	r := 0.1
	for i := 0; i < irrMaxIterations; i++ {
		v := npvAt(r)
		if math.Abs(v) < irrTolerance {
			return r * 100, nil
		}
		d := npvDerivative(r, flows)
		if d == 0 || math.IsNaN(d) {
			break
		}
		nr := r - v/d
		if nr <= -1 || math.IsNaN(nr) || math.IsInf(nr, 0) {
			break
		}
		if math.Abs(nr-r) < irrTolerance {
			return nr * 100, nil
		}
		r = nr
	}

	// bisection over (-99.99%, 1000%]
	lo, hi := -0.9999, 10.0
	flo, fhi := npvAt(lo), npvAt(hi)
	if flo*fhi > 0 {
		return 0, ErrNoConvergence
	}
	for i := 0; i < 1000; i++ {
		mid := (lo + hi) / 2
		fm := npvAt(mid)
		if math.Abs(fm) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid * 100, nil
		}
		if fm*flo < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return 0, ErrNoConvergence
}

// GrowthPoint is the state of an investment at the end of a year
type GrowthPoint struct {
	Year          int     `json:"year"`
	Contributions float64 `json:"contributions"` // principal plus every contribution so far
	Interest      float64 `json:"interest"`      // accumulated interest
	Balance       float64 `json:"balance"`
}

// MaxProjectionYears caps the length of a compound interest projection
const MaxProjectionYears = 200

// CompoundInterest projects an investment compounding periodsPerYear times a
// year with a contribution added at the end of every month.
func CompoundInterest(principal, annualRatePercent float64, years, periodsPerYear int, monthlyContribution float64) ([]GrowthPoint, error) {
	if years <= 0 || years > MaxProjectionYears || periodsPerYear <= 0 || principal < 0 || monthlyContribution < 0 {
		return nil, fmt.Errorf("%w: principal %.2f, years %d, periods %d, contribution %.2f",
			ErrInvalidProjection, principal, years, periodsPerYear, monthlyContribution)
	}
	// effective monthly rate equivalent to the nominal rate compounded periodsPerYear times
	monthly := math.Pow(1+annualRatePercent/100/float64(periodsPerYear), float64(periodsPerYear)/12) - 1

	balance, contributed := principal, principal
	points := make([]GrowthPoint, 0, years)
	for y := 1; y <= years; y++ {
		for m := 0; m < 12; m++ {
			balance = balance*(1+monthly) + monthlyContribution
			contributed += monthlyContribution
		}
		points = append(points, GrowthPoint{
			Year:          y,
			Contributions: contributed,
			Interest:      balance - contributed,
			Balance:       balance,
		})
	}
	return points, nil
}
