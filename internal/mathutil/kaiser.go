package mathutil

import "math"

// Kaiser & Schafer empirical design formulas.
const (
	kaiserAttHigh   = 50.0 // dB, above this beta is linear in attenuation
	kaiserAttMedium = 21.0 // dB, below this a rectangular window suffices

	kaiserBetaHighCoeff   = 0.1102
	kaiserBetaHighOffset  = 8.7
	kaiserBetaMediumCoeff = 0.5842
	kaiserBetaMediumPower = 0.4
	kaiserBetaMediumLin   = 0.07886

	// attenuationBisectSteps resolves the medium range to well below 1e-9 dB.
	attenuationBisectSteps = 60
)

// KaiserBeta returns the Kaiser window β giving roughly the requested
// stopband attenuation in dB.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserAttHigh:
		return kaiserBetaHighCoeff * (attenuation - kaiserBetaHighOffset)
	case attenuation >= kaiserAttMedium:
		d := attenuation - kaiserAttMedium
		return kaiserBetaMediumCoeff*math.Pow(d, kaiserBetaMediumPower) + kaiserBetaMediumLin*d
	}
	return 0
}

// KaiserAttenuation inverts KaiserBeta: it returns the stopband attenuation
// in dB that a window with the given β is expected to reach.
func KaiserAttenuation(beta float64) float64 {
	if beta <= 0 {
		return kaiserAttMedium
	}
	if beta > KaiserBeta(kaiserAttHigh) {
		return beta/kaiserBetaHighCoeff + kaiserBetaHighOffset
	}

	lo, hi := kaiserAttMedium, kaiserAttHigh
	for range attenuationBisectSteps {
		mid := (lo + hi) / 2
		if KaiserBeta(mid) < beta {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
