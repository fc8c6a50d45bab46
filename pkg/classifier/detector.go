package classifier

// Detector scores interaction text against a single risk category.
//
// Implementations must be safe for concurrent use: the classifier runs all
// detectors in parallel for every event. A detector must not depend on any
// other detector's output.
type Detector interface {
	// Category returns the risk category this detector scores.
	Category() RiskCategory

	// Score evaluates the text and returns a confidence in [0,1] with
	// supporting evidence. Finding no risk is a zero-confidence score,
	// not an error; errors are reserved for unparseable input or detector
	// failure.
	Score(text string) (Score, error)
}

// severityFor maps a confidence to its reporting band using the detector's
// band boundaries. Bands are [medium, high, critical) lower bounds.
func severityFor(confidence float64, bands [3]float64) Severity {
	switch {
	case confidence >= bands[2]:
		return SeverityCritical
	case confidence >= bands[1]:
		return SeverityHigh
	case confidence >= bands[0]:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
