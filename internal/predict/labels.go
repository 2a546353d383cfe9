package predict

// Disposition labels for the classifier's class codes.
const (
	LabelFalsePositive = "False Positive"
	LabelCandidate     = "Candidate"
	LabelConfirmed     = "Confirmed Exoplanet"
	LabelUnknown       = "Unknown"
)

var labels = map[int]string{
	0: LabelFalsePositive,
	1: LabelCandidate,
	2: LabelConfirmed,
}

// Label maps a class code to its disposition. Unrecognized codes map to
// LabelUnknown instead of failing.
func Label(code int) string {
	if l, ok := labels[code]; ok {
		return l
	}
	return LabelUnknown
}
