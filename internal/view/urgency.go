package view

// Days-remaining thresholds.
const (
	CriticalBelow = 15
	WarningBelow  = 30
)

// Urgency buckets the days left before a certificate expires.
type Urgency int

const (
	UrgencyOK Urgency = iota
	UrgencyWarning
	UrgencyCritical
	UrgencyExpired
)

// Classify returns the urgency for days remaining.
func Classify(days int) Urgency {
	switch {
	case days < 0:
		return UrgencyExpired
	case days < CriticalBelow:
		return UrgencyCritical
	case days < WarningBelow:
		return UrgencyWarning
	default:
		return UrgencyOK
	}
}

// Class returns the CSS class. Expired certificates share the critical style.
func (u Urgency) Class() string {
	switch u {
	case UrgencyExpired, UrgencyCritical:
		return ClassDaysCritical
	case UrgencyWarning:
		return ClassDaysWarning
	default:
		return ClassDaysOK
	}
}

func (u Urgency) String() string {
	switch u {
	case UrgencyExpired:
		return "expired"
	case UrgencyCritical:
		return "critical"
	case UrgencyWarning:
		return "warning"
	default:
		return "ok"
	}
}
