package domain

import "strings"

// NormalizeHandle canonicalizes a customer handle for directory lookups:
// trimmed, lower-cased, with a leading "@" enforced. The display handle a
// customer was first seen with is kept as-is; only matching uses this.
func NormalizeHandle(handle string) string {
	h := strings.ToLower(strings.TrimSpace(handle))
	h = strings.TrimPrefix(h, "@")
	if h == "" {
		return ""
	}
	return "@" + h
}

// DisplayNameFromHandle derives a default customer name from a handle.
func DisplayNameFromHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// CanTransitionStatus reports whether a transaction status change is
// allowed: confirmed -> paid, confirmed -> cancelled, paid <-> unpaid.
// Archiving is independent of status and allowed from any state.
func CanTransitionStatus(from string, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case TxStatusConfirmed:
		return to == TxStatusPaid || to == TxStatusCancelled
	case TxStatusPaid:
		return to == TxStatusUnpaid
	case TxStatusUnpaid:
		return to == TxStatusPaid
	default:
		return false
	}
}

func IsKnownSource(source string) bool {
	switch source {
	case SourceWhatsApp, SourceInstagram, SourceFacebook, SourceWalkIn, SourcePhoneCall, SourceOther:
		return true
	default:
		return false
	}
}
