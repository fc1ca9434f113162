// Package authz holds the ownership predicates shared by the booking and
// schedule-request workflows. A caller may act on one of those entities only
// if they are the user who created it or the owner of the service it targets.
package authz

// IsRequester reports whether the caller created the entity.
func IsRequester(requesterID, callerID string) bool {
	return callerID != "" && callerID == requesterID
}

// IsOwner reports whether the caller owns the service the entity targets.
func IsOwner(ownerID, callerID string) bool {
	return callerID != "" && callerID == ownerID
}

// CanAct reports whether the caller is either party of the entity.
func CanAct(requesterID, ownerID, callerID string) bool {
	return IsRequester(requesterID, callerID) || IsOwner(ownerID, callerID)
}
