package entity

// ActorKind represents which authentication variant an actor belongs to.
type ActorKind string

const (
	// ActorKindUser indicates an end user ordering food.
	ActorKindUser ActorKind = "user"
	// ActorKindPartner indicates a food partner selling food.
	ActorKindPartner ActorKind = "partner"
)

// String returns the string representation of the ActorKind.
func (k ActorKind) String() string {
	return string(k)
}

// IsValid checks if the ActorKind is a valid value.
func (k ActorKind) IsValid() bool {
	switch k {
	case ActorKindUser, ActorKindPartner:
		return true
	default:
		return false
	}
}

// ClaimKey returns the session token claim carrying the actor id for this variant.
func (k ActorKind) ClaimKey() string {
	switch k {
	case ActorKindUser:
		return "userId"
	case ActorKindPartner:
		return "partnerId"
	default:
		return ""
	}
}
