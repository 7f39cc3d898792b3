package entities

// ActorRole is the role supplied by the identity collaborator
type ActorRole string

const (
	ActorRoleUser  ActorRole = "user"
	ActorRoleAdmin ActorRole = "admin"
)

// Actor is the authenticated caller of an engine operation. It is trusted as given.
type Actor struct {
	UserID int64
	Role   ActorRole
}

// IsAdmin returns true for administrative callers
func (a Actor) IsAdmin() bool {
	return a.Role == ActorRoleAdmin
}

// UserActor builds a regular actor
func UserActor(userID int64) Actor {
	return Actor{UserID: userID, Role: ActorRoleUser}
}

// SystemUserID is recorded as the actor of automatic transitions such as the settlement sweep
const SystemUserID int64 = 0
