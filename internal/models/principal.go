package models

// EnsureOutcome reports whether an idempotent apply created the entity or
// found it already in place.
type EnsureOutcome string

const (
	EnsureOutcomeCreated        EnsureOutcome = "created"
	EnsureOutcomeAlreadyPresent EnsureOutcome = "already-present"
)

// PrincipalKind distinguishes the entities the principal provisioner manages.
type PrincipalKind string

const (
	PrincipalKindLogin          PrincipalKind = "login"
	PrincipalKindUser           PrincipalKind = "user"
	PrincipalKindRole           PrincipalKind = "role"
	PrincipalKindRoleMembership PrincipalKind = "role-membership"
)

// PrincipalResult is the outcome of applying one principal.
type PrincipalResult struct {
	Kind    PrincipalKind
	Name    string
	Outcome EnsureOutcome
}

// AccessLevel selects which convention-named role a user lands in.
type AccessLevel string

const (
	AccessLevelOwner     AccessLevel = "owner"
	AccessLevelReadWrite AccessLevel = "readwrite"
	AccessLevelReadOnly  AccessLevel = "readonly"
)
