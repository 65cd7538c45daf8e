package services

import (
	"context"
	"fmt"

	"github.com/dbforge/mssql-provision-agent/internal/models"
)

// PrincipalAdmin is the slice of the SQL admin client the principal
// provisioner needs.
type PrincipalAdmin interface {
	EnsureLogin(ctx context.Context, name, password string) (models.EnsureOutcome, error)
	EnsureUser(ctx context.Context, database, user, login string) (models.EnsureOutcome, error)
	EnsureRole(ctx context.Context, database, role string) (models.EnsureOutcome, error)
	EnsureRoleMember(ctx context.Context, database, role, user string) (models.EnsureOutcome, error)
}

// Principals applies the naming-convention principals for a database:
// an owner login plus read-write and read-only logins, each mapped to a
// user and a convention-named role. Every step is idempotent, so re-running
// against a half-provisioned database only fills the gaps.
type Principals struct {
	loginPassword string
}

func NewPrincipals(loginPassword string) *Principals {
	return &Principals{loginPassword: loginPassword}
}

// LoginName returns the convention login name for a database and access level.
func LoginName(database string, level models.AccessLevel) string {
	switch level {
	case models.AccessLevelOwner:
		return database + "_owner"
	case models.AccessLevelReadWrite:
		return database + "_rw"
	default:
		return database + "_ro"
	}
}

// RoleName returns the convention role name for an access level.
func RoleName(database string, level models.AccessLevel) string {
	return fmt.Sprintf("%s_%s_role", database, suffix(level))
}

func suffix(level models.AccessLevel) string {
	switch level {
	case models.AccessLevelReadWrite:
		return "rw"
	default:
		return "ro"
	}
}

// Apply ensures all convention principals for the database. The owner level
// gets a login only; ownership itself is transferred by the provisioner via
// ALTER AUTHORIZATION, which would clash with a same-named database user.
func (p *Principals) Apply(ctx context.Context, admin PrincipalAdmin, database string) ([]models.PrincipalResult, error) {
	var results []models.PrincipalResult

	ownerLogin := LoginName(database, models.AccessLevelOwner)
	outcome, err := admin.EnsureLogin(ctx, ownerLogin, p.loginPassword)
	if err != nil {
		return results, err
	}
	results = append(results, models.PrincipalResult{
		Kind: models.PrincipalKindLogin, Name: ownerLogin, Outcome: outcome,
	})

	for _, level := range []models.AccessLevel{models.AccessLevelReadWrite, models.AccessLevelReadOnly} {
		login := LoginName(database, level)
		role := RoleName(database, level)

		outcome, err := admin.EnsureLogin(ctx, login, p.loginPassword)
		if err != nil {
			return results, err
		}
		results = append(results, models.PrincipalResult{
			Kind: models.PrincipalKindLogin, Name: login, Outcome: outcome,
		})

		outcome, err = admin.EnsureUser(ctx, database, login, login)
		if err != nil {
			return results, err
		}
		results = append(results, models.PrincipalResult{
			Kind: models.PrincipalKindUser, Name: login, Outcome: outcome,
		})

		outcome, err = admin.EnsureRole(ctx, database, role)
		if err != nil {
			return results, err
		}
		results = append(results, models.PrincipalResult{
			Kind: models.PrincipalKindRole, Name: role, Outcome: outcome,
		})

		outcome, err = admin.EnsureRoleMember(ctx, database, role, login)
		if err != nil {
			return results, err
		}
		results = append(results, models.PrincipalResult{
			Kind: models.PrincipalKindRoleMembership, Name: fmt.Sprintf("%s/%s", role, login), Outcome: outcome,
		})
	}

	return results, nil
}
