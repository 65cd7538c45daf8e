package services_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dbforge/mssql-provision-agent/internal/models"
	"github.com/dbforge/mssql-provision-agent/internal/services"
)

type principalCall struct {
	kind models.PrincipalKind
	name string
}

// fakePrincipalAdmin records every ensure call and can simulate principals
// that already exist or calls that fail.
type fakePrincipalAdmin struct {
	calls    []principalCall
	existing map[string]bool
	failOn   string
}

func (f *fakePrincipalAdmin) ensure(kind models.PrincipalKind, name string) (models.EnsureOutcome, error) {
	if f.failOn != "" && name == f.failOn {
		return "", errors.New("boom")
	}
	f.calls = append(f.calls, principalCall{kind: kind, name: name})
	if f.existing[name] {
		return models.EnsureOutcomeAlreadyPresent, nil
	}
	return models.EnsureOutcomeCreated, nil
}

func (f *fakePrincipalAdmin) EnsureLogin(_ context.Context, name, _ string) (models.EnsureOutcome, error) {
	return f.ensure(models.PrincipalKindLogin, name)
}

func (f *fakePrincipalAdmin) EnsureUser(_ context.Context, _, user, _ string) (models.EnsureOutcome, error) {
	return f.ensure(models.PrincipalKindUser, user)
}

func (f *fakePrincipalAdmin) EnsureRole(_ context.Context, _, role string) (models.EnsureOutcome, error) {
	return f.ensure(models.PrincipalKindRole, role)
}

func (f *fakePrincipalAdmin) EnsureRoleMember(_ context.Context, _, role, user string) (models.EnsureOutcome, error) {
	return f.ensure(models.PrincipalKindRoleMembership, role+"/"+user)
}

var _ = Describe("Principals", func() {
	var (
		ctx   context.Context
		admin *fakePrincipalAdmin
		p     *services.Principals
	)

	BeforeEach(func() {
		ctx = context.Background()
		admin = &fakePrincipalAdmin{existing: map[string]bool{}}
		p = services.NewPrincipals("s3cret")
	})

	It("derives convention names per access level", func() {
		Expect(services.LoginName("sales", models.AccessLevelOwner)).To(Equal("sales_owner"))
		Expect(services.LoginName("sales", models.AccessLevelReadWrite)).To(Equal("sales_rw"))
		Expect(services.LoginName("sales", models.AccessLevelReadOnly)).To(Equal("sales_ro"))
		Expect(services.RoleName("sales", models.AccessLevelReadWrite)).To(Equal("sales_rw_role"))
		Expect(services.RoleName("sales", models.AccessLevelReadOnly)).To(Equal("sales_ro_role"))
	})

	It("creates the full principal set for a fresh database", func() {
		results, err := p.Apply(ctx, admin, "sales")

		Expect(err).NotTo(HaveOccurred())
		// owner login + 2 levels x (login, user, role, membership)
		Expect(results).To(HaveLen(9))
		for _, r := range results {
			Expect(r.Outcome).To(Equal(models.EnsureOutcomeCreated))
		}
		Expect(admin.calls[0]).To(Equal(principalCall{models.PrincipalKindLogin, "sales_owner"}))
		Expect(admin.calls).To(ContainElement(principalCall{models.PrincipalKindRoleMembership, "sales_rw_role/sales_rw"}))
		Expect(admin.calls).To(ContainElement(principalCall{models.PrincipalKindRoleMembership, "sales_ro_role/sales_ro"}))
	})

	It("does not grant the owner a database user of its own", func() {
		_, err := p.Apply(ctx, admin, "sales")

		Expect(err).NotTo(HaveOccurred())
		Expect(admin.calls).NotTo(ContainElement(principalCall{models.PrincipalKindUser, "sales_owner"}))
	})

	It("reports pre-existing principals without recreating them", func() {
		admin.existing["sales_rw"] = true

		results, err := p.Apply(ctx, admin, "sales")

		Expect(err).NotTo(HaveOccurred())
		var outcomes []models.EnsureOutcome
		for _, r := range results {
			if r.Name == "sales_rw" && r.Kind == models.PrincipalKindLogin {
				outcomes = append(outcomes, r.Outcome)
			}
		}
		Expect(outcomes).To(ConsistOf(models.EnsureOutcomeAlreadyPresent))
	})

	It("stops at the first failing step and returns what was done", func() {
		admin.failOn = "sales_ro_role"

		results, err := p.Apply(ctx, admin, "sales")

		Expect(err).To(MatchError("boom"))
		// everything up to the failing role was still applied
		Expect(results).To(HaveLen(7))
	})
})
