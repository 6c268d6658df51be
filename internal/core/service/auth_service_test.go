package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizsuite/identity-service/internal/core/domain"
	"github.com/bizsuite/identity-service/internal/core/ports"
)

type authFixture struct {
	users     *stubUserRepo
	companies *stubCompanyRepo
	members   *stubMembershipRepo
	sessions  *stubSessions
	audit     *stubAudit
	company   *CompanyService
	auth      *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:     newStubUserRepo(),
		companies: newStubCompanyRepo(),
		members:   newStubMembershipRepo(),
		sessions:  &stubSessions{},
		audit:     &stubAudit{},
	}
	log := zerolog.Nop()
	f.company = NewCompanyService(f.companies, f.members, f.users, f.sessions, f.audit, time.Hour, log)
	f.auth = NewAuthService(f.users, f.company, f.sessions, f.members, f.companies, stubTx{}, f.audit, time.Hour, log)
	return f
}

func (f *authFixture) seedUser(t *testing.T, email, password string, superAdmin bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return f.users.add(domain.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Active:       true,
		SuperAdmin:   superAdmin,
	})
}

func (f *authFixture) seedCompany(id string, status domain.SubscriptionStatus, active bool) *domain.Company {
	return f.companies.add(domain.Company{
		ID:                 id,
		Name:               "Co " + id,
		Active:             active,
		SubscriptionStatus: status,
	})
}

func (f *authFixture) seedEdge(userID, companyID string, role domain.Role, primary bool) {
	f.members.edges = append(f.members.edges, &domain.Membership{
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
		Primary:   primary,
		Active:    true,
	})
}

func TestAuthService_Login_AutoBindsSingleCompany(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser(t, "alice@example.com", "pass1234", false)
	co := f.seedCompany("co-a", domain.SubscriptionActive, true)
	f.seedEdge(user.ID, co.ID, domain.RoleOwner, true)

	res, err := f.auth.Login(context.Background(), "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.RequiresCompanySelection {
		t.Fatalf("expected auto-bind, got selection required")
	}
	if res.SelectedCompany == nil || res.SelectedCompany.Company.ID != co.ID {
		t.Fatalf("unexpected selected company: %+v", res.SelectedCompany)
	}
	if len(f.sessions.issued) != 1 || f.sessions.issued[0].CompanyID != co.ID {
		t.Fatalf("token not scoped to %s: %+v", co.ID, f.sessions.issued)
	}
	if f.sessions.issued[0].Role != domain.RoleOwner {
		t.Fatalf("unexpected role in claims: %s", f.sessions.issued[0].Role)
	}
}

func TestAuthService_Login_MultipleCompaniesRequireSelection(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser(t, "bob@example.com", "pass1234", false)
	a := f.seedCompany("co-a", domain.SubscriptionActive, true)
	b := f.seedCompany("co-b", domain.SubscriptionActive, true)
	f.seedEdge(user.ID, a.ID, domain.RoleOwner, false)
	f.seedEdge(user.ID, b.ID, domain.RoleCashier, true)

	res, err := f.auth.Login(context.Background(), "bob@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !res.RequiresCompanySelection {
		t.Fatalf("expected selection required")
	}
	if res.SelectedCompany != nil {
		t.Fatalf("expected unscoped login, got %+v", res.SelectedCompany)
	}
	if f.sessions.issued[0].CompanyID != "" {
		t.Fatalf("token should be unscoped, got company %s", f.sessions.issued[0].CompanyID)
	}
	if len(res.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(res.Companies))
	}
	// Tie-break prefers the primary edge over the lower id.
	if res.DefaultCompanyID != b.ID {
		t.Fatalf("expected default %s, got %s", b.ID, res.DefaultCompanyID)
	}
}

func TestAuthService_Login_SingleSuspendedCompanyNotAutoBound(t *testing.T) {
	f := newAuthFixture()
	user := f.seedUser(t, "sam@example.com", "pass1234", false)
	co := f.seedCompany("co-a", domain.SubscriptionSuspended, true)
	f.seedEdge(user.ID, co.ID, domain.RoleOwner, true)

	res, err := f.auth.Login(context.Background(), "sam@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.SelectedCompany != nil {
		t.Fatalf("a suspended company must not be auto-bound: %+v", res.SelectedCompany)
	}
	if f.sessions.issued[0].CompanyID != "" {
		t.Fatalf("token must stay unscoped")
	}
	// The client is still pointed at company selection, where it will receive
	// the subscription status payload.
	if !res.RequiresCompanySelection {
		t.Fatal("expected selection required for the unselectable company")
	}
	if res.DefaultCompanyID != co.ID {
		t.Fatalf("default should still name the company, got %q", res.DefaultCompanyID)
	}
}

func TestAuthService_Login_NoCompanies(t *testing.T) {
	f := newAuthFixture()
	f.seedUser(t, "carol@example.com", "pass1234", false)

	res, err := f.auth.Login(context.Background(), "carol@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.RequiresCompanySelection {
		t.Fatalf("selection must not be required with zero companies")
	}
	if f.sessions.issued[0].CompanyID != "" {
		t.Fatalf("token should be unscoped")
	}
}

func TestAuthService_Login_BadCredentialsIndistinguishable(t *testing.T) {
	f := newAuthFixture()
	f.seedUser(t, "dave@example.com", "goodpass", false)

	_, errWrong := f.auth.Login(context.Background(), "dave@example.com", "badpass")
	_, errGhost := f.auth.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrong)
	}
	if !errors.Is(errGhost, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errGhost)
	}
	if errWrong.Error() != errGhost.Error() {
		t.Fatalf("outcomes must be indistinguishable: %q vs %q", errWrong, errGhost)
	}
	if len(f.sessions.issued) != 0 {
		t.Fatalf("no token may be minted on failed login")
	}
}

func TestAuthService_Login_EmailCaseInsensitive(t *testing.T) {
	f := newAuthFixture()
	f.seedUser(t, "eve@example.com", "pass1234", false)

	if _, err := f.auth.Login(context.Background(), "EVE@Example.COM", "pass1234"); err != nil {
		t.Fatalf("case-insensitive email login failed: %v", err)
	}
}

func registerInput(email, companyName string) ports.RegisterInput {
	return ports.RegisterInput{
		Name:        "New User",
		Email:       email,
		Password:    "pass12345",
		CompanyName: companyName,
	}
}

func TestAuthService_Register_CreatesOwnerEdge(t *testing.T) {
	f := newAuthFixture()

	res, err := f.auth.Register(context.Background(), registerInput("frank@example.com", "Franks Tools"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.User.PasswordHash == "pass12345" {
		t.Fatalf("password stored in plaintext")
	}
	if res.Company.SubscriptionStatus != domain.SubscriptionTrial {
		t.Fatalf("new company should start on trial, got %s", res.Company.SubscriptionStatus)
	}

	edge, err := f.members.FindActive(context.Background(), res.User.ID, res.Company.ID)
	if err != nil {
		t.Fatalf("owner edge missing: %v", err)
	}
	if edge.Role != domain.RoleOwner || !edge.Primary {
		t.Fatalf("unexpected edge: %+v", edge)
	}
	if f.sessions.issued[0].CompanyID != res.Company.ID {
		t.Fatalf("register token should be scoped to the new company")
	}
}

func TestAuthService_Register_DuplicateLeavesNoOrphanCompany(t *testing.T) {
	f := newAuthFixture()
	f.seedUser(t, "grace@example.com", "pass1234", false)

	_, err := f.auth.Register(context.Background(), registerInput("grace@example.com", "Grace Ltd"))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(f.companies.companies) != 0 {
		t.Fatalf("duplicate registration must not leave a company behind")
	}
}

func TestAuthService_Logout_IdempotentWithExpiredToken(t *testing.T) {
	f := newAuthFixture()
	f.sessions.verifyFn = func(string) (domain.Claims, error) {
		return domain.Claims{}, domain.ErrTokenExpired
	}

	for i := 0; i < 2; i++ {
		if err := f.auth.Logout(context.Background(), "stale-token"); err != nil {
			t.Fatalf("logout %d returned error: %v", i+1, err)
		}
	}
}

func TestAuthService_Logout_RevokesValidSession(t *testing.T) {
	f := newAuthFixture()
	f.sessions.verifyFn = func(string) (domain.Claims, error) {
		return domain.Claims{UserID: "user-1", Email: "h@example.com"}, nil
	}

	if err := f.auth.Logout(context.Background(), "live-token"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(f.sessions.revoked) != 1 || f.sessions.revoked[0] != "live-token" {
		t.Fatalf("expected revocation of live-token, got %v", f.sessions.revoked)
	}
	if len(f.audit.records) != 1 || f.audit.records[0].ActionType != domain.AuditLogout {
		t.Fatalf("expected a logout audit record, got %+v", f.audit.records)
	}
}
