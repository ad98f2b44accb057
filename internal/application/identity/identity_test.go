package identity_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/tests/testutil"
)

func TestMain(m *testing.M) {
	identity.PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func strPtr(s string) *string { return &s }

type sentOtp struct {
	mobile string
	code   int
}

// recordingSender keeps the codes it was asked to deliver
type recordingSender struct {
	mu   sync.Mutex
	sent []sentOtp
}

func (s *recordingSender) SendOtp(_ context.Context, mobile string, code int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentOtp{mobile: mobile, code: code})
	return nil
}

func (s *recordingSender) last(t *testing.T) sentOtp {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	return s.sent[len(s.sent)-1]
}

type fixture struct {
	repos   mutation.Repositories
	sender  *recordingSender
	account *identityapp.AccountService
	auth    *identityapp.AuthService
	groups  *identityapp.UserTypeGroupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	rel := persistence.DefaultRelations()
	repos := persistence.NewRepositories(db, rel)
	deps := identityapp.Deps{
		Scope:  persistence.NewGormTransactionScope(db, rel),
		Repos:  repos,
		Events: testutil.NewRecordingPublisher(),
		Logger: zap.NewNop(),
	}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
	})
	sender := &recordingSender{}
	return &fixture{
		repos:   repos,
		sender:  sender,
		account: identityapp.NewAccountService(deps, sender, identityapp.DefaultOtpConfig()),
		auth:    identityapp.NewAuthService(deps, jwtService, auth.NewInMemoryTokenBlacklist()),
		groups:  identityapp.NewUserTypeGroupService(deps),
	}
}

func messages(errs mutation.Errors, field string) []string {
	var out []string
	for _, e := range errs {
		if e.Field != nil && *e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

func (f *fixture) createAdmin(t *testing.T, mobile, password string) *identity.User {
	t.Helper()
	user, errs, err := f.account.AdminCreate(context.Background(), identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: mobile, Password: strPtr(password), Name: strPtr("Admin")},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	return user
}

func (f *fixture) verifyAdmin(t *testing.T, user *identity.User, password string) {
	t.Helper()
	ctx := context.Background()
	errs, err := f.account.SendOtp(ctx, user.ID.String())
	require.NoError(t, err)
	require.Empty(t, errs)
	_, errs, err = f.account.AdminVerify(ctx, identityapp.AdminVerifyInput{
		User:     user.ID.String(),
		Otp:      f.sender.last(t).code,
		Password: password,
	})
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestAdminCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, errs, err := f.account.AdminCreate(ctx, identityapp.AdminCreateInput{
		User: identityapp.UserInput{
			Mobile:   "01711111111",
			Email:    strPtr(" Admin@Example.com "),
			Name:     strPtr("Root"),
			Password: strPtr("secret123"),
		},
		Admin: identityapp.AdminInput{IsSuper: boolPtr(true)},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "US1001", user.Code)
	require.NotNil(t, user.Email)
	assert.Equal(t, "admin@example.com", *user.Email)

	admin, err := f.repos.Admins().FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusPending, admin.Status)
	assert.Equal(t, identity.AuthTwoFactorNew, admin.AuthType)
	assert.True(t, admin.IsSuper)

	stored, err := f.repos.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasRoleType(identity.UserTypeAdmin))
	assert.True(t, stored.VerifyPassword("secret123"))

	_, errs, err = f.account.AdminCreate(ctx, identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: "01711111111", Password: strPtr("secret123")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"User already exists within this mobile."}, messages(errs, "mobile"))

	_, errs, err = f.account.AdminCreate(ctx, identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: "01722222222", Email: strPtr("admin@example.com"), Password: strPtr("secret123")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"User already exists within this email."}, messages(errs, "email"))
}

func TestAdminCreate_Validation(t *testing.T) {
	f := newFixture(t)

	_, errs, err := f.account.AdminCreate(context.Background(), identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: "12ab", Password: strPtr("short")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid mobile."}, messages(errs, "mobile"))
	assert.Equal(t, []string{"password has minimum 8 length"}, messages(errs, "password"))
}

func TestAdminCreate_ReusesExistingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := identity.NewUser("US1001", "01733333333")
	require.NoError(t, f.repos.Users().Save(ctx, existing))

	user, errs, err := f.account.AdminCreate(ctx, identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: "01733333333"},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, existing.ID, user.ID)

	stored, err := f.repos.Users().FindByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasRoleType(identity.UserTypeAdmin))
}

func TestAdminCreate_GroupsMustBeMappedToRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group := identity.NewGroup("account")
	require.NoError(t, f.repos.Groups().Save(ctx, group))

	in := identityapp.AdminCreateInput{
		User: identityapp.UserInput{Mobile: "01744444444", Password: strPtr("secret123"), Groups: []string{group.ID.String()}},
	}
	_, errs, err := f.account.AdminCreate(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"No permissions under the role"}, messages(errs, "permission"))

	_, errs, err = f.groups.Save(ctx, "", identityapp.UserTypeGroupInput{UserType: strPtr("admin"), Group: strPtr(group.ID.String())})
	require.NoError(t, err)
	require.Empty(t, errs)

	user, errs, err := f.account.AdminCreate(ctx, in)
	require.NoError(t, err)
	require.Empty(t, errs)

	stored, err := f.repos.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.InGroup("account"))
}

func TestCreateAdminToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin := f.createAdmin(t, "01711111111", "secret123")
	customer := identity.NewUser("US2000", "01799999999")
	require.NoError(t, customer.SetPassword("secret123"))
	require.NoError(t, f.repos.Users().Save(ctx, customer))

	_, errs, err := f.auth.CreateAdminToken(ctx, "01711111111", "wrong-password")
	require.NoError(t, err)
	assert.Equal(t, []string{"Please enter valid credentials"}, messages(errs, "user"))

	_, errs, err = f.auth.CreateAdminToken(ctx, "01799999999", "secret123")
	require.NoError(t, err)
	assert.Equal(t, []string{"User not found"}, messages(errs, "404"))

	result, errs, err := f.auth.CreateAdminToken(ctx, "01711111111", "secret123")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.False(t, result.Verified)
	assert.Equal(t, admin.ID, result.User.ID)
	assert.NotNil(t, result.User.LastLogin)

	viewer, err := f.auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, viewer.ID)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.createAdmin(t, "01711111111", "secret123")
	login, errs, err := f.auth.CreateAdminToken(ctx, "01711111111", "secret123")
	require.NoError(t, err)
	require.Empty(t, errs)

	refreshed, errs, err := f.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.NotEqual(t, login.Token, refreshed.Token)

	_, errs, err = f.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, []string{auth.ErrTokenBlacklisted.Error()}, messages(errs, "token"))

	_, errs, err = f.auth.RefreshToken(ctx, "garbage")
	require.NoError(t, err)
	assert.True(t, errs.Has("token"))

	require.NoError(t, f.auth.Logout(ctx, refreshed.Token, refreshed.RefreshToken))
	_, err = f.auth.Authenticate(ctx, refreshed.Token)
	assert.ErrorIs(t, err, identityapp.ErrUnauthenticated)

	_, errs, err = f.auth.RefreshToken(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
	assert.True(t, errs.Has("token"))
}

func TestSendAndVerifyOtp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.createAdmin(t, "01711111111", "secret123")

	errs, err := f.account.SendOtp(ctx, "6f1c3b7e-0000-4000-8000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, []string{"user not found"}, messages(errs, "user"))

	errs, err = f.account.SendOtp(ctx, user.ID.String())
	require.NoError(t, err)
	require.Empty(t, errs)
	sent := f.sender.last(t)
	assert.Equal(t, "01711111111", sent.mobile)
	assert.GreaterOrEqual(t, sent.code, 100000)
	assert.Less(t, sent.code, 1000000)

	errs, err = f.account.VerifyOtp(ctx, user.ID.String(), sent.code%999999+1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid OTP"}, messages(errs, "OTP"))

	errs, err = f.account.VerifyOtp(ctx, user.ID.String(), sent.code)
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = f.account.VerifyOtp(ctx, user.ID.String(), sent.code)
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid OTP"}, messages(errs, "OTP"))
}

func TestAdminVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := f.createAdmin(t, "01711111111", "secret123")

	_, errs, err := f.account.AdminVerify(ctx, identityapp.AdminVerifyInput{User: user.ID.String(), Otp: 123456, Password: "newsecret1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Invalid OTP"}, messages(errs, "user"))

	f.verifyAdmin(t, user, "newsecret1")

	admin, err := f.repos.Admins().FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StatusActive, admin.Status)

	result, errs, err := f.auth.CreateAdminToken(ctx, "01711111111", "newsecret1")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.True(t, result.Verified)
}

func TestAdminVerify_RequiresAdminProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := identity.NewUser("US2000", "01799999999")
	require.NoError(t, f.repos.Users().Save(ctx, user))

	errs, err := f.account.SendOtp(ctx, user.ID.String())
	require.NoError(t, err)
	require.Empty(t, errs)

	_, errs, err = f.account.AdminVerify(ctx, identityapp.AdminVerifyInput{
		User:     user.ID.String(),
		Otp:      f.sender.last(t).code,
		Password: "newsecret1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin user not found."}, messages(errs, "user"))
}

func TestAccountChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	viewer := f.createAdmin(t, "01711111111", "secret123")
	other := f.createAdmin(t, "01722222222", "secret123")
	_, errs, err := f.account.ChangeEmail(ctx, other, "taken@example.com")
	require.NoError(t, err)
	require.Empty(t, errs)

	renamed, errs, err := f.account.ChangeName(ctx, viewer, "  Store Owner ")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "Store Owner", renamed.Name)

	_, errs, err = f.account.ChangeEmail(ctx, viewer, "TAKEN@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"User already exists within this email."}, messages(errs, "email"))

	_, errs, err = f.account.ChangeEmail(ctx, viewer, "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, []string{"Enter a valid email address."}, messages(errs, "email"))

	_, errs, err = f.account.ChangePassword(ctx, viewer, "wrong", "another123")
	require.NoError(t, err)
	assert.Equal(t, []string{"invalid current password"}, messages(errs, "password"))

	_, errs, err = f.account.ChangePassword(ctx, viewer, "secret123", "short")
	require.NoError(t, err)
	assert.Equal(t, []string{"password has minimum 8 length"}, messages(errs, "password"))

	_, errs, err = f.account.ChangePassword(ctx, viewer, "secret123", "another123")
	require.NoError(t, err)
	require.Empty(t, errs)

	stored, err := f.repos.Users().FindByID(ctx, viewer.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword("another123"))
}

func TestAdminManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	viewer := f.createAdmin(t, "01711111111", "secret123")
	f.createAdmin(t, "01722222222", "secret123")
	third := f.createAdmin(t, "01733333333", "secret123")

	page, err := f.account.Users(ctx, viewer, identityapp.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)

	thirdAdmin, err := f.repos.Admins().FindByUserID(ctx, third.ID)
	require.NoError(t, err)
	changed, errs, err := f.account.AdminStatusChange(ctx, thirdAdmin.ID.String(), "SUSPENDED")
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, shared.StatusSuspended, changed.Status)

	_, errs, err = f.account.AdminStatusChange(ctx, thirdAdmin.ID.String(), "ASLEEP")
	require.NoError(t, err)
	assert.True(t, errs.Has("status"))

	count, errs, err := f.account.AdminBulkDelete(ctx, []string{thirdAdmin.ID.String(), "not-an-id"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, errs, 1)

	page, err = f.account.Users(ctx, viewer, identityapp.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
}

func TestUserTypeGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account := identity.NewGroup("account")
	product := identity.NewGroup("product")
	require.NoError(t, f.repos.Groups().Save(ctx, account))
	require.NoError(t, f.repos.Groups().Save(ctx, product))

	mapping, errs, err := f.groups.Save(ctx, "", identityapp.UserTypeGroupInput{UserType: strPtr("ADMIN"), Group: strPtr(account.ID.String())})
	require.NoError(t, err)
	require.Empty(t, errs)

	_, errs, err = f.groups.Save(ctx, "", identityapp.UserTypeGroupInput{UserType: strPtr("ADMIN"), Group: strPtr(account.ID.String())})
	require.NoError(t, err)
	assert.Equal(t, []string{"User type group already exists."}, messages(errs, "group"))

	_, errs, err = f.groups.Save(ctx, "", identityapp.UserTypeGroupInput{UserType: strPtr("ROBOT"), Group: strPtr(product.ID.String())})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value 'ROBOT' is not a valid choice."}, messages(errs, "userType"))

	_, errs, err = f.groups.Save(ctx, "", identityapp.UserTypeGroupInput{UserType: strPtr("STORE"), Group: strPtr(product.ID.String())})
	require.NoError(t, err)
	require.Empty(t, errs)

	updated, errs, err := f.groups.Save(ctx, mapping.ID.String(), identityapp.UserTypeGroupInput{Group: strPtr(product.ID.String())})
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, product.ID, updated.GroupID)

	page, err := f.groups.List(ctx, "admin", identityapp.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)

	_, errs, err = f.groups.Delete(ctx, mapping.ID.String())
	require.NoError(t, err)
	require.Empty(t, errs)

	page, err = f.groups.List(ctx, "admin", identityapp.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalCount)
}

func boolPtr(b bool) *bool { return &b }
