package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/mutation"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OtpConfig contains one time password settings
type OtpConfig struct {
	Digits int
	TTL    time.Duration
}

// DefaultOtpConfig returns six digit codes valid for five minutes
func DefaultOtpConfig() OtpConfig {
	return OtpConfig{Digits: identity.DefaultOtpDigits, TTL: identity.DefaultOtpTTL}
}

// AccountService handles admins, one time passwords and self-service account changes
type AccountService struct {
	Deps
	sender OtpSender
	otp    OtpConfig
}

// NewAccountService creates a new AccountService
func NewAccountService(deps Deps, sender OtpSender, otp OtpConfig) *AccountService {
	if otp.Digits <= 0 {
		otp.Digits = identity.DefaultOtpDigits
	}
	if otp.TTL <= 0 {
		otp.TTL = identity.DefaultOtpTTL
	}
	return &AccountService{Deps: deps, sender: sender, otp: otp}
}

func fetchAdmin(ctx context.Context, repos mutation.Repositories, id uuid.UUID, manager shared.Manager) (*identity.Admin, error) {
	return repos.Admins().FindByID(ctx, id, manager)
}

// AdminCreate creates a user with a pending admin profile. A user that already
// exists without an admin profile is reused and only gains the role.
func (s *AccountService) AdminCreate(ctx context.Context, input AdminCreateInput) (*identity.User, mutation.Errors, error) {
	var (
		reused bool
		admin  *identity.Admin
		groups []identity.Group
	)
	m := mutation.Model[*identity.User, AdminCreateInput]{
		New: func(ctx context.Context, repos mutation.Repositories, in AdminCreateInput, errs *mutation.Errors) (*identity.User, error) {
			mobile := strings.TrimSpace(in.User.Mobile)
			existing, err := repos.Users().FindByMobile(ctx, mobile)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if existing != nil {
				_, err := repos.Admins().FindByUserID(ctx, existing.ID)
				switch {
				case err == nil:
					errs.Add("mobile", "User already exists within this mobile.")
					return nil, nil
				case !errors.Is(err, shared.ErrNotFound):
					return nil, err
				}
				reused = true
				return existing, nil
			}
			last, err := repos.Users().LastCode(ctx)
			if err != nil {
				return nil, err
			}
			code, err := shared.UserCodes.Next(last, 0)
			if err != nil {
				errs.AddDomain("code", err)
				return nil, nil
			}
			return identity.NewUser(code, mobile), nil
		},
		Clean: func(ctx context.Context, repos mutation.Repositories, user *identity.User, in AdminCreateInput, errs *mutation.Errors) error {
			if !reused {
				if err := cleanNewUser(ctx, repos, user, in.User, errs); err != nil {
					return err
				}
			}
			var err error
			groups, err = cleanRoleGroups(ctx, repos, identity.UserTypeAdmin, in.User.Groups, errs)
			if err != nil {
				return err
			}
			admin = newAdminProfile(user.ID, in.Admin)
			return mutation.ValidateStruct(admin, errs)
		},
		Save: func(ctx context.Context, repos mutation.Repositories, user *identity.User) error {
			if reused {
				return nil
			}
			return repos.Users().Save(ctx, user)
		},
		AfterSave: func(ctx context.Context, repos mutation.Repositories, user *identity.User, _ AdminCreateInput) error {
			if err := repos.Admins().Save(ctx, admin); err != nil {
				return err
			}
			if err := repos.Users().AddRole(ctx, identity.NewUserRole(user.ID, identity.UserTypeAdmin)); err != nil {
				return err
			}
			return repos.Users().AddToGroups(ctx, user, groups...)
		},
		Events: s.Events,
	}
	user, errs, err := m.Perform(ctx, s.Scope, "", input)
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Admin created", zap.String("user_id", user.ID.String()), zap.Bool("reused", reused))
	return user, errs, nil
}

// cleanNewUser copies the input onto a user that is about to be created
func cleanNewUser(ctx context.Context, repos mutation.Repositories, user *identity.User, in UserInput, errs *mutation.Errors) error {
	if !identity.ValidMobile(user.Mobile) {
		errs.Add("mobile", "Invalid mobile.")
	}
	exists, err := repos.Users().ExistsByMobile(ctx, user.Mobile, user.ID)
	if err != nil {
		return err
	}
	if exists {
		errs.Add("mobile", "User already exists within this mobile.")
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := identity.NormalizeEmail(*in.Email)
		user.Email = &email
		exists, err := repos.Users().ExistsByEmail(ctx, email, user.ID)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("email", "User already exists within this email.")
		}
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Country != nil {
		country := strings.ToUpper(strings.TrimSpace(*in.Country))
		user.CountryCode = &country
	}
	user.Note = in.Note
	user.Dob = in.Dob
	user.Facebook = in.Facebook
	user.Instagram = in.Instagram
	user.Whatsapp = in.Whatsapp

	if in.Password == nil {
		errs.Add("password", "This field cannot be blank.")
		return nil
	}
	if err := user.SetPassword(*in.Password); err != nil {
		errs.AddDomain("password", err)
	}
	return nil
}

// cleanRoleGroups resolves permission groups that role holders may be granted
func cleanRoleGroups(ctx context.Context, repos mutation.Repositories, role identity.UserType, raw []string, errs *mutation.Errors) ([]identity.Group, error) {
	groups := make([]identity.Group, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			errs.Add("permission", "No permissions under the role")
			continue
		}
		group, err := repos.Groups().FindByID(ctx, id)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("permission", "No permissions under the role")
			continue
		}
		if err != nil {
			return nil, err
		}
		mapped, err := repos.Groups().UserTypeMapped(ctx, role, []uuid.UUID{group.ID})
		if err != nil {
			return nil, err
		}
		if !mapped {
			errs.Add("permission", "No permissions under the role")
			continue
		}
		groups = append(groups, *group)
	}
	return groups, nil
}

func newAdminProfile(userID uuid.UUID, in AdminInput) *identity.Admin {
	admin := identity.NewAdmin(userID)
	if in.IsSuper != nil {
		admin.IsSuper = *in.IsSuper
	}
	if in.DateJoined != nil {
		admin.DateJoined = *in.DateJoined
	}
	if in.Status != nil {
		admin.Status = shared.Status(strings.ToUpper(*in.Status))
	}
	if in.AuthType != nil {
		admin.AuthType = identity.AuthType(*in.AuthType)
	}
	return admin
}

// SendOtp issues a one time password to a user and delivers it once stored
func (s *AccountService) SendOtp(ctx context.Context, userID string) (mutation.Errors, error) {
	var (
		user *identity.User
		otp  *identity.Otp
	)
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		var err error
		user, err = findUser(ctx, repos, userID, "user", errs)
		if err != nil || user == nil {
			return err
		}
		otp, err = identity.NewOtp(user.ID, s.otp.Digits, s.otp.TTL, s.now())
		if err != nil {
			return err
		}
		return repos.Otps().Save(ctx, otp)
	})
	if err != nil || !errs.Empty() {
		return errs, err
	}
	if err := s.sender.SendOtp(ctx, user.Mobile, otp.Otp); err != nil {
		s.log().Error("Failed to send otp", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, err
	}
	return errs, nil
}

// VerifyOtp checks a code against the user's unexpired one time passwords and consumes them
func (s *AccountService) VerifyOtp(ctx context.Context, userID string, code int) (mutation.Errors, error) {
	return mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		user, err := findUser(ctx, repos, userID, "user", errs)
		if err != nil || user == nil {
			return err
		}
		if _, err := repos.Otps().FindValid(ctx, user.ID, code, s.now()); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				errs.AddRaw("OTP", "Invalid OTP")
				return nil
			}
			return err
		}
		return repos.Otps().DeleteForUser(ctx, user.ID)
	})
}

// AdminVerify activates a pending admin after checking an issued OTP and sets the password
func (s *AccountService) AdminVerify(ctx context.Context, input AdminVerifyInput) (*identity.Admin, mutation.Errors, error) {
	var admin *identity.Admin
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		user, err := findUser(ctx, repos, input.User, "user", errs)
		if err != nil || user == nil {
			return err
		}
		if _, err := repos.Otps().FindValid(ctx, user.ID, input.Otp, s.now()); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				errs.Add("user", "Invalid OTP")
				return nil
			}
			return err
		}
		admin, err = repos.Admins().FindByUserID(ctx, user.ID)
		if errors.Is(err, shared.ErrNotFound) {
			errs.Add("user", "Admin user not found.")
			return nil
		}
		if err != nil {
			return err
		}
		if err := user.SetPassword(input.Password); err != nil {
			errs.AddDomain("password", err)
			return nil
		}
		admin.Status = shared.StatusActive
		if err := repos.Users().Save(ctx, user); err != nil {
			return err
		}
		if err := repos.Admins().Save(ctx, admin); err != nil {
			return err
		}
		return repos.Otps().DeleteForUser(ctx, user.ID)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	s.log().Info("Admin verified", zap.String("admin_id", admin.ID.String()))
	return admin, errs, nil
}

// ChangeName renames the viewer
func (s *AccountService) ChangeName(ctx context.Context, viewer *identity.User, name string) (*identity.User, mutation.Errors, error) {
	return s.updateViewer(ctx, viewer, func(_ mutation.Repositories, user *identity.User, _ *mutation.Errors) error {
		user.Name = strings.TrimSpace(name)
		return nil
	})
}

// ChangeEmail sets the viewer's email address
func (s *AccountService) ChangeEmail(ctx context.Context, viewer *identity.User, email string) (*identity.User, mutation.Errors, error) {
	return s.updateViewer(ctx, viewer, func(repos mutation.Repositories, user *identity.User, errs *mutation.Errors) error {
		normalized := identity.NormalizeEmail(email)
		if normalized == "" {
			user.Email = nil
			return nil
		}
		exists, err := repos.Users().ExistsByEmail(ctx, normalized, user.ID)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("email", "User already exists within this email.")
			return nil
		}
		user.Email = &normalized
		return nil
	})
}

// ChangePassword replaces the viewer's password after checking the current one
func (s *AccountService) ChangePassword(ctx context.Context, viewer *identity.User, current, next string) (*identity.User, mutation.Errors, error) {
	return s.updateViewer(ctx, viewer, func(_ mutation.Repositories, user *identity.User, errs *mutation.Errors) error {
		if err := user.ChangePassword(current, next); err != nil {
			errs.AddDomain("password", err)
		}
		return nil
	})
}

// updateViewer reloads the viewer in a transaction, applies change, validates and saves
func (s *AccountService) updateViewer(ctx context.Context, viewer *identity.User, change func(repos mutation.Repositories, user *identity.User, errs *mutation.Errors) error) (*identity.User, mutation.Errors, error) {
	if viewer == nil {
		var errs mutation.Errors
		errs.Add("user", "user not found")
		return nil, errs, nil
	}
	var user *identity.User
	errs, err := mutation.Run(ctx, s.Scope, func(repos mutation.Repositories, errs *mutation.Errors) error {
		var err error
		user, err = findUser(ctx, repos, viewer.ID.String(), "user", errs)
		if err != nil || user == nil {
			return err
		}
		if err := change(repos, user, errs); err != nil {
			return err
		}
		if !errs.Empty() {
			return nil
		}
		if err := mutation.ValidateStruct(user, errs); err != nil || !errs.Empty() {
			return err
		}
		return repos.Users().Save(ctx, user)
	})
	if err != nil || !errs.Empty() {
		return nil, errs, err
	}
	return user, errs, nil
}

// AdminStatusChange sets the status of an admin profile
func (s *AccountService) AdminStatusChange(ctx context.Context, id, status string) (*identity.Admin, mutation.Errors, error) {
	sc := mutation.StatusChange[*identity.Admin]{Fetch: fetchAdmin, Events: s.Events}
	return sc.Perform(ctx, s.Scope, id, status, nil)
}

// AdminBulkDelete removes several admin profiles; their users remain
func (s *AccountService) AdminBulkDelete(ctx context.Context, ids []string) (int, mutation.Errors, error) {
	b := mutation.Bulk[*identity.Admin]{Fetch: fetchAdmin, Events: s.Events}
	return b.Delete(ctx, s.Scope, ids)
}

// Users lists admins other than the viewer
func (s *AccountService) Users(ctx context.Context, viewer *identity.User, in ListInput) (shared.Page[identity.Admin], error) {
	f := in.filter()
	if viewer != nil {
		f.Filters["exclude_user_id"] = []uuid.UUID{viewer.ID}
	}
	items, err := s.Repos.Admins().FindAll(ctx, f)
	if err != nil {
		return shared.Page[identity.Admin]{}, err
	}
	total, err := s.Repos.Admins().Count(ctx, f)
	if err != nil {
		return shared.Page[identity.Admin]{}, err
	}
	return shared.NewPage(items, total), nil
}
