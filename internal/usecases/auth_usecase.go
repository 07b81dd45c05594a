package usecases

import (
	"context"
	"strings"

	"botpanel/internal/entities"
	"botpanel/internal/interfaces"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LockThreshold is the number of consecutive failed logins after which an
// account is locked until an admin unlocks it.
const LockThreshold = 3

type AuthUsecase struct {
	userRepo interfaces.UserStore
	tokens   *TokenService
	log      *logrus.Logger
}

func NewAuthUsecase(repo interfaces.UserStore, tokens *TokenService, log *logrus.Logger) *AuthUsecase {
	return &AuthUsecase{
		userRepo: repo,
		tokens:   tokens,
		log:      log,
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, email, password string) (*entities.User, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         entities.RoleUser,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login enforces the lockout policy: a locked account is rejected before the
// password is even compared, a mismatch increments the failure counter, and
// the third consecutive failure locks the account.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (string, *entities.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrNotFound
	}
	if user.AccountLocked {
		return "", nil, ErrLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		attempts, locked, err := uc.userRepo.RecordFailedLogin(ctx, user.ID, LockThreshold)
		if err != nil {
			return "", nil, err
		}
		if locked {
			uc.log.WithFields(logrus.Fields{"user": user.ID, "attempts": attempts}).
				Warn("account locked after repeated failed logins")
		}
		return "", nil, ErrInvalidCredentials
	}

	if err := uc.userRepo.ResetFailedLogins(ctx, user.ID); err != nil {
		return "", nil, err
	}
	user.FailedLoginAttempts = 0

	token, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// EnsureAdmin creates an admin account if none exists for email (called on
// startup). The email is normalized the same way the login path does it, so a
// mixed-case configured address still matches at login.
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user != nil {
		return nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entities.User{
		Email:        email,
		PasswordHash: string(hashed),
		Role:         entities.RoleAdmin,
	}
	return uc.userRepo.Create(ctx, admin)
}
