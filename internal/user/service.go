package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/access"
	"github.com/saulo-duarte/natije-api/internal/apperr"
	"github.com/saulo-duarte/natije-api/internal/auth"
	"github.com/saulo-duarte/natije-api/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

var (
	ErrInvalidCredentials = fmt.Errorf("%w: no active account found with the given credentials", apperr.ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: token is invalid or expired", apperr.ErrUnauthorized)
	ErrGoogleDisabled     = apperr.Invalid("code", "google sign-in is not configured")
)

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*auth.TokenPair, error)
	Login(ctx context.Context, dto LoginDTO) (*auth.TokenPair, error)
	Refresh(ctx context.Context, dto RefreshDTO) (*AccessResponse, error)
	Verify(ctx context.Context, dto VerifyDTO) error
	GoogleLogin(ctx context.Context, dto GoogleLoginDTO) (*auth.TokenPair, error)

	Me(ctx context.Context) (*UserResponse, error)
	GetProfile(ctx context.Context) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, dto UpdateProfileDTO) (*ProfileResponse, error)
	DeleteProfile(ctx context.Context) error

	CreateSuperuser(ctx context.Context, dto RegisterDTO) (*User, error)
}

type userService struct {
	repo      UserRepository
	blacklist auth.Blacklist
	google    GoogleAuth
	now       access.Clock
}

func NewService(repo UserRepository, blacklist auth.Blacklist, google GoogleAuth, now access.Clock) UserService {
	if now == nil {
		now = time.Now
	}
	return &userService{repo: repo, blacklist: blacklist, google: google, now: now}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func currentUserID(ctx context.Context) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperr.ErrUnauthorized
	}
	return id, nil
}

func (s *userService) createUser(ctx context.Context, dto RegisterDTO, roleName string, superuser bool) (*User, error) {
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Invalid("email", "A user with that email already exists.")
	}

	role, err := s.repo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        dto.Email,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		PasswordHash: hash,
		RoleID:       role.ID,
		IsSuperuser:  superuser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	u.Role = *role
	return u, nil
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*auth.TokenPair, error) {
	log := config.WithContext(ctx)

	u, err := s.createUser(ctx, dto, access.RoleStudent, false)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", u.ID).Info("User registered")
	return auth.IssuePair(u.ID.String(), u.Role.Name)
}

func (s *userService) Login(ctx context.Context, dto LoginDTO) (*auth.TokenPair, error) {
	log := config.WithContext(ctx)

	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)) != nil {
		log.WithField("user_id", u.ID).Warn("Login with wrong password")
		return nil, ErrInvalidCredentials
	}

	return auth.IssuePair(u.ID.String(), u.Role.Name)
}

func (s *userService) Refresh(ctx context.Context, dto RefreshDTO) (*AccessResponse, error) {
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	claims, err := auth.ValidateRefreshJWT(dto.Refresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, auth.ErrTokenRevoked)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	token, err := auth.GenerateJWT(u.ID.String(), u.Role.Name, auth.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	return &AccessResponse{Access: token}, nil
}

func (s *userService) Verify(ctx context.Context, dto VerifyDTO) error {
	if err := apperr.Validate(dto); err != nil {
		return err
	}
	claims, err := auth.ValidateJWT(dto.Token)
	if err != nil {
		return ErrInvalidToken
	}
	if claims.Type == auth.RefreshToken {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return ErrInvalidToken
		}
	}
	return nil
}

func (s *userService) GoogleLogin(ctx context.Context, dto GoogleLoginDTO) (*auth.TokenPair, error) {
	log := config.WithContext(ctx)

	if s.google == nil {
		return nil, ErrGoogleDisabled
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	identity, err := s.google.Exchange(ctx, dto.Code)
	if err != nil {
		log.WithError(err).Warn("Google code exchange failed")
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	u, err := s.repo.GetByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		role, err := s.repo.GetRoleByName(ctx, access.RoleStudent)
		if err != nil {
			return nil, err
		}
		u = &User{
			Email:     identity.Email,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			RoleID:    role.ID,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, err
		}
		u.Role = *role
		log.WithField("user_id", u.ID).Info("User registered through Google")
	case err != nil:
		return nil, err
	}

	if identity.RefreshToken != "" {
		encrypted, err := config.Encrypt(identity.RefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to encrypt Google refresh token")
		} else {
			u.EncryptedGoogleRefreshToken = encrypted
			if err := s.repo.Update(ctx, u); err != nil {
				return nil, err
			}
		}
	}

	return auth.IssuePair(u.ID.String(), u.Role.Name)
}

func (s *userService) Me(ctx context.Context) (*UserResponse, error) {
	id, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *userService) GetProfile(ctx context.Context) (*ProfileResponse, error) {
	id, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetOrCreateProfile(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	return toProfileResponse(p, u), nil
}

func (s *userService) UpdateProfile(ctx context.Context, dto UpdateProfileDTO) (*ProfileResponse, error) {
	log := config.WithContext(ctx)

	id, err := currentUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := apperr.Validate(dto); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetOrCreateProfile(ctx, id, s.now())
	if err != nil {
		return nil, err
	}

	if d := dto.User; d != nil {
		if d.FirstName != nil {
			u.FirstName = *d.FirstName
		}
		if d.LastName != nil {
			u.LastName = *d.LastName
		}
		if d.Email != nil && normalizeEmail(*d.Email) != u.Email {
			taken, err := s.repo.EmailTaken(ctx, *d.Email, u.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperr.Invalid("email", "This email is already in use.")
			}
			u.Email = *d.Email
		}
		if d.Password != nil && *d.Password != "" {
			hash, err := hashPassword(*d.Password)
			if err != nil {
				return nil, err
			}
			u.PasswordHash = hash
		}
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, err
		}
	}

	if dto.ProfilePicture != nil {
		p.ProfilePicture = *dto.ProfilePicture
		if err := s.repo.UpdateProfile(ctx, p); err != nil {
			return nil, err
		}
	}

	log.WithFields(logrus.Fields{"profile_id": p.ID}).Info("Profile updated")
	return toProfileResponse(p, u), nil
}

func (s *userService) DeleteProfile(ctx context.Context) error {
	log := config.WithContext(ctx)

	id, err := currentUserID(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete profile")
		return err
	}

	log.Info("Profile and user deleted")
	return nil
}

// CreateSuperuser creates the administrative account, or promotes an existing
// account with the same email.
func (s *userService) CreateSuperuser(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := s.repo.EnsureRoles(ctx); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		teacher, err := s.repo.GetRoleByName(ctx, access.RoleTeacher)
		if err != nil {
			return nil, err
		}
		existing.IsSuperuser = true
		existing.RoleID = teacher.ID
		existing.Role = *teacher
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case !errors.Is(err, ErrUserNotFound):
		return nil, err
	}

	return s.createUser(ctx, dto, access.RoleTeacher, true)
}
