package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"life-tasks/internal/model"
	"life-tasks/internal/repository"
)

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterInput represents data required to create an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput carries the credentials for a login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned after register and login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// PreferencesPatch carries a partial preferences update.
type PreferencesPatch struct {
	Theme             Optional[string] `json:"theme"`
	ReminderFrequency Optional[string] `json:"reminderFrequency"`
	NotifyEmail       Optional[bool]   `json:"notifyEmail"`
	NotifyPush        Optional[bool]   `json:"notifyPush"`
	TelegramChatID    Optional[int64]  `json:"telegramChatId"`
	Location          Optional[string] `json:"location"`
}

// AuthService registers users, issues tokens and resolves them back to users.
type AuthService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
	cost   int
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		log:    log,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, invalid("password", "must be at least %d characters", minPasswordLength)
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, invalid("password", "must be at most %d bytes", maxPasswordBytes)
	}

	_, err = s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  model.DefaultPreferences(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user", user.ID).Msg("user registered")
	return s.issue(&user)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, invalid("", "email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrUnauthorized
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidToken
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdatePreferences(ctx context.Context, user *model.User, patch PreferencesPatch) (*model.User, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}
	prefs := user.Preferences

	if patch.Theme.Set {
		theme, err := oneOf("theme", patch.Theme.Value, model.Themes)
		if err != nil {
			return nil, err
		}
		prefs.Theme = theme
	}
	if patch.ReminderFrequency.Set {
		freq, err := oneOf("reminderFrequency", patch.ReminderFrequency.Value, model.ReminderFrequencies)
		if err != nil {
			return nil, err
		}
		prefs.ReminderFrequency = freq
	}
	if patch.NotifyEmail.Set {
		if patch.NotifyEmail.Value == nil {
			return nil, invalid("notifyEmail", "must not be null")
		}
		prefs.NotifyEmail = *patch.NotifyEmail.Value
	}
	if patch.NotifyPush.Set {
		if patch.NotifyPush.Value == nil {
			return nil, invalid("notifyPush", "must not be null")
		}
		prefs.NotifyPush = *patch.NotifyPush.Value
	}
	if patch.TelegramChatID.Set {
		prefs.TelegramChatID = 0
		if patch.TelegramChatID.Value != nil {
			prefs.TelegramChatID = *patch.TelegramChatID.Value
		}
	}
	if patch.Location.Set {
		prefs.Location = strings.TrimSpace(stringOrEmpty(patch.Location.Value))
	}

	updated := *user
	updated.Preferences = prefs
	if err := s.users.UpdatePreferences(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	now := s.now().UTC()
	expires := now.Add(s.ttl)
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: signed, ExpiresAt: expires, User: user}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "is not a valid address")
	}
	return email, nil
}

func oneOf(field string, value *string, allowed []string) (string, error) {
	if value == nil {
		return "", invalid(field, "must not be null")
	}
	v := strings.ToLower(strings.TrimSpace(*value))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", invalid(field, "must be one of %s", strings.Join(allowed, ", "))
}
