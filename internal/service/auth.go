package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"textile-store/internal/apperr"
	"textile-store/internal/cache"
	"textile-store/internal/models"
)

const (
	minPasswordLength = 8
	sessionCacheTTL   = 5 * time.Minute
)

// AuthService es el proveedor de identidad: cuentas, login y sesiones
type AuthService struct {
	users    UserStore
	sessions SessionStore
	cache    cache.Cache
	ttl      time.Duration
	log      *zap.Logger

	hashCost int
	now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, c cache.Cache, sessionTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cache:    c,
		ttl:      sessionTTL,
		log:      log,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone" binding:"omitempty,idphone"`
	Locale   string `json:"locale" binding:"omitempty,oneof=id en"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type cachedSession struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register crea una cuenta de cliente
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !strings.Contains(email, "@") {
		return nil, apperr.Invalid("email", "email is invalid")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Invalid("password", "password must have at least %d characters", minPasswordLength)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("name", "name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("register %s: %w", email, apperr.ErrConflict)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		Phone:        strings.TrimSpace(in.Phone),
		Role:         models.RoleCustomer,
		Locale:       in.Locale,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login valida credenciales y abre una sesión nueva
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	now := s.now()
	session := &models.Session{
		TokenHash: hashToken(token),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}

// Logout cierra la sesión del token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	hash := hashToken(token)
	if err := s.cache.Delete(ctx, sessionKey(hash)); err != nil {
		s.log.Warn("session cache delete failed", zap.Error(err))
	}
	return s.sessions.Delete(ctx, hash)
}

// Authenticate resuelve el usuario de un token de sesión vigente
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}
	hash := hashToken(token)

	var cached cachedSession
	found, err := s.cache.Get(ctx, sessionKey(hash), &cached)
	if err != nil {
		s.log.Warn("session cache read failed", zap.Error(err))
	}
	if !found {
		session, err := s.sessions.Find(ctx, hash)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		cached = cachedSession{UserID: session.UserID.Hex(), ExpiresAt: session.ExpiresAt}
		if ttl := cached.ExpiresAt.Sub(s.now()); ttl > 0 {
			if ttl > sessionCacheTTL {
				ttl = sessionCacheTTL
			}
			if err := s.cache.Set(ctx, sessionKey(hash), cached, ttl); err != nil {
				s.log.Warn("session cache write failed", zap.Error(err))
			}
		}
	}

	if !s.now().Before(cached.ExpiresAt) {
		_ = s.Logout(ctx, token)
		return nil, apperr.ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(cached.UserID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	return user, err
}

// EnsureAdmin crea o actualiza la cuenta de administrador inicial
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if !strings.Contains(email, "@") {
		return apperr.Invalid("email", "email is invalid")
	}
	if len(password) < minPasswordLength {
		return apperr.Invalid("password", "password must have at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpsertAdmin(ctx, email, "Administrator", string(hash))
}

func (s *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile aplica solo los campos presentes
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in models.ProfileUpdate) (*models.User, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "name is required")
		}
		fields["name"] = name
	}
	if in.Phone != nil {
		fields["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		fields["address"] = strings.TrimSpace(*in.Address)
	}
	if in.Locale != nil {
		fields["locale"] = *in.Locale
	}
	if len(fields) == 0 {
		return nil, apperr.Invalid("body", "no valid fields to update")
	}
	if err := s.users.Update(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, userID)
}

// ChangePassword cambia la contraseña y cierra todas las sesiones del usuario
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.ErrInvalidCredentials
	}
	if len(next) < minPasswordLength {
		return apperr.Invalid("new_password", "password must have at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	hashes, err := s.sessions.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(hashes) == 0 {
		return nil
	}
	keys := make([]string, len(hashes))
	for i, h := range hashes {
		keys[i] = sessionKey(h)
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("revoke cached sessions: %w", err)
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int) (models.Page[*models.User], error) {
	page, pageSize = pageParams(page, pageSize)
	users, total, err := s.users.List(ctx, page, pageSize)
	if err != nil {
		return models.Page[*models.User]{}, err
	}
	return models.NewPage(users, total, page, pageSize), nil
}

// SetRole cambia el rol de un usuario; un admin no puede quitarse su propio rol
func (s *AuthService) SetRole(ctx context.Context, actorID, userID primitive.ObjectID, role string) error {
	if role != models.RoleAdmin && role != models.RoleCustomer {
		return apperr.Invalid("role", "role must be admin or customer")
	}
	if actorID == userID && role != models.RoleAdmin {
		return apperr.Invalid("role", "you cannot remove your own admin role")
	}
	if err := s.users.Update(ctx, userID, map[string]interface{}{"role": role}); err != nil {
		return err
	}
	s.log.Info("user role changed",
		zap.String("actor", actorID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.String("role", role),
	)
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func sessionKey(hash string) string {
	return "session:" + hash
}
