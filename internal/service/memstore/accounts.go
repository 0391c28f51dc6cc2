package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

type Users struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.User
}

func NewUsers() *Users {
	return &Users{items: make(map[primitive.ObjectID]*models.User)}
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range s.items {
		if existing.Email == u.Email {
			return fmt.Errorf("insert user: %w", apperr.ErrConflict)
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.items[u.ID] = &cp
	return nil
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("find user: %w", apperr.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find user by email: %w", apperr.ErrNotFound)
}

func (s *Users) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return fmt.Errorf("update user: %w", apperr.ErrNotFound)
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "address":
			u.Address = v.(string)
		case "locale":
			u.Locale = v.(string)
		case "role":
			u.Role = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (s *Users) List(_ context.Context, page, pageSize int) ([]*models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*models.User, 0, len(s.items))
	for _, u := range s.items {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	start, end := paginate(len(all), page, pageSize)
	return all[start:end], int64(len(all)), nil
}

func (s *Users) UpsertAdmin(ctx context.Context, email, name, hash string) error {
	if u, err := s.FindByEmail(ctx, email); err == nil {
		return s.Update(ctx, u.ID, map[string]interface{}{"role": models.RoleAdmin, "password_hash": hash})
	}
	return s.Create(ctx, &models.User{Email: email, Name: name, Role: models.RoleAdmin, PasswordHash: hash})
}

type Sessions struct {
	mu    sync.Mutex
	items map[string]*models.Session
}

func NewSessions() *Sessions {
	return &Sessions{items: make(map[string]*models.Session)}
}

func (s *Sessions) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.items[sess.TokenHash] = &cp
	return nil
}

func (s *Sessions) Find(_ context.Context, hash string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[hash]
	if !ok {
		return nil, fmt.Errorf("find session: %w", apperr.ErrNotFound)
	}
	cp := *sess
	return &cp, nil
}

func (s *Sessions) Delete(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, hash)
	return nil
}

func (s *Sessions) DeleteByUser(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hashes []string
	for k, sess := range s.items {
		if sess.UserID == userID {
			hashes = append(hashes, k)
			delete(s.items, k)
		}
	}
	return hashes, nil
}

// Len devuelve cuántas sesiones hay guardadas
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
