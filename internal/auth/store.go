package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mkravchenko/marketplace/internal/hash"
	"github.com/mkravchenko/marketplace/internal/models"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the injected user directory. The memory implementation is
// the mock seed directory; the gorm one backs it with a real table.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, string, error)
	Insert(ctx context.Context, user *models.User, passwordHash string) error
}

type memoryUser struct {
	user         models.User
	passwordHash string
}

type MemoryStore struct {
	mu    sync.RWMutex
	users []memoryUser

	// Delay simulates directory latency. Zero in tests.
	Delay time.Duration
}

type SeedUser struct {
	User     models.User
	Password string
}

// SeedUsers is the demo directory: one user per role, password "password123".
func SeedUsers() []SeedUser {
	now := time.Now().UTC()
	mk := func(id, email, name string, role models.Role) SeedUser {
		return SeedUser{
			User: models.User{
				ID: id, Email: email, Name: name, Role: role,
				CreatedAt: now, UpdatedAt: now,
			},
			Password: "password123",
		}
	}
	return []SeedUser{
		mk("1", "customer@demo.com", "John Customer", models.RoleCustomer),
		mk("2", "seller@demo.com", "Jane Seller", models.RoleSeller),
		mk("3", "admin@demo.com", "Admin User", models.RoleAdmin),
	}
}

func NewMemoryStore(seed []SeedUser) (*MemoryStore, error) {
	s := &MemoryStore{}
	for _, su := range seed {
		h, err := hash.HashPassword(su.Password)
		if err != nil {
			return nil, err
		}
		s.users = append(s.users, memoryUser{user: su.User, passwordHash: h})
	}
	return s, nil
}

func (s *MemoryStore) sleep(ctx context.Context) error {
	if s.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, string, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].user.Email == email {
			u := s.users[i].user
			return &u, s.users[i].passwordHash, nil
		}
	}
	return nil, "", ErrInvalidCredentials
}

func (s *MemoryStore) Insert(ctx context.Context, user *models.User, passwordHash string) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].user.Email == user.Email {
			return ErrUserExists
		}
	}
	s.users = append(s.users, memoryUser{user: *user, passwordHash: passwordHash})
	return nil
}

// Len reports the directory size; handy for duplicate-signup assertions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

type gormUser struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (gormUser) TableName() string { return "users" }

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&gormUser{}); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var rec gormUser
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	user := models.User{
		ID:        rec.ID,
		Email:     rec.Email,
		Name:      rec.Name,
		Role:      models.Role(rec.Role),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	return &user, rec.PasswordHash, nil
}

func (s *GormStore) Insert(ctx context.Context, user *models.User, passwordHash string) error {
	rec := gormUser{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		Role:         string(user.Role),
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	tx := s.DB.WithContext(ctx).Where("email = ?", user.Email).FirstOrCreate(&rec)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserExists
	}
	return nil
}
