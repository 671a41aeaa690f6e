package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/aiscribe/aiscribe-backend/internal/models"
)

// MemoryStorage keeps every table in process memory. A single mutex guards
// all tables: operations that read and then write (quota consumption, token
// consumption) must not interleave across requests.
type MemoryStorage struct {
	mu sync.Mutex

	users       map[int]*models.User
	tools       map[int]*models.Tool
	generations map[int]*models.Generation
	resetTokens map[string]*models.ResetToken

	userIDCounter       int
	toolIDCounter       int
	generationIDCounter int

	now func() time.Time
}

// NewMemoryStorage returns a store pre-seeded with the default tool catalog.
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{
		users:               make(map[int]*models.User),
		tools:               make(map[int]*models.Tool),
		generations:         make(map[int]*models.Generation),
		resetTokens:         make(map[string]*models.ResetToken),
		userIDCounter:       1,
		toolIDCounter:       1,
		generationIDCounter: 1,
		now:                 time.Now,
	}
	for _, tool := range defaultTools() {
		s.CreateTool(tool)
	}
	return s
}

func (s *MemoryStorage) CreateUser(username, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user := &models.User{
		ID:               s.userIDCounter,
		Username:         username,
		Password:         passwordHash,
		Premium:          false,
		DailyGenerations: 0,
		LastGeneratedAt:  &now,
	}
	s.userIDCounter++
	s.users[user.ID] = user

	u := *user
	return &u, nil
}

func (s *MemoryStorage) GetUser(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

func (s *MemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := s.findByUsername(username)
	if user == nil {
		return nil, ErrNotFound
	}
	u := *user
	return &u, nil
}

// findByUsername is a linear scan; caller must hold the lock. Usernames are
// matched case-sensitively.
func (s *MemoryStorage) findByUsername(username string) *models.User {
	for _, user := range s.users {
		if user.Username == username {
			return user
		}
	}
	return nil
}

func (s *MemoryStorage) UpdateUserPremium(id int, premium bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.Premium = premium

	u := *user
	return &u, nil
}

func (s *MemoryStorage) IncrementUserGenerations(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.applyIncrement(user)

	u := *user
	return &u, nil
}

func (s *MemoryStorage) ConsumeGeneration(id, limit int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if limit > 0 && effectiveCount(user, s.now()) >= limit {
		return nil, ErrQuotaExceeded
	}
	s.applyIncrement(user)

	u := *user
	return &u, nil
}

func (s *MemoryStorage) ResetUserGenerations(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user.DailyGenerations = 0

	u := *user
	return &u, nil
}

// applyIncrement bumps the daily counter in place; caller must hold the
// lock. The counter resets to 1 when the day-of-month changed since the
// last generation (not the full calendar date — long-standing behavior the
// rest of the system expects).
func (s *MemoryStorage) applyIncrement(user *models.User) {
	now := s.now()
	if user.LastGeneratedAt != nil && user.LastGeneratedAt.Day() != now.Day() {
		user.DailyGenerations = 1
	} else {
		user.DailyGenerations++
	}
	user.LastGeneratedAt = &now
}

// effectiveCount is today's counter value after a pending day rollover.
func effectiveCount(user *models.User, now time.Time) int {
	if user.LastGeneratedAt != nil && user.LastGeneratedAt.Day() != now.Day() {
		return 0
	}
	return user.DailyGenerations
}

func (s *MemoryStorage) CreateTool(tool models.Tool) (*models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tool.ID = s.toolIDCounter
	s.toolIDCounter++

	stored := tool
	s.tools[stored.ID] = &stored

	t := stored
	return &t, nil
}

func (s *MemoryStorage) GetTools() ([]models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tools := make([]models.Tool, 0, len(s.tools))
	for _, tool := range s.tools {
		tools = append(tools, *tool)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].ID < tools[j].ID })
	return tools, nil
}

func (s *MemoryStorage) GetTool(id int) (*models.Tool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tool, ok := s.tools[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := *tool
	return &t, nil
}

func (s *MemoryStorage) CreateGeneration(gen models.Generation) (*models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen.ID = s.generationIDCounter
	s.generationIDCounter++
	gen.CreatedAt = s.now()

	stored := gen
	s.generations[stored.ID] = &stored

	g := stored
	return &g, nil
}

func (s *MemoryStorage) GetGenerations(userID int) ([]models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Generation, 0)
	for _, gen := range s.generations {
		if gen.UserID == userID {
			result = append(result, *gen)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStorage) GetGeneration(id int) (*models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen, ok := s.generations[id]
	if !ok {
		return nil, ErrNotFound
	}
	g := *gen
	return &g, nil
}

func (s *MemoryStorage) DeleteGeneration(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.generations[id]
	delete(s.generations, id)
	return ok, nil
}

func (s *MemoryStorage) StoreResetToken(username, token string, expiry time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetTokens[token] = &models.ResetToken{
		Token:    token,
		Username: username,
		Expiry:   expiry,
	}
	return nil
}

func (s *MemoryStorage) VerifyResetToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkToken(token)
}

// checkToken validates presence and expiry, removing expired tokens; caller
// must hold the lock.
func (s *MemoryStorage) checkToken(token string) (string, error) {
	data, ok := s.resetTokens[token]
	if !ok {
		return "", ErrTokenInvalid
	}
	if data.Expiry.Before(s.now()) {
		delete(s.resetTokens, token)
		return "", ErrTokenExpired
	}
	return data.Username, nil
}

func (s *MemoryStorage) ResetPassword(token, hashedPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, err := s.checkToken(token)
	if err != nil {
		return err
	}

	user := s.findByUsername(username)
	if user == nil {
		return ErrNotFound
	}

	user.Password = hashedPassword
	delete(s.resetTokens, token)
	return nil
}
