package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medinventory/medinv/internal/equipment"
)

// Predefined store errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("username or email already registered")
	ErrEquipmentNotFound = errors.New("equipment not found")
)

// Account is a registered user with its password hash.
type Account struct {
	ID           string
	Nome         string
	Username     string
	Email        string
	Tipo         string
	PasswordHash []byte
	CreatedAt    time.Time
}

// userView is the JSON shape exposed for an account.
type userView struct {
	ID       string `json:"id"`
	Nome     string `json:"nome,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Tipo     string `json:"tipo"`
}

func (a *Account) view() userView {
	return userView{
		ID:       a.ID,
		Nome:     a.Nome,
		Username: a.Username,
		Email:    a.Email,
		Tipo:     a.Tipo,
	}
}

// Store is the in-memory backing state for the dev server.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*Account
	equipment map[string]*equipment.Equipment
	order     []string // equipment ids in creation order
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*Account),
		equipment: make(map[string]*equipment.Equipment),
	}
}

// CreateUser registers an account, rejecting duplicate usernames or emails.
func (s *Store) CreateUser(a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, a.Username) ||
			strings.EqualFold(existing.Email, a.Email) {
			return ErrUserExists
		}
	}

	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	s.users[a.ID] = a
	return nil
}

// FindUser returns an account by id.
func (s *Store) FindUser(id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *a
	return &copied, nil
}

// FindUserByIdentifier matches a username or email, case-insensitively.
func (s *Store) FindUserByIdentifier(identifier string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.users {
		if strings.EqualFold(a.Username, identifier) || strings.EqualFold(a.Email, identifier) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// UpdateUser overlays the non-empty fields of updates onto the account.
func (s *Store) UpdateUser(id string, updates Account) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if updates.Nome != "" {
		a.Nome = updates.Nome
	}
	if updates.Username != "" {
		a.Username = updates.Username
	}
	if updates.Email != "" {
		a.Email = updates.Email
	}
	if updates.Tipo != "" {
		a.Tipo = updates.Tipo
	}
	if len(updates.PasswordHash) > 0 {
		a.PasswordHash = updates.PasswordHash
	}

	copied := *a
	return &copied, nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// CreateEquipment stores a new record, assigning an id and defaulting the
// status to DISPONIVEL.
func (s *Store) CreateEquipment(eq equipment.Equipment) equipment.Equipment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eq.ID == "" {
		eq.ID = uuid.New().String()
	}
	if eq.StatusOperacional == "" {
		eq.StatusOperacional = equipment.StatusDisponivel
	}

	stored := eq
	s.equipment[eq.ID] = &stored
	s.order = append(s.order, eq.ID)
	return eq
}

// GetEquipment returns a record by id.
func (s *Store) GetEquipment(id string) (equipment.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	eq, ok := s.equipment[id]
	if !ok {
		return equipment.Equipment{}, ErrEquipmentNotFound
	}
	return *eq, nil
}

// UpdateEquipment replaces a record's descriptive fields, preserving the id
// and, when the payload leaves it empty, the current status.
func (s *Store) UpdateEquipment(id string, eq equipment.Equipment) (equipment.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.equipment[id]
	if !ok {
		return equipment.Equipment{}, ErrEquipmentNotFound
	}

	eq.ID = id
	if eq.StatusOperacional == "" {
		eq.StatusOperacional = current.StatusOperacional
	}
	*current = eq
	return eq, nil
}

// UpdateEquipmentStatus sets only the operational status. The value is
// stored verbatim, including unrecognized ones.
func (s *Store) UpdateEquipmentStatus(id string, status equipment.Status) (equipment.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eq, ok := s.equipment[id]
	if !ok {
		return equipment.Equipment{}, ErrEquipmentNotFound
	}
	eq.StatusOperacional = status
	return *eq, nil
}

// DeleteEquipment removes a record.
func (s *Store) DeleteEquipment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.equipment[id]; !ok {
		return ErrEquipmentNotFound
	}
	delete(s.equipment, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListEquipment returns one page of records matching the filters in creation
// order, plus the total match count.
func (s *Store) ListEquipment(nome string, status equipment.Status, page, limit int) ([]equipment.Equipment, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []equipment.Equipment
	for _, id := range s.order {
		eq := s.equipment[id]
		if nome != "" && !strings.Contains(strings.ToLower(eq.Nome), strings.ToLower(nome)) {
			continue
		}
		if status != "" && eq.StatusOperacional != status {
			continue
		}
		matched = append(matched, *eq)
	}

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []equipment.Equipment{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// Usernames returns all registered usernames, sorted. Used by startup
// logging and tests.
func (s *Store) Usernames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.users))
	for _, a := range s.users {
		names = append(names, a.Username)
	}
	sort.Strings(names)
	return names
}
