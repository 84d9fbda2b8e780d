package store

import (
	"context"
	"sort"
	"sync"

	"hard75/internal/models"
)

// Memory is an in-memory implementation of DayStore, UserStore and PrefStore.
// It backs package tests and throwaway runs without Postgres.
type Memory struct {
	mu     sync.Mutex
	days   map[int]map[int]models.DayRecord // userID -> dayNumber -> record
	users  map[int]models.User
	prefs  map[int]map[string]map[string]string // userID -> namespace -> key -> value
	nextID int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		days:   make(map[int]map[int]models.DayRecord),
		users:  make(map[int]models.User),
		prefs:  make(map[int]map[string]map[string]string),
		nextID: 1,
	}
}

func (m *Memory) Day(_ context.Context, userID, dayNumber int) (*models.DayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.days[userID][dayNumber]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) AllForUser(_ context.Context, userID int) ([]models.DayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DayRecord
	for _, rec := range m.days[userID] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayNumber < out[j].DayNumber })
	return out, nil
}

func (m *Memory) Upsert(_ context.Context, rec models.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.days[rec.UserID] == nil {
		m.days[rec.UserID] = make(map[int]models.DayRecord)
	}
	m.days[rec.UserID][rec.DayNumber] = rec
	return nil
}

func (m *Memory) UpdateWeight(_ context.Context, userID, dayNumber int, weight float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.days[userID][dayNumber]
	if !ok {
		rec = models.DayRecord{DayNumber: dayNumber, UserID: userID}
	}
	rec.Weight = &weight
	if m.days[userID] == nil {
		m.days[userID] = make(map[int]models.DayRecord)
	}
	m.days[userID][dayNumber] = rec
	return nil
}

func (m *Memory) ProgressPictures(ctx context.Context, userID int) ([]models.ProgressPicture, error) {
	recs, _ := m.AllForUser(ctx, userID)
	var out []models.ProgressPicture
	for _, rec := range recs {
		if rec.ProgressPictureURL != nil {
			out = append(out, models.ProgressPicture{DayNumber: rec.DayNumber, URL: *rec.ProgressPictureURL})
		}
	}
	return out, nil
}

func (m *Memory) DeleteForUser(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.days, userID)
	return nil
}

func (m *Memory) ByID(_ context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) ByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *Memory) EmailByID(_ context.Context, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return "", nil
	}
	return u.Email, nil
}

func (m *Memory) Insert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) All(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Get(_ context.Context, userID int, namespace, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.prefs[userID][namespace][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, userID int, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prefs[userID] == nil {
		m.prefs[userID] = make(map[string]map[string]string)
	}
	if m.prefs[userID][namespace] == nil {
		m.prefs[userID][namespace] = make(map[string]string)
	}
	m.prefs[userID][namespace][key] = value
	return nil
}

func (m *Memory) Clear(_ context.Context, userID int, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs[userID], namespace)
	return nil
}
