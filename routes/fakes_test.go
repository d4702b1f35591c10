package routes

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func (m *memUsers) Insert(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		}
	}
	u.ID = primitive.NewObjectID()
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) first(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.ID == id })
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.Email == email })
}

func (m *memUsers) FindFirstAdmin(_ context.Context) (*models.User, error) {
	return m.first(func(u models.User) bool { return u.Role == models.UserRoleAdmin })
}

func (m *memUsers) FindFirst(_ context.Context) (*models.User, error) {
	return m.first(func(models.User) bool { return true })
}

func (m *memUsers) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User{}, m.users...), nil
}

func (m *memUsers) Replace(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == u.ID {
			m.users[i] = *u
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

type memLeads struct {
	mu    sync.Mutex
	leads []models.Lead
}

func (m *memLeads) Insert(_ context.Context, l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = primitive.NewObjectID()
	m.leads = append(m.leads, *l)
	return nil
}

func (m *memLeads) InsertMany(ctx context.Context, leads []*models.Lead) error {
	for _, l := range leads {
		if err := m.Insert(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (m *memLeads) FindByID(_ context.Context, id primitive.ObjectID) (*models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.leads {
		if l.ID == id {
			found := l
			found.History = append([]models.HistoryEntry{}, l.History...)
			found.Notes = append([]models.Note{}, l.Notes...)
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *memLeads) List(_ context.Context, _ string) ([]models.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Lead, 0, len(m.leads))
	for i := len(m.leads) - 1; i >= 0; i-- {
		out = append(out, m.leads[i])
	}
	return out, nil
}

func (m *memLeads) Replace(_ context.Context, l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == l.ID {
			m.leads[i] = *l
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memLeads) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.leads {
		if m.leads[i].ID == id {
			m.leads = append(m.leads[:i], m.leads[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (m *memLeads) CountTotal(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.leads)), nil
}

func (m *memLeads) groupBy(key func(models.Lead) string) []models.GroupCount {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range m.leads {
		counts[key(l)]++
	}
	out := []models.GroupCount{}
	for k, v := range counts {
		out = append(out, models.GroupCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memLeads) CountByStatus(_ context.Context) ([]models.GroupCount, error) {
	return m.groupBy(func(l models.Lead) string { return string(l.Status) }), nil
}

func (m *memLeads) CountBySource(_ context.Context) ([]models.GroupCount, error) {
	return m.groupBy(func(l models.Lead) string { return l.Source }), nil
}

func (m *memLeads) CountByMonthSince(_ context.Context, _ time.Time) ([]models.GroupCount, error) {
	return m.groupBy(func(l models.Lead) string { return l.CreatedAt.Format("2006-01") }), nil
}

type memTasks struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]models.Task
}

func (m *memTasks) Insert(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	m.tasks[t.ID] = *t
	return nil
}

func (m *memTasks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}

func (m *memTasks) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Task{}
	for _, t := range m.tasks {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) Replace(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = *t
	return nil
}

func (m *memTasks) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

type memChat struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func (m *memChat) Insert(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memChat) Recent(_ context.Context, room string, limit int64) ([]models.ChatMessageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ChatMessageView{}
	for i := len(m.messages) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if msg := m.messages[i]; msg.Room == room {
			out = append(out, models.ChatMessageView{ID: msg.ID, User: &models.ChatAuthor{ID: msg.User}, Message: msg.Message, Room: msg.Room, CreatedAt: msg.CreatedAt})
		}
	}
	return out, nil
}

func (m *memChat) FindView(_ context.Context, id primitive.ObjectID) (*models.ChatMessageView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return &models.ChatMessageView{ID: msg.ID, User: &models.ChatAuthor{ID: msg.User}, Message: msg.Message, Room: msg.Room, CreatedAt: msg.CreatedAt}, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type memAnnouncements struct {
	mu    sync.Mutex
	items []models.Announcement
}

func (m *memAnnouncements) Insert(_ context.Context, a *models.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = primitive.NewObjectID()
	m.items = append(m.items, *a)
	return nil
}

func (m *memAnnouncements) ListActive(_ context.Context) ([]models.Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Announcement{}
	for _, a := range m.items {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAnnouncements) DeactivateExpired(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type stubDatabase struct {
	pingErr error
}

func (s stubDatabase) Ping(context.Context) error { return s.pingErr }

func (s stubDatabase) GetDatabaseStatus(context.Context) map[string]interface{} {
	return map[string]interface{}{"leads": map[string]interface{}{"count": 0}}
}

var errDatabaseDown = errors.New("connection refused")
