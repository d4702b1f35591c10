package service

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

func duplicateKeyError() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
}

// ---- leads ----

type fakeLeadStore struct {
	mu            sync.Mutex
	leads         []*models.Lead
	insertManyErr error
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{}
}

func cloneLead(l *models.Lead) *models.Lead {
	c := *l
	c.History = append([]models.HistoryEntry{}, l.History...)
	c.Tags = append([]string{}, l.Tags...)
	c.Notes = append([]models.Note{}, l.Notes...)
	return &c
}

func (f *fakeLeadStore) Insert(_ context.Context, lead *models.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	f.leads = append(f.leads, cloneLead(lead))
	return nil
}

func (f *fakeLeadStore) InsertMany(_ context.Context, leads []*models.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertManyErr != nil {
		return f.insertManyErr
	}
	for _, lead := range leads {
		if lead.ID.IsZero() {
			lead.ID = primitive.NewObjectID()
		}
		f.leads = append(f.leads, cloneLead(lead))
	}
	return nil
}

func (f *fakeLeadStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leads {
		if l.ID == id {
			return cloneLead(l), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeLeadStore) List(_ context.Context, _ string) ([]models.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Lead, 0, len(f.leads))
	for i := len(f.leads) - 1; i >= 0; i-- {
		out = append(out, *cloneLead(f.leads[i]))
	}
	return out, nil
}

func (f *fakeLeadStore) Replace(_ context.Context, lead *models.Lead) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.leads {
		if l.ID == lead.ID {
			f.leads[i] = cloneLead(lead)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLeadStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.leads {
		if l.ID == id {
			f.leads = append(f.leads[:i], f.leads[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeLeadStore) CountTotal(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.leads)), nil
}

func (f *fakeLeadStore) group(key func(*models.Lead) (string, bool)) []models.GroupCount {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[string]int64{}
	for _, l := range f.leads {
		if k, ok := key(l); ok {
			counts[k]++
		}
	}
	out := []models.GroupCount{}
	for k, v := range counts {
		out = append(out, models.GroupCount{ID: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeLeadStore) CountByStatus(_ context.Context) ([]models.GroupCount, error) {
	return f.group(func(l *models.Lead) (string, bool) { return string(l.Status), true }), nil
}

func (f *fakeLeadStore) CountBySource(_ context.Context) ([]models.GroupCount, error) {
	return f.group(func(l *models.Lead) (string, bool) { return l.Source, true }), nil
}

func (f *fakeLeadStore) CountByMonthSince(_ context.Context, since time.Time) ([]models.GroupCount, error) {
	return f.group(func(l *models.Lead) (string, bool) {
		if l.CreatedAt.Before(since) {
			return "", false
		}
		return l.CreatedAt.UTC().Format("2006-01"), true
	}), nil
}

func (f *fakeLeadStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.leads)
}

func (f *fakeLeadStore) all() []*models.Lead {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Lead, len(f.leads))
	for i, l := range f.leads {
		out[i] = cloneLead(l)
	}
	return out
}

// ---- users ----

type fakeUserStore struct {
	mu    sync.Mutex
	users []*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{}
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return duplicateKeyError()
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	c := *user
	f.users = append(f.users, &c)
	return nil
}

func (f *fakeUserStore) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

// 插入顺序即创建顺序
func (f *fakeUserStore) FindFirstAdmin(_ context.Context) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Role == models.UserRoleAdmin })
}

func (f *fakeUserStore) FindFirst(_ context.Context) (*models.User, error) {
	return f.find(func(*models.User) bool { return true })
}

func (f *fakeUserStore) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Replace(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := -1
	for i, u := range f.users {
		if u.ID == user.ID {
			idx = i
		} else if u.Email == user.Email {
			return duplicateKeyError()
		}
	}
	if idx < 0 {
		return mongo.ErrNoDocuments
	}
	c := *user
	f.users[idx] = &c
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (f *fakeUserStore) admins() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if u.Role == models.UserRoleAdmin {
			n++
		}
	}
	return n
}

// ---- tasks ----

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[primitive.ObjectID]models.Task{}}
}

func (f *fakeTaskStore) Insert(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &t, nil
}

func (f *fakeTaskStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Task{}
	for _, t := range f.tasks {
		if t.Owner == owner {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeTaskStore) Replace(_ context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.tasks, id)
	return nil
}

// ---- chat ----

type fakeChatStore struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	names    map[primitive.ObjectID]string
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{names: map[primitive.ObjectID]string{}}
}

func (f *fakeChatStore) Insert(_ context.Context, msg *models.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeChatStore) view(m models.ChatMessage) models.ChatMessageView {
	return models.ChatMessageView{
		ID:        m.ID,
		User:      &models.ChatAuthor{ID: m.User, Name: f.names[m.User]},
		Message:   m.Message,
		Room:      m.Room,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (f *fakeChatStore) Recent(_ context.Context, room string, limit int64) ([]models.ChatMessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ChatMessageView{}
	for i := len(f.messages) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if f.messages[i].Room == room {
			out = append(out, f.view(f.messages[i]))
		}
	}
	return out, nil
}

func (f *fakeChatStore) FindView(_ context.Context, id primitive.ObjectID) (*models.ChatMessageView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			v := f.view(m)
			return &v, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// ---- announcements ----

type fakeAnnouncementStore struct {
	mu    sync.Mutex
	items []models.Announcement
}

func (f *fakeAnnouncementStore) Insert(_ context.Context, a *models.Announcement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, *a)
	return nil
}

func (f *fakeAnnouncementStore) ListActive(_ context.Context) ([]models.Announcement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Announcement{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].Active {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeAnnouncementStore) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.items {
		a := &f.items[i]
		if a.Active && a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
			a.Active = false
			n++
		}
	}
	return n, nil
}

// ---- integrations ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type sentMail struct {
	To, Subject, Body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type fakeRevoker struct {
	tokens map[string]time.Duration
	err    error
}

func (r *fakeRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.tokens == nil {
		r.tokens = map[string]time.Duration{}
	}
	r.tokens[token] = ttl
	return nil
}

var errBoom = errors.New("boom")
