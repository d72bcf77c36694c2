package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"pdfshare/internal/model"
	"pdfshare/internal/repository"
)

// memRepo is an in-memory stand-in for the postgres repositories, used by scenario tests.
type memRepo struct {
	mu       sync.Mutex
	docs     map[string]model.Document
	tokens   map[string]model.AccessToken
	logs     []model.AccessLog
	comments map[string]model.Comment
	users    map[string]model.User
}

func newMemRepo() *memRepo {
	return &memRepo{
		docs:     map[string]model.Document{},
		tokens:   map[string]model.AccessToken{},
		comments: map[string]model.Comment{},
		users:    map[string]model.User{},
	}
}

type memDocs struct{ *memRepo }
type memTokens struct{ *memRepo }
type memLogs struct{ *memRepo }
type memComments struct{ *memRepo }
type memUsers struct{ *memRepo }

func (r memDocs) Create(_ context.Context, d *model.Document) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = *d
	out := *d
	return &out, nil
}

func (r memDocs) FindByID(_ context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r memDocs) ListByOwner(_ context.Context, ownerID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []model.Document{}
	for _, d := range r.docs {
		if d.OwnerID == ownerID {
			items = append(items, d)
		}
	}
	return &repository.PageResult[model.Document]{Items: items, Total: len(items)}, nil
}

func (r memDocs) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return false, nil
	}
	delete(r.docs, id)
	for k, c := range r.comments {
		if c.DocumentID == id {
			delete(r.comments, k)
		}
	}
	for k, t := range r.tokens {
		if t.DocumentID == id {
			delete(r.tokens, k)
		}
	}
	return true, nil
}

func (r memTokens) Create(_ context.Context, t *model.AccessToken) (*model.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[t.Token] = *t
	out := *t
	return &out, nil
}

func (r memTokens) FindByToken(_ context.Context, value string) (*model.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r memTokens) ListByDocument(_ context.Context, documentID string) ([]model.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.AccessToken{}
	for _, t := range r.tokens {
		if t.DocumentID == documentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memTokens) Revoke(_ context.Context, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[value]
	if !ok {
		return repository.ErrNotFound
	}
	t.Revoked = true
	r.tokens[value] = t
	return nil
}

func (r memLogs) Create(_ context.Context, e *model.AccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *e)
	return nil
}

func (r memComments) Create(_ context.Context, c *model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = *c
	out := *c
	return &out, nil
}

func (r memComments) FindByID(_ context.Context, id string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r memComments) sorted(keep func(model.Comment) bool) []model.Comment {
	out := []model.Comment{}
	for _, c := range r.comments {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out
}

func (r memComments) ListByDocument(_ context.Context, documentID string) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(c model.Comment) bool { return c.DocumentID == documentID }), nil
}

func (r memComments) ListReplies(_ context.Context, parentID string) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(c model.Comment) bool { return c.ParentCommentID != nil && *c.ParentCommentID == parentID }), nil
}

func (r memComments) UpdateContent(_ context.Context, id, content string, at time.Time) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = &at
	r.comments[id] = c
	return &c, nil
}

func (r memComments) DeleteWithReplies(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var n int64
	for k, c := range r.comments {
		if c.ParentCommentID != nil && *c.ParentCommentID == id {
			delete(r.comments, k)
			n++
		}
	}
	delete(r.comments, id)
	return n + 1, nil
}

func (r memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, repository.ErrDuplicateEmail
		}
	}
	r.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// clock is a settable time source shared by the services under test.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
