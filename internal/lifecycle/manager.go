package lifecycle

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-io/backend/internal/models"
)

// AccountStore is the slice of the persistence layer the manager needs for
// accounts. A missing account is reported as (nil, nil), not an error.
type AccountStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	SetDeletedAt(ctx context.Context, id uuid.UUID, deletedAt *time.Time) error
}

// BlogStore is the slice of the persistence layer the manager needs for the
// owned content entities.
type BlogStore interface {
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Blog, error)

	// SoftDeleteByOwner stamps deletedAt on every active blog of the owner.
	// Already-deleted blogs keep their original timestamp.
	SoftDeleteByOwner(ctx context.Context, ownerID uuid.UUID, deletedAt time.Time) error

	// RestoreByOwner clears deleted_at on every blog of the owner, including
	// blogs the owner deleted independently before an account delete.
	RestoreByOwner(ctx context.Context, ownerID uuid.UUID) error

	// SoftDeleteByIDAndOwner stamps deletedAt on the blog when it matches
	// both id and owner and is still active. Returns the matched row count.
	SoftDeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID, deletedAt time.Time) (int64, error)

	// RestoreByIDAndOwner clears deleted_at when id and owner match.
	// Returns the matched row count.
	RestoreByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}

type DeleteResult struct {
	DeletedAt time.Time
}

type RestoreResult struct {
	// Warnings carries non-fatal step failures; the account itself is
	// restored whenever err is nil, warnings or not.
	Warnings []string
}

type Status struct {
	IsDeleted bool
	DeletedAt *time.Time
}

type BlogResult struct {
	DeletedAt *time.Time
}

// Manager runs the soft-delete/restore transitions for accounts and their
// blogs. Delete and restore of the same account are serialized through a
// keyed mutex; different accounts proceed independently.
type Manager struct {
	accounts AccountStore
	blogs    BlogStore
	locks    *keyedMutex
	now      func() time.Time
}

type ManagerOption func(*Manager)

// WithNow replaces the manager's time source, used by tests.
func WithNow(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(accounts AccountStore, blogs BlogStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		accounts: accounts,
		blogs:    blogs,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// DeleteAccount soft-deletes the account and all of its active blogs.
// The blog cascade runs first and is fatal: the account must never be marked
// deleted while its content state is unknown, or the content would fall out
// of the normal restore path. Repeat calls keep the original timestamps.
func (m *Manager) DeleteAccount(ctx context.Context, accountID, actingID uuid.UUID) (*DeleteResult, error) {
	if actingID != accountID {
		return nil, ErrUnauthorized
	}

	unlock := m.locks.Lock(accountID.String())
	defer unlock()

	account, err := m.accounts.FindByID(ctx, accountID)
	if err != nil {
		log.Printf("lifecycle: load account %s failed: %v", accountID, err)
		return nil, &UpstreamError{Step: "load account", Err: err}
	}
	if account == nil {
		return nil, ErrNotFound
	}

	now := m.now().UTC()
	deletedAt := now
	if account.IsDeleted() {
		deletedAt = *account.DeletedAt
	}

	steps := []step{
		{
			name: "delete blogs",
			mode: stepFatal,
			run: func(ctx context.Context) error {
				return m.blogs.SoftDeleteByOwner(ctx, accountID, now)
			},
		},
		{
			name: "delete account",
			mode: stepFatal,
			run: func(ctx context.Context) error {
				if account.IsDeleted() {
					return nil
				}
				return m.accounts.SetDeletedAt(ctx, accountID, &now)
			},
		},
	}

	if _, err := runSteps(ctx, steps); err != nil {
		return nil, err
	}

	return &DeleteResult{DeletedAt: deletedAt}, nil
}

// RestoreAccount clears the account's deletion mark, then restores its blogs
// best-effort. A failed blog restore does not roll the account back: regaining
// account access must not hinge on a bulk secondary update, and the restore
// can be retried safely.
func (m *Manager) RestoreAccount(ctx context.Context, accountID, actingID uuid.UUID) (*RestoreResult, error) {
	if actingID != accountID {
		return nil, ErrUnauthorized
	}

	unlock := m.locks.Lock(accountID.String())
	defer unlock()

	account, err := m.accounts.FindByID(ctx, accountID)
	if err != nil {
		log.Printf("lifecycle: load account %s failed: %v", accountID, err)
		return nil, &UpstreamError{Step: "load account", Err: err}
	}
	if account == nil {
		return nil, ErrNotFound
	}

	steps := []step{
		{
			name: "restore account",
			mode: stepFatal,
			run: func(ctx context.Context) error {
				return m.accounts.SetDeletedAt(ctx, accountID, nil)
			},
		},
		{
			name: "restore blogs",
			mode: stepBestEffort,
			run: func(ctx context.Context) error {
				return m.blogs.RestoreByOwner(ctx, accountID)
			},
		},
	}

	warnings, err := runSteps(ctx, steps)
	if err != nil {
		return nil, err
	}

	return &RestoreResult{Warnings: warnings}, nil
}

// AccountStatus reports whether the account is soft-deleted. Read-only.
func (m *Manager) AccountStatus(ctx context.Context, accountID uuid.UUID) (*Status, error) {
	account, err := m.accounts.FindByID(ctx, accountID)
	if err != nil {
		log.Printf("lifecycle: load account %s failed: %v", accountID, err)
		return nil, &UpstreamError{Step: "load account", Err: err}
	}
	if account == nil {
		return nil, ErrNotFound
	}

	return &Status{
		IsDeleted: account.IsDeleted(),
		DeletedAt: account.DeletedAt,
	}, nil
}

// DeleteBlog soft-deletes one blog after an ownership check. A blog that is
// already deleted reports success with its original timestamp untouched.
// Blogs the caller does not own are indistinguishable from missing ones.
func (m *Manager) DeleteBlog(ctx context.Context, blogID, actingID uuid.UUID) (*BlogResult, error) {
	blog, err := m.blogs.FindByIDAndOwner(ctx, blogID, actingID)
	if err != nil {
		log.Printf("lifecycle: load blog %s failed: %v", blogID, err)
		return nil, &UpstreamError{Step: "load blog", Err: err}
	}
	if blog == nil {
		return nil, ErrNotFound
	}

	if blog.DeletedAt != nil {
		return &BlogResult{DeletedAt: blog.DeletedAt}, nil
	}

	now := m.now().UTC()

	matched, err := m.blogs.SoftDeleteByIDAndOwner(ctx, blogID, actingID, now)
	if err != nil {
		log.Printf("lifecycle: delete blog %s failed: %v", blogID, err)
		return nil, &UpstreamError{Step: "delete blog", Err: err}
	}

	if matched == 0 {
		// Lost a race with another delete; re-read to report the timestamp
		// that actually stuck.
		blog, err = m.blogs.FindByIDAndOwner(ctx, blogID, actingID)
		if err != nil {
			return nil, &UpstreamError{Step: "load blog", Err: err}
		}
		if blog == nil {
			return nil, ErrNotFound
		}
		return &BlogResult{DeletedAt: blog.DeletedAt}, nil
	}

	return &BlogResult{DeletedAt: &now}, nil
}

// RestoreBlog clears one blog's deletion mark after an ownership check.
func (m *Manager) RestoreBlog(ctx context.Context, blogID, actingID uuid.UUID) (*BlogResult, error) {
	blog, err := m.blogs.FindByIDAndOwner(ctx, blogID, actingID)
	if err != nil {
		log.Printf("lifecycle: load blog %s failed: %v", blogID, err)
		return nil, &UpstreamError{Step: "load blog", Err: err}
	}
	if blog == nil {
		return nil, ErrNotFound
	}

	if blog.DeletedAt == nil {
		return &BlogResult{}, nil
	}

	if _, err := m.blogs.RestoreByIDAndOwner(ctx, blogID, actingID); err != nil {
		log.Printf("lifecycle: restore blog %s failed: %v", blogID, err)
		return nil, &UpstreamError{Step: "restore blog", Err: err}
	}

	return &BlogResult{}, nil
}
