package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"medpages/internal/data/entity"
	"medpages/internal/data/repository"

	"github.com/google/uuid"
)

var errSMTPDown = errors.New("smtp connection refused")

// In-memory repository fakes. The Repository hub is built without a pool;
// a TxRunner installed by newTestRepository gives WithTx rollback semantics
// over these maps.

type memOTPRepo struct {
	mu    sync.Mutex
	codes map[string]*entity.OTPCode
}

func newMemOTPRepo() *memOTPRepo {
	return &memOTPRepo{codes: make(map[string]*entity.OTPCode)}
}

func (m *memOTPRepo) Create(ctx context.Context, otp *entity.OTPCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *otp
	m.codes[otp.Email] = &cp
	return nil
}

func (m *memOTPRepo) FindByEmail(ctx context.Context, email string) (*entity.OTPCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	otp, ok := m.codes[email]
	if !ok {
		return nil, nil
	}
	cp := *otp
	return &cp, nil
}

func (m *memOTPRepo) MarkVerified(ctx context.Context, otpID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, otp := range m.codes {
		if otp.ID == otpID {
			otp.Verified = true
			return nil
		}
	}
	return nil
}

func (m *memOTPRepo) Delete(ctx context.Context, otpID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for email, otp := range m.codes {
		if otp.ID == otpID {
			delete(m.codes, email)
			return nil
		}
	}
	return nil
}

func (m *memOTPRepo) DeleteByEmail(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]*entity.Session
	failCreate error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (m *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	cp := *session
	m.sessions[session.AccessToken] = &cp
	return nil
}

func (m *memSessionRepo) FindValidSession(ctx context.Context, accessToken string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[accessToken]
	if !ok || s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionRepo) Revoke(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[accessToken]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

type memMagicLinkRepo struct {
	mu    sync.Mutex
	links map[uuid.UUID]*entity.MagicLinkToken
}

func newMemMagicLinkRepo() *memMagicLinkRepo {
	return &memMagicLinkRepo{links: make(map[uuid.UUID]*entity.MagicLinkToken)}
}

func (m *memMagicLinkRepo) Create(ctx context.Context, token *entity.MagicLinkToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *token
	m.links[token.ID] = &cp
	return nil
}

func (m *memMagicLinkRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MagicLinkToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *memMagicLinkRepo) MarkRedeemed(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.links[id]; ok {
		now := time.Now()
		l.RedeemedAt = &now
	}
	return nil
}

type memUserRoleRepo struct {
	mu    sync.Mutex
	roles map[uuid.UUID][]string
}

func newMemUserRoleRepo() *memUserRoleRepo {
	return &memUserRoleRepo{roles: make(map[uuid.UUID][]string)}
}

func (m *memUserRoleRepo) grant(userID uuid.UUID, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[userID] = append(m.roles[userID], role)
}

func (m *memUserRoleRepo) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.roles[userID] {
		if r == role {
			return true, nil
		}
	}
	return false, nil
}

type memPageRepo struct {
	mu    sync.Mutex
	pages map[uuid.UUID]*entity.LandingPage
}

func newMemPageRepo() *memPageRepo {
	return &memPageRepo{pages: make(map[uuid.UUID]*entity.LandingPage)}
}

func (m *memPageRepo) put(page *entity.LandingPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.ID] = page
}

func (m *memPageRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LandingPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memPageRepo) FindBySubdomain(ctx context.Context, subdomain string) (*entity.LandingPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pages {
		if p.Subdomain == subdomain {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memPageRepo) ListAll(ctx context.Context) ([]entity.LandingPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.LandingPage
	for _, p := range m.pages {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memPageRepo) ListByStatus(ctx context.Context, status entity.PageStatus) ([]entity.LandingPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.LandingPage
	for _, p := range m.pages {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPageRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PageStatus, publishedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[id]
	if !ok {
		return nil
	}
	p.Status = status
	if publishedAt != nil {
		p.PublishedAt = publishedAt
	}
	return nil
}

type memOutboxRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.OutboxEvent
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{events: make(map[uuid.UUID]*entity.OutboxEvent)}
}

func (m *memOutboxRepo) all() []entity.OutboxEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.OutboxEvent
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out
}

func (m *memOutboxRepo) Enqueue(ctx context.Context, event *entity.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *memOutboxRepo) ClaimDue(ctx context.Context, now time.Time, leaseUntil time.Time, limit int) ([]entity.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.OutboxEvent
	for _, e := range m.events {
		due := e.Status == entity.OutboxPending || e.Status == entity.OutboxProcessing
		if due && !e.NextAttemptAt.After(now) {
			e.Status = entity.OutboxProcessing
			e.NextAttemptAt = leaseUntil
			out = append(out, *e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memOutboxRepo) MarkDone(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = entity.OutboxDone
		e.LastError = nil
	}
	return nil
}

func (m *memOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = entity.OutboxFailed
		e.LastError = &lastError
	}
	return nil
}

func (m *memOutboxRepo) Reschedule(ctx context.Context, id uuid.UUID, attempts int, nextAttemptAt time.Time, lastError string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = entity.OutboxPending
		e.Attempts = attempts
		e.NextAttemptAt = nextAttemptAt
		e.LastError = &lastError
	}
	return nil
}

func (m *memOutboxRepo) ResetFailed(ctx context.Context, eventType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.events {
		if e.Status == entity.OutboxFailed && e.EventType == eventType {
			e.Status = entity.OutboxPending
			e.Attempts = 0
			e.NextAttemptAt = time.Now()
			n++
		}
	}
	return n, nil
}

type fakeMailer struct {
	mu             sync.Mutex
	otpEmails      []string
	otpCodes       []string
	publishEmails  []string
	publishURLs    []string
	failPublishing bool
}

func (m *fakeMailer) SendOTPEmail(email, name, code string, expiryMinutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.otpEmails = append(m.otpEmails, email)
	m.otpCodes = append(m.otpCodes, code)
	return nil
}

func (m *fakeMailer) SendPagePublishedEmail(email, name, pageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPublishing {
		return errSMTPDown
	}
	m.publishEmails = append(m.publishEmails, email)
	m.publishURLs = append(m.publishURLs, pageURL)
	return nil
}

// snapshotMap copies a fake's backing map and returns a restore func that
// swaps the copy back in.
func snapshotMap[K comparable, V any](mu *sync.Mutex, live *map[K]*V) func() {
	mu.Lock()
	saved := make(map[K]*V, len(*live))
	for k, v := range *live {
		cp := *v
		saved[k] = &cp
	}
	mu.Unlock()
	return func() {
		mu.Lock()
		*live = saved
		mu.Unlock()
	}
}

func (m *memUserRoleRepo) snapshot() func() {
	m.mu.Lock()
	saved := make(map[uuid.UUID][]string, len(m.roles))
	for k, v := range m.roles {
		saved[k] = append([]string(nil), v...)
	}
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.roles = saved
		m.mu.Unlock()
	}
}

func newTestRepository() *repository.Repository {
	users := newMemUserRepo()
	roles := newMemUserRoleRepo()
	sessions := newMemSessionRepo()
	links := newMemMagicLinkRepo()
	otps := newMemOTPRepo()
	pages := newMemPageRepo()
	outbox := newMemOutboxRepo()

	repo := &repository.Repository{
		User:      users,
		UserRole:  roles,
		Session:   sessions,
		MagicLink: links,
		OTP:       otps,
		Page:      pages,
		Outbox:    outbox,
	}

	// Pool-less transactions: snapshot every fake before the callback and
	// restore the snapshots when it fails, so partial writes roll back the
	// way a real transaction would.
	repo.TxRunner = func(ctx context.Context, fn func(tx *repository.Repository) error) error {
		restores := []func(){
			snapshotMap(&users.mu, &users.users),
			roles.snapshot(),
			snapshotMap(&sessions.mu, &sessions.sessions),
			snapshotMap(&links.mu, &links.links),
			snapshotMap(&otps.mu, &otps.codes),
			snapshotMap(&pages.mu, &pages.pages),
			snapshotMap(&outbox.mu, &outbox.events),
		}
		if err := fn(repo); err != nil {
			for _, restore := range restores {
				restore()
			}
			return err
		}
		return nil
	}

	return repo
}
