package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"happeningvibe/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeUserRepo is an in-memory UserRepository keyed by email.
type fakeUserRepo struct {
	byEmail  map[string]*domain.User
	nextID   int
	getErr   error
	passHash map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User), passHash: make(map[string]string), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	for _, u := range f.byEmail {
		if u.ID == id && u.EmailVerifiedAt == nil {
			u.EmailVerifiedAt = &at
		}
	}
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash, salt string) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.PasswordHash = passwordHash
			u.Salt = salt
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	byID      map[string]*domain.Profile
	createErr error
	updateErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) Create(_ context.Context, p *domain.Profile) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (*domain.Profile, error) {
	if p, ok := f.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) Update(_ context.Context, p *domain.Profile) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if p.Username != nil {
		for id, other := range f.byID {
			if id != p.ID && other.Username != nil && *other.Username == *p.Username {
				return domain.ErrUsernameTaken
			}
		}
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

// fakeEventRepo is an in-memory EventRepository that joins creator
// fields from a fakeProfileRepo and applies quota windows like the store.
type fakeEventRepo struct {
	profiles  *fakeProfileRepo
	byID      map[string]*domain.Event
	order     []string
	nextID    int
	createErr error
	listErr   error
	lastList  domain.EventFilter
}

func newFakeEventRepo(profiles *fakeProfileRepo) *fakeEventRepo {
	return &fakeEventRepo{profiles: profiles, byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	f.order = append(f.order, e.ID)
	return e
}

func (f *fakeEventRepo) view(e *domain.Event) *domain.EventView {
	v := &domain.EventView{Event: *e}
	if p, ok := f.profiles.byID[e.CreatedBy]; ok {
		v.CreatorUsername = p.Username
		v.IsVIP = p.IsVIP
	}
	return v
}

func (f *fakeEventRepo) CreateWithinQuota(ctx context.Context, e *domain.Event, w domain.QuotaWindow) error {
	if f.createErr != nil {
		return f.createErr
	}
	p, ok := f.profiles.byID[e.CreatedBy]
	if !ok {
		return domain.ErrNotFound
	}
	if !p.IsAdmin && w.DailyLimit > 0 {
		n, _ := f.CountCreatedBetween(ctx, e.CreatedBy, w.DayStart, w.DayEnd)
		if n >= w.DailyLimit {
			return domain.ErrQuotaExceeded
		}
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*domain.EventView, error) {
	if e, ok := f.byID[id]; ok {
		return f.view(e), nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) matching(filter domain.EventFilter) []*domain.EventView {
	var out []*domain.EventView
	for _, id := range f.order {
		e, ok := f.byID[id]
		if !ok {
			continue
		}
		if e.StartDate.After(filter.To) || e.EndDate.Before(filter.From) {
			continue
		}
		if filter.CreatedBy != "" && e.CreatedBy != filter.CreatedBy {
			continue
		}
		out = append(out, f.view(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (f *fakeEventRepo) List(_ context.Context, filter domain.EventFilter) ([]*domain.EventView, error) {
	f.lastList = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := f.matching(filter)
	if filter.Page != nil {
		off := min(filter.Page.Offset(), len(out))
		end := min(off+filter.Page.PageSize, len(out))
		out = out[off:end]
	}
	return out, nil
}

func (f *fakeEventRepo) Count(_ context.Context, filter domain.EventFilter) (int, error) {
	return len(f.matching(filter)), nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) CountCreatedBetween(_ context.Context, userID string, from, to time.Time) (int, error) {
	n := 0
	for _, e := range f.byID {
		if e.CreatedBy == userID && !e.CreatedAt.Before(from) && !e.CreatedAt.After(to) {
			n++
		}
	}
	return n, nil
}

// fakeCodeRepo stores code hashes per email and purpose.
type fakeCodeRepo struct {
	codes      map[string]string
	createErr  error
	consumeErr error
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]string)}
}

func codeKey(email string, purpose domain.AuthCodePurpose) string {
	return email + "|" + string(purpose)
}

func (f *fakeCodeRepo) Create(_ context.Context, email string, purpose domain.AuthCodePurpose, codeHash string, _ time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.codes[codeKey(email, purpose)] = codeHash
	return nil
}

func (f *fakeCodeRepo) Consume(_ context.Context, email string, purpose domain.AuthCodePurpose, codeHash string) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	k := codeKey(email, purpose)
	if f.codes[k] != codeHash {
		return false, nil
	}
	delete(f.codes, k)
	return true, nil
}

func (f *fakeCodeRepo) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

// fakePasswordHasher hashes by prefixing and compares literally.
type fakePasswordHasher struct{}

func (fakePasswordHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer records the roles of the last issued token.
type fakeTokenIssuer struct {
	roles []string
	err   error
}

func (f *fakeTokenIssuer) Issue(userID, _ string, roles []string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.roles = roles
	return "token-" + userID, nil
}

// fakeEmailService captures the codes it was asked to send.
type fakeEmailService struct {
	verification []*domain.CodeEmailData
	reset        []*domain.CodeEmailData
	err          error
}

func (f *fakeEmailService) SendVerificationCode(_ context.Context, data *domain.CodeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.verification = append(f.verification, data)
	return nil
}

func (f *fakeEmailService) SendPasswordResetCode(_ context.Context, data *domain.CodeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.reset = append(f.reset, data)
	return nil
}

func (f *fakeEmailService) lastVerificationCode() string {
	if len(f.verification) == 0 {
		return ""
	}
	return f.verification[len(f.verification)-1].Code
}
