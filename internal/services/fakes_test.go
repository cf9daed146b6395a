package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/pkg/errors"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[uint]*models.User)}
}

func (f *fakeUsers) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == 0 {
		f.nextID++
		u.ID = f.nextID
	} else if u.ID > f.nextID {
		f.nextID = u.ID
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			f.mu.Unlock()
			return errors.New(errors.ErrCodeAlreadyExists, "user already exists")
		}
	}
	f.mu.Unlock()
	f.add(user)
	return nil
}

func (f *fakeUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "user not found")
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == models.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "user not found")
}

func (f *fakeUsers) GetUserByTelegramID(_ context.Context, telegramID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.TelegramID != nil && *u.TelegramID == telegramID {
			return u, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "user not found")
}

func (f *fakeUsers) SetTelegramLinkCode(_ context.Context, userID uint, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	u.TelegramLinkCode = code
	u.TelegramLinkExpiresAt = &expiresAt
	return nil
}

func (f *fakeUsers) LinkTelegram(_ context.Context, code string, telegramID int64, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.TelegramLinkCode == code && u.TelegramLinkExpiresAt != nil && u.TelegramLinkExpiresAt.After(now) {
			for _, other := range f.byID {
				if other.TelegramID != nil && *other.TelegramID == telegramID {
					other.TelegramID = nil
				}
			}
			id := telegramID
			u.TelegramID = &id
			u.TelegramLinkCode = ""
			u.TelegramLinkExpiresAt = nil
			return u, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "link code is invalid or expired")
}

type fakeProfiles struct {
	mu     sync.Mutex
	byUser map[uint]models.Profile
}

func newFakeProfiles(profiles ...*models.Profile) *fakeProfiles {
	f := &fakeProfiles{byUser: make(map[uint]models.Profile)}
	for _, p := range profiles {
		f.put(p)
	}
	return f
}

func (f *fakeProfiles) put(p *models.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.IsComplete = cp.Complete()
	f.byUser[p.UserID] = cp
}

func (f *fakeProfiles) GetByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUser[userID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "profile not found")
	}
	return &p, nil
}

func (f *fakeProfiles) SaveProfile(_ context.Context, profile *models.Profile) error {
	f.put(profile)
	return nil
}

func (f *fakeProfiles) ListCompleteExcluding(_ context.Context, userID uint) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Profile, 0, len(f.byUser))
	for id, p := range f.byUser {
		if id != userID && p.IsComplete {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

// fakeMatches enforces one match per unordered pair like the unique index.
// With blindLookup set, FindByPair never sees existing rows, which mimics
// two generators racing between the lookup and the insert.
type fakeMatches struct {
	mu          sync.Mutex
	nextID      uint
	rows        map[uint]*models.Match
	blindLookup bool
	clock       time.Time
}

func newFakeMatches() *fakeMatches {
	return &fakeMatches{
		rows:  make(map[uint]*models.Match),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeMatches) findLocked(a, b uint) *models.Match {
	low, high := models.PairKey(a, b)
	for _, m := range f.rows {
		if m.PairLowID == low && m.PairHighID == high {
			return m
		}
	}
	return nil
}

func (f *fakeMatches) FindByPair(_ context.Context, userID, otherID uint) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blindLookup {
		return nil, nil
	}
	if m := f.findLocked(userID, otherID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeMatches) CreateIfAbsent(_ context.Context, match *models.Match) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findLocked(match.UserAID, match.UserBID) != nil {
		return false, nil
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	match.ID = f.nextID
	match.PairLowID, match.PairHighID = models.PairKey(match.UserAID, match.UserBID)
	match.CreatedAt = f.clock
	cp := *match
	f.rows[cp.ID] = &cp
	return true, nil
}

func (f *fakeMatches) ListForUser(_ context.Context, userID uint) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range f.rows {
		if m.HasParticipant(userID) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMatches) GetMatchByID(_ context.Context, id uint) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "match not found")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatches) UpdateStatus(_ context.Context, id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "match not found")
	}
	m.Status = status
	return nil
}

func (f *fakeMatches) UpdateStatusIfPending(_ context.Context, id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.rows[id]
	if !ok || m.Status != models.MatchStatusPending {
		return errors.New(errors.ErrCodeAlreadyExists, "match already answered")
	}
	m.Status = status
	return nil
}

// seed inserts an existing match directly.
func (f *fakeMatches) seed(userA, userB uint, status string) *models.Match {
	m := models.NewMatch(userA, userB, 0.7, "seeded")
	m.Status = status
	if _, err := f.CreateIfAbsent(context.Background(), m); err != nil {
		panic(err)
	}
	return m
}

func (f *fakeMatches) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeWaitlist struct {
	mu     sync.Mutex
	emails map[string]int
}

func (f *fakeWaitlist) Add(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emails == nil {
		f.emails = make(map[string]int)
	}
	f.emails[email]++
	return nil
}
