package importer

import (
	"context"

	"github.com/mroshb/roommatch/internal/models"
	"github.com/mroshb/roommatch/internal/services"
	"github.com/mroshb/roommatch/pkg/errors"
	"github.com/mroshb/roommatch/pkg/logger"
)

type Accounts interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
}

type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Profiles interface {
	SaveProfile(ctx context.Context, userID uint, input services.ProfileInput) (*models.Profile, error)
}

type Generator interface {
	GenerateMatches(ctx context.Context, userID uint) ([]services.GeneratedMatch, error)
}

// Summary counts what one import run did
type Summary struct {
	Created  int
	Existing int
	Complete int
	Failed   []RowError
	UserIDs  []uint
}

type Importer struct {
	accounts Accounts
	users    UserLookup
	profiles Profiles
}

func New(accounts Accounts, users UserLookup, profiles Profiles) *Importer {
	return &Importer{
		accounts: accounts,
		users:    users,
		profiles: profiles,
	}
}

// Import registers each record's account, reusing accounts that already
// exist, and saves its profile. A failing row does not stop the run.
func (im *Importer) Import(ctx context.Context, records []Record) Summary {
	var sum Summary

	for _, rec := range records {
		userID, created, err := im.account(ctx, rec)
		if err != nil {
			sum.Failed = append(sum.Failed, RowError{Row: rec.Row, Err: err})
			continue
		}

		profile, err := im.profiles.SaveProfile(ctx, userID, rec.Profile)
		if err != nil {
			sum.Failed = append(sum.Failed, RowError{Row: rec.Row, Err: err})
			continue
		}

		if created {
			sum.Created++
		} else {
			sum.Existing++
		}
		if profile.IsComplete {
			sum.Complete++
		}
		sum.UserIDs = append(sum.UserIDs, userID)
	}

	logger.Info("Import finished",
		"created", sum.Created,
		"existing", sum.Existing,
		"complete", sum.Complete,
		"failed", len(sum.Failed),
	)
	return sum
}

func (im *Importer) account(ctx context.Context, rec Record) (uint, bool, error) {
	res, err := im.accounts.Register(ctx, rec.Account)
	if err == nil {
		return res.User.ID, true, nil
	}
	if !errors.IsCode(err, errors.ErrCodeAlreadyExists) {
		return 0, false, err
	}

	user, err := im.users.GetUserByEmail(ctx, rec.Account.Email)
	if err != nil {
		return 0, false, err
	}
	return user.ID, false, nil
}

// GenerateAll runs match generation for every user and returns the number
// of matches created. Users with incomplete profiles are skipped.
func GenerateAll(ctx context.Context, gen Generator, userIDs []uint) (int, error) {
	total := 0
	for _, id := range userIDs {
		created, err := gen.GenerateMatches(ctx, id)
		if errors.IsCode(err, errors.ErrCodeValidation) {
			continue
		}
		if err != nil {
			return total, err
		}
		total += len(created)
	}
	return total, nil
}
