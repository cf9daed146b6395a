package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/roommatch/pkg/errors"
)

func TestWaitlistJoin(t *testing.T) {
	store := &fakeWaitlist{}
	svc := NewWaitlistService(store)
	ctx := context.Background()

	email, err := svc.Join(ctx, " Ana@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	_, err = svc.Join(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, store.emails["ana@example.com"])

	_, err = svc.Join(ctx, "")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	_, err = svc.Join(ctx, "nobody")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}
