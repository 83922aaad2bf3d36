package clock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleep(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 17, 42, 13, 99, time.UTC)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), Date(ts))
	assert.Equal(t, time.Date(2024, time.March, 5, 7, 45, 0, 0, time.UTC), At(ts, 7, 45))
}

func TestReal_Now(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	assert.Equal(t, loc, Real{Location: loc}.Now().Location())
}
