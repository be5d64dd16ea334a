package cli

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMode_ChangesMode(t *testing.T) {
	app := newTestApp(&fakeAuth{}, nil, "", io.Discard)

	app.setMode(context.Background(), ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode())

	app.setMode(context.Background(), ModeOnline)
	assert.Equal(t, ModeOnline, app.Mode())

	app.setMode(context.Background(), ModeOffline)
	assert.Equal(t, ModeOffline, app.Mode())
}

func TestIsLoggedIn(t *testing.T) {
	auth := &fakeAuth{}
	app := newTestApp(auth, nil, "", io.Discard)
	assert.False(t, app.isLoggedIn())

	auth.state.User = testUser()
	assert.True(t, app.isLoggedIn())
}

func TestOnConnectivityChange(t *testing.T) {
	auth := &fakeAuth{}
	app := newTestApp(auth, nil, "", io.Discard)
	ctx := context.Background()

	app.onConnectivityChange(ctx, false)
	assert.Equal(t, []bool{false}, auth.online)
	assert.Equal(t, ModeOffline, app.Mode())
	assert.Zero(t, auth.checks, "going offline must not hit the network")

	auth.checkErr = errors.New("still flaky")
	app.onConnectivityChange(ctx, true)
	assert.Equal(t, []bool{false, true}, auth.online)
	assert.Equal(t, ModeOnline, app.Mode())
	assert.Equal(t, 1, auth.checks)
}

func TestClose_RunsClosersInReverseOnce(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	app := &App{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return boom },
	}}

	err := app.Close()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{2, 1}, order)

	require.ErrorIs(t, app.Close(), boom)
	assert.Equal(t, []int{2, 1}, order)
}

func TestGetStatus(t *testing.T) {
	auth := &fakeAuth{}
	app := newTestApp(auth, nil, "", io.Discard)
	assert.Equal(t, "", app.getStatus())

	app.setMode(context.Background(), ModeOffline)
	assert.Equal(t, "(offline)", app.getStatus())

	auth.state.User = testUser()
	assert.Equal(t, "(ada@example.com offline)", app.getStatus())
}
