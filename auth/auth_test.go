package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialState(t *testing.T) {
	s := InitialState()
	assert.Equal(t, LoggingIn, s.Login)
	assert.True(t, s.Locked)
	assert.Empty(t, s.Err)
}

func TestReduce(t *testing.T) {
	tests := []struct {
		name  string
		from  State
		event Event
		want  State
	}{
		{"check starts", State{Login: LoggedOut}, InitLoginCheck{}, State{Login: LoggingIn}},
		{"check logged in", InitialState(), InitLoginCheckFulfilled{LoggedIn: true}, State{Login: LoggedIn, Locked: true}},
		{"check logged out", InitialState(), InitLoginCheckFulfilled{LoggedIn: false}, State{Login: LoggedOut, Locked: true}},
		{
			"check failed",
			InitialState(),
			InitLoginCheckRejected{Err: errors.New("storage unreadable")},
			State{Login: LoggedOut, Locked: true, Err: "storage unreadable"},
		},
		{"log in", State{Login: LoggedOut}, LogInFulfilled{}, State{Login: LoggedIn}},
		{"log out keeps lock", State{Login: LoggedIn, Locked: false}, LogOut{}, State{Login: LoggedOut, Locked: false}},
		{"lock", State{Login: LoggedIn}, CheckIsLocked{Locked: true}, State{Login: LoggedIn, Locked: true}},
		{"lock check says unlocked", State{Login: LoggedIn, Locked: true}, CheckIsLocked{Locked: false}, State{Login: LoggedIn}},
		{"unlock", State{Login: LoggedIn, Locked: true}, SetUnlock{}, State{Login: LoggedIn}},
		{"nil event", State{Login: LoggedIn, Locked: true}, nil, State{Login: LoggedIn, Locked: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reduce(tc.from, tc.event))
		})
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := InitialState()
	_ = Reduce(s, SetUnlock{})
	assert.True(t, s.Locked)
}

func TestLoginFlow(t *testing.T) {
	s := InitialState()
	for _, e := range []Event{InitLoginCheckFulfilled{LoggedIn: true}, CheckIsLocked{Locked: true}, SetUnlock{}} {
		s = Reduce(s, e)
	}
	assert.True(t, s.IsLoggedIn())
	assert.False(t, s.Locked)
	assert.Equal(t, "logged in", s.Login.String())
}
