// Package auth tracks whether the user is logged in and whether the wallet
// is locked. Reduce is a pure function: it never performs the login, it only
// records what happened.
package auth

type LoginStatus int

const (
	LoggedOut LoginStatus = iota
	LoggingIn
	LoggedIn
)

func (s LoginStatus) String() string {
	switch s {
	case LoggingIn:
		return "logging in"
	case LoggedIn:
		return "logged in"
	default:
		return "logged out"
	}
}

type State struct {
	Login  LoginStatus
	Locked bool
	// Err is the reason of the last failed login check.
	Err string
}

// InitialState is checking the login with the wallet locked.
func InitialState() State {
	return State{Login: LoggingIn, Locked: true}
}

func (s State) IsLoggedIn() bool {
	return s.Login == LoggedIn
}

type Event interface {
	apply(State) State
}

type InitLoginCheck struct{}

type InitLoginCheckFulfilled struct {
	LoggedIn bool
}

type InitLoginCheckRejected struct {
	Err error
}

type LogInFulfilled struct{}

type LogOut struct{}

type CheckIsLocked struct {
	Locked bool
}

type SetUnlock struct{}

func (InitLoginCheck) apply(s State) State {
	s.Login = LoggingIn
	return s
}

func (e InitLoginCheckFulfilled) apply(s State) State {
	if e.LoggedIn {
		s.Login = LoggedIn
	} else {
		s.Login = LoggedOut
	}
	return s
}

func (e InitLoginCheckRejected) apply(s State) State {
	s.Login = LoggedOut
	if e.Err != nil {
		s.Err = e.Err.Error()
	}
	return s
}

func (LogInFulfilled) apply(s State) State {
	s.Login = LoggedIn
	return s
}

func (LogOut) apply(s State) State {
	s.Login = LoggedOut
	return s
}

func (e CheckIsLocked) apply(s State) State {
	s.Locked = e.Locked
	return s
}

func (SetUnlock) apply(s State) State {
	s.Locked = false
	return s
}

// Reduce returns the state after event. Unknown (nil) events leave the
// state untouched.
func Reduce(state State, event Event) State {
	if event == nil {
		return state
	}
	return event.apply(state)
}
