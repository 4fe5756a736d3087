package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tranvictor/ethwallet/auth"
	"github.com/tranvictor/ethwallet/ui"
)

// keySession tracks, for the lifetime of one command, whether a private key
// has been entered and whether it is currently held in memory.
type keySession struct {
	state auth.State
}

func newKeySession() *keySession {
	return &keySession{state: auth.Reduce(auth.InitialState(), auth.InitLoginCheck{})}
}

func (s *keySession) dispatch(e auth.Event) {
	s.state = auth.Reduce(s.state, e)
	logger.Debug("key session",
		zap.Stringer("login", s.state.Login),
		zap.Bool("locked", s.state.Locked),
	)
}

// unlock asks for the private key. The caller owns the returned buffer and
// has to hand it to the signer, which wipes it.
func (s *keySession) unlock(u ui.UI, account string) ([]byte, error) {
	secret, err := u.AskSecret(fmt.Sprintf("Private key of %s", account))
	if err != nil {
		s.dispatch(auth.InitLoginCheckRejected{Err: err})
		return nil, err
	}
	key, err := parsePrivateKey(secret)
	if err != nil {
		s.dispatch(auth.InitLoginCheckRejected{Err: err})
		return nil, err
	}
	s.dispatch(auth.InitLoginCheckFulfilled{LoggedIn: true})
	s.dispatch(auth.SetUnlock{})
	return key, nil
}

func (s *keySession) lock() {
	s.dispatch(auth.CheckIsLocked{Locked: true})
}

func (s *keySession) close() {
	s.lock()
	s.dispatch(auth.LogOut{})
}
