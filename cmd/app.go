package cmd

import (
	"fmt"

	"vantage/internal/api"
	"vantage/internal/appconfig"
	"vantage/internal/authstore"
	"vantage/internal/debuglog"
	"vantage/internal/state"
)

// newState constructs the application state handle from stored
// configuration. The token may be empty; auth commands work either way.
func newState() *state.State {
	client := api.New(appconfig.ServerURL(), authstore.Token())
	return state.New(client, debuglog.New(), appconfig.ChatDelay())
}

// requireAuth builds the state handle and runs the bootstrap
// reconciliation. Commands that read or mutate server resources go
// through here so every invocation starts from reconciled state.
func requireAuth() (*state.State, error) {
	st := newState()
	if !st.IsAuthenticated() {
		return nil, fmt.Errorf("not logged in; run 'vantage login' first")
	}
	if err := st.Bootstrap(); err != nil {
		return nil, err
	}
	return st, nil
}
