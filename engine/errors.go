package engine

import "errors"

var (
	ErrEngineStopped = errors.New("engine already stopped")
	ErrNoPlayers     = errors.New("tournament needs at least one player")
)

type InvalidConfigError string

func (e InvalidConfigError) Error() string { return "invalid config: " + string(e) }
