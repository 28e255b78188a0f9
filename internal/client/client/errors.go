package client

import (
	"errors"

	"github.com/unirent/unirent/internal/common"
)

var (
	ErrUnavailable           = common.ErrUnavailable
	ErrUnauthorized          = common.ErrUnauthorized
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)
