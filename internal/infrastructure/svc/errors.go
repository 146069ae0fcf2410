package svc

import "errors"

// ErrNoRecorders means no storage backend is enabled in the config.
var ErrNoRecorders = errors.New("no storage backends enabled")

// ErrStorageInitFailed means a storage backend could not be initialized.
var ErrStorageInitFailed = errors.New("storage initialization failed")
