package errors

import "errors"

var (
	ErrConfigKeyMissing = errors.New("config key missing")
	ErrPathNotFound     = errors.New("path not found")
	ErrFileOpen         = errors.New("file open failed")
	ErrRename           = errors.New("rename failed")
	ErrInvalidStation   = errors.New("invalid station record")
)
