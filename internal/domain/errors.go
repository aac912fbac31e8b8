package domain

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrRemoteAPI    = errors.New("remote api error")
	ErrSchema       = errors.New("schema error")
	ErrParse        = errors.New("parse error")
	ErrPipelineItem = errors.New("pipeline item error")
	ErrBatchWrite   = errors.New("batch write error")
	ErrNotFound     = errors.New("not found")
)
