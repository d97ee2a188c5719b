package service

import "errors"

var (
	// ErrLinkNotFound возвращается для неизвестных и выключенных ссылок
	ErrLinkNotFound    = errors.New("link not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
