package service

import "errors"

// Ошибки уровня сервисов, различаемые обработчиками
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInactiveUser        = errors.New("user is inactive")
	ErrInvalidToken        = errors.New("invalid token")
	ErrProjectNotFound     = errors.New("project not found")
	ErrImageNotFound       = errors.New("image not found")
	ErrNoNextImage         = errors.New("no next image")
	ErrImageNotTransformed = errors.New("image is not transformed yet")
)
