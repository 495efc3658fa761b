package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrAnswerNotFound       = errors.New("answer not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
