// Package apperr задаёт закрытую таксономию ошибок ядра.
// Транспортный слой отображает Kind на HTTP-статусы, само ядро
// работает только с типизированными ошибками и ничего не глотает.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation   Kind = "validation"    // некорректный ввод, пользователь должен исправить
	KindNotFound     Kind = "not_found"     // сущность отсутствует
	KindForbidden    Kind = "forbidden"     // аутентифицирован, но не авторизован
	KindInvalidState Kind = "invalid_state" // операция нелегальна в текущем статусе
	KindConflict     Kind = "conflict"      // повторное действие, например второй отзыв
	KindInternal     Kind = "internal"      // непрозрачный внутренний сбой
)

type Error struct {
	Kind    Kind
	Message string
	// Причина для обёрнутых внутренних сбоев; наружу не отдаётся.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is позволяет сравнивать ошибки через errors.Is по Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf возвращает Kind ошибки или KindInternal для нетипизированных.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
