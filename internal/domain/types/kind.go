package types

import (
	"fmt"
)

// TestKind names one connectivity test trigger.
type TestKind string

const (
	KindRedis TestKind = "redis"
	KindMySQL TestKind = "mysql"
	KindAll   TestKind = "all"
)

// Kinds lists every trigger in display order.
func Kinds() []TestKind {
	return []TestKind{KindRedis, KindMySQL, KindAll}
}

// Valid reports whether k is a known trigger.
func (k TestKind) Valid() bool {
	switch k {
	case KindRedis, KindMySQL, KindAll:
		return true
	}
	return false
}

// Path returns the biz endpoint exercised by k.
func (k TestKind) Path() string {
	if !k.Valid() {
		return ""
	}
	return "/api/test-" + string(k)
}

// ParseKind validates s as a TestKind.
func ParseKind(s string) (TestKind, error) {
	k := TestKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
