package assert

import "fmt"

func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

func NotEmptyStr(str string) {
	if str == "" {
		panic("expected string to be non-empty")
	}
}

func Positive[T int | int64 | float64](value T) {
	if value <= 0 {
		panic(fmt.Sprintf("expected value to be positive, got %v", value))
	}
}
