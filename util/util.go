package util

import (
	"fmt"
	"sort"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

func Assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed:: "+format, EvalLazyArgs(args...)...))
	}
}

func AssertNoError(err error, prefix ...string) {
	pref := "error: "
	if len(prefix) > 0 {
		pref = prefix[0] + ": "
	}
	Assertf(err == nil, pref+"%v", err)
}

// EvalLazyArgs evaluates functions of type func() string passed as arguments.
// Used to defer expensive formatting until the assertion actually fails
func EvalLazyArgs(args ...any) []any {
	ret := make([]any, len(args))
	for i, arg := range args {
		if fun, ok := arg.(func() string); ok {
			ret[i] = fun()
		} else {
			ret[i] = arg
		}
	}
	return ret
}

func Ref[T any](v T) *T {
	return &v
}

func KeysSorted[K comparable, V any](m map[K]V, less func(k1, k2 K) bool) []K {
	ret := maps.Keys(m)
	sort.Slice(ret, func(i, j int) bool {
		return less(ret[i], ret[j])
	})
	return ret
}

func TrimSlice[T any](slice []T, maxLen int) []T {
	if len(slice) <= maxLen {
		return slice
	}
	return slice[:maxLen]
}

func CatchPanicOrError(f func() error) error {
	var err error
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			var ok bool
			if err, ok = r.(error); !ok {
				err = fmt.Errorf("%v", r)
			}
		}()
		err = f()
	}()
	return err
}

// Th thousands separator for readability of big amounts
func Th[T constraints.Integer](v T) string {
	return thousands(int64(v))
}

func thousands(v int64) string {
	if v < 0 {
		return "-" + thousands(-v)
	}
	if v < 1000 {
		return fmt.Sprintf("%d", v)
	}
	return thousands(v/1000) + fmt.Sprintf("_%03d", v%1000)
}
