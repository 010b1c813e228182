//go:build indirect

//indirect:mode=sync

package example

import "strings"

//go:generate go run github.com/ZenLiuCN/indirect/indirect-gen generate once.go

func upper() func(string) string {
	return strings.ToUpper
}

// Shout upper cases s, it depends on package sync only.
//
//indirect:resolver="upper"
func Shout(s string) string {
	return s
}

func joiner() func(string, ...string) string {
	return func(sep string, elems ...string) string {
		return strings.Join(elems, sep)
	}
}

// Join concatenates elems with sep.
//
//indirect:resolver="joiner"
func Join(sep string, elems ...string) string {
	return ""
}
