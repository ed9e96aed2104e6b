package container

import "strings"

// Normalize canonicalizes a lookup key: every character that is not an ASCII
// letter or digit is dropped and the rest is lower-cased, so "Foo-Bar",
// "foobar" and "FOOBAR" all address the same entry.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteByte(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteByte(ch + ('a' - 'A'))
		}
	}
	return b.String()
}

// validName reports whether name is usable as an entry name.
func validName(name string) bool {
	return strings.TrimSpace(name) != ""
}
