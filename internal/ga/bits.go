package ga

import "github.com/MaxHalford/eaopt"

// bitSlice is a gene string viewed as an eaopt.Slice so eaopt's slice
// crossovers can operate on it.
type bitSlice []bool

func (s bitSlice) At(i int) interface{}     { return s[i] }
func (s bitSlice) Set(i int, v interface{}) { s[i] = v.(bool) }
func (s bitSlice) Len() int                 { return len(s) }
func (s bitSlice) Swap(i, j int)            { s[i], s[j] = s[j], s[i] }

func (s bitSlice) Slice(a, b int) eaopt.Slice {
	return s[a:b]
}

func (s bitSlice) Split(k int) (eaopt.Slice, eaopt.Slice) {
	return s[:k], s[k:]
}

func (s bitSlice) Append(t eaopt.Slice) eaopt.Slice {
	return append(s, t.(bitSlice)...)
}

func (s bitSlice) Replace(t eaopt.Slice) {
	copy(s, t.(bitSlice))
}

func (s bitSlice) Copy() eaopt.Slice {
	t := make(bitSlice, len(s))
	copy(t, s)
	return t
}
