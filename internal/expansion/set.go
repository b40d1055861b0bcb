// Package expansion holds the caller-owned set of expanded group paths and
// the pure projection of a grouped-row tree onto its visible rows.
package expansion

import (
	"encoding/binary"
	"encoding/json"
	"slices"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// Set is a set of group paths. Paths are hashed over a length-prefixed
// encoding and compared element-wise, so values containing any delimiter
// never collide. The zero Set is empty and ready to use; a nil *Set behaves
// as an empty set for reads.
type Set struct {
	buckets map[uint64][][]string
	n       int
}

// NewSet returns a set holding paths.
func NewSet(paths ...[]string) *Set {
	s := &Set{}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

func hashPath(path []string) uint64 {
	d := xxhash.New()
	var lenBuf [8]byte
	for _, elem := range path {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(elem)))
		_, _ = d.Write(lenBuf[:])
		_, _ = d.WriteString(elem)
	}
	return d.Sum64()
}

func (s *Set) find(h uint64, path []string) int {
	for i, p := range s.buckets[h] {
		if slices.Equal(p, path) {
			return i
		}
	}
	return -1
}

// Add inserts path and reports whether it was absent.
func (s *Set) Add(path []string) bool {
	h := hashPath(path)
	if s.find(h, path) >= 0 {
		return false
	}
	if s.buckets == nil {
		s.buckets = make(map[uint64][][]string)
	}
	s.buckets[h] = append(s.buckets[h], slices.Clone(path))
	s.n++
	return true
}

// Remove deletes path and reports whether it was present.
func (s *Set) Remove(path []string) bool {
	if s == nil {
		return false
	}
	h := hashPath(path)
	i := s.find(h, path)
	if i < 0 {
		return false
	}
	bucket := slices.Delete(s.buckets[h], i, i+1)
	if len(bucket) == 0 {
		delete(s.buckets, h)
	} else {
		s.buckets[h] = bucket
	}
	s.n--
	return true
}

// Toggle flips the membership of path and returns whether it is now present.
func (s *Set) Toggle(path []string) bool {
	if s.Remove(path) {
		return false
	}
	s.Add(path)
	return true
}

// Contains reports whether path is in the set.
func (s *Set) Contains(path []string) bool {
	if s == nil || s.n == 0 {
		return false
	}
	return s.find(hashPath(path), path) >= 0
}

// Len returns the number of paths in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.n
}

// Clear removes every path.
func (s *Set) Clear() {
	s.buckets = nil
	s.n = 0
}

// Paths returns the paths in the set ordered element-wise.
func (s *Set) Paths() [][]string {
	out := make([][]string, 0, s.Len())
	if s == nil {
		return out
	}
	for _, bucket := range s.buckets {
		for _, p := range bucket {
			out = append(out, slices.Clone(p))
		}
	}
	slices.SortFunc(out, func(a, b []string) int { return slices.Compare(a, b) })
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	return NewSet(s.Paths()...)
}

// MarshalJSON encodes the set as a sorted array of paths.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Paths())
}

// UnmarshalJSON replaces the set's contents with the decoded paths.
func (s *Set) UnmarshalJSON(data []byte) error {
	var paths [][]string
	if err := json.Unmarshal(data, &paths); err != nil {
		return err
	}
	s.Clear()
	for _, p := range paths {
		s.Add(p)
	}
	return nil
}

// PathKeySeparator joins path elements in PathKey.
const PathKeySeparator = "|"

// PathKey renders path as a single display key. Keys are ambiguous when an
// element contains the separator; use Set for membership.
func PathKey(path []string) string {
	return strings.Join(path, PathKeySeparator)
}

// ParsePathKey splits a key produced by PathKey. The empty key is the empty
// path.
func ParsePathKey(key string) []string {
	if key == "" {
		return []string{}
	}
	return strings.Split(key, PathKeySeparator)
}
