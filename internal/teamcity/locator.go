package teamcity

import (
	"fmt"
	"strings"
)

// Default pagination bounds applied to every list request.
const (
	DefaultStart = 0
	DefaultCount = 100
)

type dimension struct {
	key   string
	value string
}

// Locator builds the TeamCity locator expression used to filter list
// endpoints. Filter dimensions appear only when explicitly set with a
// non-empty value (the sparse parameter map: an absent key means "use the
// server default"), while the start and count pagination bounds are always
// present.
type Locator struct {
	start int
	count int
	dims  []dimension
}

// NewLocator creates a locator with the default pagination bounds
// (start 0, count 100) and no filter dimensions.
func NewLocator() *Locator {
	return &Locator{
		start: DefaultStart,
		count: DefaultCount,
	}
}

// Start overrides the start index.
func (l *Locator) Start(n int) *Locator {
	l.start = n
	return l
}

// Count overrides the maximum number of items.
func (l *Locator) Count(n int) *Locator {
	l.count = n
	return l
}

// Set adds a filter dimension. Empty values are dropped, keeping the
// locator sparse. Values containing commas (e.g. a tag list, which the
// server ANDs together) are wrapped in parentheses so they parse as a
// single dimension value.
func (l *Locator) Set(key, value string) *Locator {
	if value == "" {
		return l
	}
	if strings.Contains(value, ",") && !strings.HasPrefix(value, "(") {
		value = "(" + value + ")"
	}
	l.dims = append(l.dims, dimension{key: key, value: value})
	return l
}

// Has reports whether a filter dimension with the given key was set.
func (l *Locator) Has(key string) bool {
	for _, d := range l.dims {
		if d.key == key {
			return true
		}
	}
	return false
}

// String renders the locator expression, e.g.
// "status:failure,start:0,count:5". Filter dimensions come first in the
// order they were set, followed by start and count.
func (l *Locator) String() string {
	parts := make([]string, 0, len(l.dims)+2)
	for _, d := range l.dims {
		parts = append(parts, d.key+":"+d.value)
	}
	parts = append(parts, fmt.Sprintf("start:%d", l.start))
	parts = append(parts, fmt.Sprintf("count:%d", l.count))
	return strings.Join(parts, ",")
}
