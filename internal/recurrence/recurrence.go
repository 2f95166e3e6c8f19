// Package recurrence expands meeting recurrence descriptors into concrete
// occurrence instants.
//
// A descriptor is either a named pattern (daily, weekly, bi_weekly,
// monthly) or an RFC 5545 recurrence rule such as
// "FREQ=WEEKLY;BYDAY=MO,WE". Parsed rule options are cached in an LRU so
// repeated expansion of the same series does not re-parse the rule text.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	rrule "github.com/teambition/rrule-go"
)

// DefaultOccurrenceLimit caps how many occurrences a single expansion may
// produce, guarding against unbounded rules over wide windows.
const DefaultOccurrenceLimit = 500

// cacheSize bounds the parsed-rule cache. Rule texts repeat heavily across
// requests for the same recurring series.
const cacheSize = 256

// Named patterns accepted as shorthand descriptors.
const (
	PatternDaily    = "daily"
	PatternWeekly   = "weekly"
	PatternBiWeekly = "bi_weekly"
	PatternMonthly  = "monthly"
)

// defaultExpander backs the package-level functions with a process-wide
// shared rule cache.
var defaultExpander = NewExpander()

// Validate reports whether the descriptor is a usable recurrence rule.
func Validate(descriptor string) error {
	return defaultExpander.Validate(descriptor)
}

// Expand expands a descriptor using the shared rule cache. See
// Expander.Expand.
func Expand(descriptor string, start, from, to time.Time, limit int) ([]time.Time, error) {
	return defaultExpander.Expand(descriptor, start, from, to, limit)
}

// Expander turns recurrence descriptors into occurrence start times.
// It is safe for concurrent use.
type Expander struct {
	options *lru.Cache[string, rrule.ROption]
}

// NewExpander creates an Expander with the default cache size.
func NewExpander() *Expander {
	// lru.New only fails for non-positive sizes.
	cache, err := lru.New[string, rrule.ROption](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("recurrence: create rule cache: %v", err))
	}
	return &Expander{options: cache}
}

// Validate reports whether the descriptor is a usable recurrence rule.
func (e *Expander) Validate(descriptor string) error {
	_, err := e.option(descriptor)
	return err
}

// Expand returns the occurrence start times of a series inside [from, to),
// anchored at the series start. The series start itself is included when it
// falls inside the window. At most limit occurrences are returned; a
// non-positive limit applies DefaultOccurrenceLimit.
func (e *Expander) Expand(descriptor string, start, from, to time.Time, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = DefaultOccurrenceLimit
	}

	opt, err := e.option(descriptor)
	if err != nil {
		return nil, err
	}
	opt.Dtstart = start.UTC()

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule %q: %w", descriptor, err)
	}

	occurrences := rule.Between(from.UTC(), to.UTC(), true)
	out := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		if !occ.Before(to.UTC()) {
			continue
		}
		out = append(out, occ)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// option resolves a descriptor into rule options, consulting the cache
// first. The returned value is a copy, so callers can set Dtstart freely.
func (e *Expander) option(descriptor string) (rrule.ROption, error) {
	normalized := normalize(descriptor)
	if normalized == "" {
		return rrule.ROption{}, fmt.Errorf("empty recurrence descriptor")
	}

	if opt, ok := e.options.Get(normalized); ok {
		return opt, nil
	}

	parsed, err := rrule.StrToROption(normalized)
	if err != nil {
		return rrule.ROption{}, fmt.Errorf("parse recurrence descriptor %q: %w", descriptor, err)
	}

	e.options.Add(normalized, *parsed)
	return *parsed, nil
}

// normalize maps named patterns to rule text and strips an optional
// "RRULE:" prefix from raw rules.
func normalize(descriptor string) string {
	switch strings.ToLower(strings.TrimSpace(descriptor)) {
	case PatternDaily:
		return "FREQ=DAILY"
	case PatternWeekly:
		return "FREQ=WEEKLY"
	case PatternBiWeekly:
		return "FREQ=WEEKLY;INTERVAL=2"
	case PatternMonthly:
		return "FREQ=MONTHLY"
	}
	return strings.TrimPrefix(strings.TrimSpace(descriptor), "RRULE:")
}
