package settings

import (
	"fmt"
	"strings"
)

// FilterKind groups filters into the two search masks.
type FilterKind int

const (
	KindCategory FilterKind = iota
	KindPurity
)

// Filter is one search toggle. The set is closed; every case carries its
// own name, preference key and default.
type Filter int

const (
	FilterGeneral Filter = iota
	FilterAnime
	FilterPeople
	FilterSFW
	FilterSketchy
	FilterNSFW
)

var filterInfo = [...]struct {
	name string
	key  string
	kind FilterKind
	on   bool
}{
	FilterGeneral: {"General", "filter.general", KindCategory, true},
	FilterAnime:   {"Anime", "filter.anime", KindCategory, true},
	FilterPeople:  {"People", "filter.people", KindCategory, true},
	FilterSFW:     {"SFW", "filter.sfw", KindPurity, true},
	FilterSketchy: {"Sketchy", "filter.sketchy", KindPurity, false},
	FilterNSFW:    {"NSFW", "filter.nsfw", KindPurity, false},
}

// Filters lists every filter in mask order.
func Filters() []Filter {
	return []Filter{FilterGeneral, FilterAnime, FilterPeople, FilterSFW, FilterSketchy, FilterNSFW}
}

// ParseFilter resolves a filter by its display name, case-insensitively.
func ParseFilter(name string) (Filter, error) {
	name = strings.TrimSpace(name)
	for _, f := range Filters() {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown filter %q", name)
}

func (f Filter) String() string { return filterInfo[f].name }

// Key is the preference key the filter is stored under.
func (f Filter) Key() string { return filterInfo[f].key }

// Kind reports which mask the filter belongs to.
func (f Filter) Kind() FilterKind { return filterInfo[f].kind }

// Default is the filter state when nothing is stored.
func (f Filter) Default() bool { return filterInfo[f].on }
