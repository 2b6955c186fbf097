package counsellor

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed counsellors.yaml
var defaultCatalog []byte

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	AvailabilityAll      = "all"
	AvailabilityWeekdays = "weekdays"
	AvailabilityWeekends = "weekends"
	AvailabilityNow      = "now"

	recommendLimit = 3
)

type Counsellor struct {
	ID           string           `yaml:"id" json:"id"`
	Name         string           `yaml:"name" json:"name"`
	Role         string           `yaml:"role" json:"role"`
	Specialties  []string         `yaml:"specialties" json:"specialties"`
	Languages    []string         `yaml:"languages" json:"languages"`
	Availability map[int][]string `yaml:"availability" json:"availability"`
}

// SlotsOn returns the "HH:MM" slots for a weekday.
func (c Counsellor) SlotsOn(day time.Weekday) []string {
	return c.Availability[int(day)]
}

func (c Counsellor) HasSlot(day time.Weekday, hhmm string) bool {
	for _, s := range c.SlotsOn(day) {
		if s == hhmm {
			return true
		}
	}
	return false
}

func (c Counsellor) TotalSlots() int {
	n := 0
	for _, slots := range c.Availability {
		n += len(slots)
	}
	return n
}

func (c Counsellor) hasAnyOn(days ...time.Weekday) bool {
	for _, d := range days {
		if len(c.SlotsOn(d)) > 0 {
			return true
		}
	}
	return false
}

// hasSlotFrom reports a slot on now's weekday at or after the current minute.
func (c Counsellor) hasSlotFrom(now time.Time) bool {
	minutesNow := now.Hour()*60 + now.Minute()
	for _, s := range c.SlotsOn(now.Weekday()) {
		t, err := time.Parse(TimeLayout, s)
		if err != nil {
			continue
		}
		if t.Hour()*60+t.Minute() >= minutesNow {
			return true
		}
	}
	return false
}

type Filter struct {
	Specialty    string
	Language     string
	Availability string
}

type Catalog struct {
	counsellors []Counsellor
	byID        map[string]int
}

// Load parses the embedded catalogue.
func Load() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(raw []byte) (*Catalog, error) {
	var doc struct {
		Counsellors []Counsellor `yaml:"counsellors"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse counsellor catalogue: %w", err)
	}

	cat := &Catalog{byID: make(map[string]int, len(doc.Counsellors))}
	for i, c := range doc.Counsellors {
		if _, dup := cat.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate counsellor id %q", c.ID)
		}
		for day, slots := range c.Availability {
			if day < 0 || day > 6 {
				return nil, fmt.Errorf("counsellor %s: weekday %d out of range", c.ID, day)
			}
			for _, s := range slots {
				if _, err := time.Parse(TimeLayout, s); err != nil {
					return nil, fmt.Errorf("counsellor %s: bad slot %q", c.ID, s)
				}
			}
		}
		cat.byID[c.ID] = i
		cat.counsellors = append(cat.counsellors, c)
	}
	return cat, nil
}

func (c *Catalog) All() []Counsellor {
	out := make([]Counsellor, len(c.counsellors))
	copy(out, c.counsellors)
	return out
}

func (c *Catalog) Find(id string) (Counsellor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Counsellor{}, false
	}
	return c.counsellors[i], true
}

// Specialties and Languages feed the filter dropdowns.
func (c *Catalog) Specialties() []string {
	return c.distinct(func(x Counsellor) []string { return x.Specialties })
}

func (c *Catalog) Languages() []string {
	return c.distinct(func(x Counsellor) []string { return x.Languages })
}

func (c *Catalog) distinct(pick func(Counsellor) []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, x := range c.counsellors {
		for _, v := range pick(x) {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Filter applies the directory filters. Empty values and "all"/"any" match
// everything.
func (c *Catalog) Filter(f Filter, now time.Time) []Counsellor {
	var out []Counsellor
	for _, x := range c.counsellors {
		if !matchesAny(f.Specialty, x.Specialties) || !matchesAny(f.Language, x.Languages) {
			continue
		}
		switch strings.ToLower(f.Availability) {
		case AvailabilityWeekdays:
			if !x.hasAnyOn(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday) {
				continue
			}
		case AvailabilityWeekends:
			if !x.hasAnyOn(time.Sunday, time.Saturday) {
				continue
			}
		case AvailabilityNow:
			if !x.hasSlotFrom(now) {
				continue
			}
		}
		out = append(out, x)
	}
	return out
}

func matchesAny(want string, values []string) bool {
	if want == "" || strings.EqualFold(want, "all") || strings.EqualFold(want, "any") {
		return true
	}
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

type Recommendation struct {
	Counsellor
	Score int `json:"score"`
}

// Recommend ranks by slot count on the date's weekday, or by total slots
// when date is nil. Ties keep catalogue order.
func (c *Catalog) Recommend(date *time.Time) []Recommendation {
	ranked := make([]Recommendation, len(c.counsellors))
	for i, x := range c.counsellors {
		score := x.TotalSlots()
		if date != nil {
			score = len(x.SlotsOn(date.Weekday()))
		}
		ranked[i] = Recommendation{Counsellor: x, Score: score}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > recommendLimit {
		ranked = ranked[:recommendLimit]
	}
	return ranked
}

// ParseDate reads a calendar date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, loc)
}
