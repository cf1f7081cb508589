// Package profile holds the structured description of the portfolio owner
// (hero banner, biography, experience, projects, skills, contact details) and
// loads it from JSON or YAML files once at startup.
//
// A Profile is read-only after Load returns and may be shared between
// goroutines.
package profile

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap is an insertion-ordered string mapping.
// Achievements, posts and personal details are rendered in file order.
type OrderedMap = orderedmap.OrderedMap[string, string]

// NewOrderedMap builds an OrderedMap from alternating key/value strings.
// A trailing key without a value is ignored.
func NewOrderedMap(kv ...string) *OrderedMap {
	m := orderedmap.New[string, string]()
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(kv[i], kv[i+1])
	}
	return m
}

// Entry is a single key/value pair of an OrderedMap.
type Entry struct {
	Key   string
	Value string
}

// Entries returns the pairs of m in insertion order. A nil map yields nil.
func Entries(m *OrderedMap) []Entry {
	if m == nil || m.Len() == 0 {
		return nil
	}
	out := make([]Entry, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Entry{Key: pair.Key, Value: pair.Value})
	}
	return out
}

// SocialLink is a profile link such as GitHub or LinkedIn.
type SocialLink struct {
	Platform string `json:"platform" yaml:"platform"`
	URL      string `json:"url" yaml:"url"`
}

// Hero is the landing banner: who, what, where.
type Hero struct {
	Name        string       `json:"name" yaml:"name"`
	Roles       []string     `json:"roles" yaml:"roles"`
	Location    string       `json:"location" yaml:"location"`
	Tagline     string       `json:"heroTagline" yaml:"heroTagline"`
	SocialLinks []SocialLink `json:"socialLinks" yaml:"socialLinks"`
}

// Education is one degree entry.
type Education struct {
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Year        string `json:"year" yaml:"year"`
}

// About is the biography section.
type About struct {
	About           string      `json:"about" yaml:"about"`
	Education       []Education `json:"education" yaml:"education"`
	PersonalDetails *OrderedMap `json:"personal_details" yaml:"personal_details"`
	Achievements    *OrderedMap `json:"achievements" yaml:"achievements"`
	Posts           *OrderedMap `json:"posts" yaml:"posts"`
}

// Experience is one work-history entry.
type Experience struct {
	Role     string   `json:"role" yaml:"role"`
	Company  string   `json:"company" yaml:"company"`
	Duration string   `json:"duration" yaml:"duration"`
	Details  []string `json:"details" yaml:"details"`
}

// Project is one portfolio project.
type Project struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	TechStack   []string `json:"techStack" yaml:"techStack"`
	Tags        []string `json:"tags" yaml:"tags"`
	GitHub      string   `json:"github,omitempty" yaml:"github,omitempty"`
	Demo        string   `json:"demo,omitempty" yaml:"demo,omitempty"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// SkillItem is a single named skill. Icon and IconLib are only used by the
// page renderer.
type SkillItem struct {
	Name    string `json:"name" yaml:"name"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
	IconLib string `json:"iconLib,omitempty" yaml:"iconLib,omitempty"`
}

// SkillCategory groups skills under a heading.
type SkillCategory struct {
	Category string      `json:"category" yaml:"category"`
	Items    []SkillItem `json:"items" yaml:"items"`
}

// Names returns the non-empty item names in order.
func (c SkillCategory) Names() []string {
	names := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	return names
}

// Contact holds the direct contact details.
type Contact struct {
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Blog    string `json:"blog,omitempty" yaml:"blog,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Profile is the complete record set.
type Profile struct {
	Hero       Hero
	About      About
	Experience []Experience
	Projects   []Project
	Skills     []SkillCategory
	Contact    Contact

	missing []string
}

// SocialLink returns the first social link whose platform equals name
// case-insensitively, or nil.
func (h Hero) SocialLink(name string) *SocialLink {
	for i := range h.SocialLinks {
		if strings.EqualFold(h.SocialLinks[i].Platform, name) {
			return &h.SocialLinks[i]
		}
	}
	return nil
}

// Stats summarises how many records each section holds.
type Stats struct {
	Experience int `json:"experience"`
	Projects   int `json:"projects"`
	Skills     int `json:"skill_categories"`
	Education  int `json:"education"`
}

// Stats returns the section sizes, used by readiness reporting.
func (p *Profile) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return Stats{
		Experience: len(p.Experience),
		Projects:   len(p.Projects),
		Skills:     len(p.Skills),
		Education:  len(p.About.Education),
	}
}
