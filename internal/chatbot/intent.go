// Package chatbot answers visitor questions about the portfolio owner.
//
// A query is classified into one Intent by an ordered list of keyword
// patterns; specific intents are answered straight from the profile, and
// anything unrecognised falls through to a token-overlap search over a
// flattened document corpus. Everything here is pure: no I/O, no shared
// mutable state.
package chatbot

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a query.
type Intent string

// Intents, in no particular order. See intentRules for match priority.
const (
	IntentEmpty      Intent = "empty"
	IntentGreeting   Intent = "greeting"
	IntentThanks     Intent = "thanks"
	IntentAck        Intent = "ack"
	IntentNegative   Intent = "negative"
	IntentSkills     Intent = "skills"
	IntentProjects   Intent = "projects"
	IntentExperience Intent = "experience"
	IntentEducation  Intent = "education"
	IntentAbout      Intent = "about"
	IntentContact    Intent = "contact"
	IntentLocation   Intent = "location"
	IntentSearch     Intent = "search"
)

// AllIntents lists every intent Classify can return.
func AllIntents() []Intent {
	return []Intent{
		IntentEmpty, IntentGreeting, IntentThanks, IntentAck, IntentNegative,
		IntentSkills, IntentProjects, IntentExperience, IntentEducation,
		IntentAbout, IntentContact, IntentLocation, IntentSearch,
	}
}

// String implements fmt.Stringer.
func (i Intent) String() string {
	return string(i)
}

// intentRule pairs a pattern with the intent it selects.
type intentRule struct {
	intent  Intent
	pattern *regexp.Regexp
}

// intentRules are evaluated top to bottom against the lowercased query and
// the first match wins. The categories overlap ("thanks, that's great"
// matches both thanks and ack; "github" matches projects and contact), so
// the order is part of the behaviour.
var intentRules = []intentRule{
	{IntentGreeting, regexp.MustCompile(`\b(hi|hii|hello|hey|namaste|yo)\b`)},
	{IntentThanks, regexp.MustCompile(`thank(s| you)?`)},
	{IntentAck, regexp.MustCompile(`\b(ok|okay|okey|fine|cool|great|sounds good|alright|all right)\b`)},
	{IntentNegative, regexp.MustCompile(`\b(no|nope|nah|nothing|not now|leave it|ignore)\b`)},
	{IntentSkills, regexp.MustCompile(`(skill|tech stack|technologies|tools|frameworks|languages)`)},
	{IntentProjects, regexp.MustCompile(`(project|portfolio|github|work you have done|show your work)`)},
	{IntentExperience, regexp.MustCompile(`(experience|intern(ship)?|work history|jobs|roles)`)},
	{IntentEducation, regexp.MustCompile(`(education|study|college|school|degree|b\.?tech)`)},
	{IntentAbout, regexp.MustCompile(`(about you|who are you|introduce yourself|summary|profile)`)},
	{IntentContact, regexp.MustCompile(`(contact|email|phone|reach|connect|linkedin|github)`)},
	{IntentLocation, regexp.MustCompile(`(location|where.*from|based in|live)`)},
}

// Classify maps a raw query to exactly one Intent. Blank input is always
// IntentEmpty; unmatched input is IntentSearch.
func Classify(query string) Intent {
	if strings.TrimSpace(query) == "" {
		return IntentEmpty
	}

	q := strings.ToLower(query)
	for _, rule := range intentRules {
		if rule.pattern.MatchString(q) {
			return rule.intent
		}
	}
	return IntentSearch
}
