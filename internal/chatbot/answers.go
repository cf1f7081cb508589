package chatbot

import (
	"fmt"
	"strings"

	"github.com/manasranjandas/portfolio-go/internal/profile"
)

// Canned replies that do not depend on the profile.
var (
	emptyReply = []string{
		"Ask me anything about my skills, projects, experience, education, or contact details.",
	}
	greetingReply = []string{
		"Hey there! 👋 I’m Minus Bot.",
		"You can ask me about my skills, projects, experience, education, or how to contact me.",
	}
	thanksReply = []string{
		"You’re welcome! 😊 Anything else you’d like to know?",
	}
	ackReply = []string{
		"Got it! ✅",
		"If you want, you can ask about my skills, projects, experience, or how to contact me.",
	}
	negativeReply = []string{
		"No problem. 😊",
		"If you don’t need anything else right now, you can close the chat. I’m here whenever you want to know more about my work.",
	}
)

const (
	maxAchievements     = 4
	maxProjectResults   = 6
	projectFallbackSize = 5
)

// genericProjectWords never narrow the project list on their own.
var genericProjectWords = map[string]struct{}{
	"project":   {},
	"projects":  {},
	"work":      {},
	"portfolio": {},
}

// cannedReply returns a fresh copy so callers may append to it.
func cannedReply(lines []string) []string {
	return append([]string(nil), lines...)
}

func answerAbout(p *profile.Profile) []string {
	var lines []string

	if intro := introSentence(p.Hero); intro != "" {
		lines = append(lines, intro)
	}

	if bio := strings.TrimSpace(p.About.About); bio != "" {
		lines = append(lines, "", bio)
	}

	if posts := profile.Entries(p.About.Posts); len(posts) > 0 {
		lines = append(lines, "", "Some of my positions and roles:")
		for _, e := range posts {
			lines = append(lines, fmt.Sprintf("• %s: %s", e.Key, e.Value))
		}
	}

	if achievements := profile.Entries(p.About.Achievements); len(achievements) > 0 {
		lines = append(lines, "", "Highlighted achievements:")
		for _, e := range achievements[:min(len(achievements), maxAchievements)] {
			lines = append(lines, fmt.Sprintf("• %s: %s", e.Key, e.Value))
		}
	}

	if len(lines) == 0 {
		return []string{"I don’t have profile details loaded yet."}
	}
	return lines
}

// introSentence renders "I’m {name}, {roles} based in {location}." leaving
// out whichever parts are missing.
func introSentence(h profile.Hero) string {
	name := strings.TrimSpace(h.Name)
	roles := strings.Join(h.Roles, ", ")
	if name == "" && roles == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("I’m ")
	switch {
	case name != "" && roles != "":
		sb.WriteString(name + ", " + roles)
	case name != "":
		sb.WriteString(name)
	default:
		sb.WriteString(roles)
	}
	if loc := strings.TrimSpace(h.Location); loc != "" {
		sb.WriteString(" based in " + loc)
	}
	sb.WriteString(".")
	return sb.String()
}

func answerSkills(p *profile.Profile) []string {
	lines := []string{"Here are my core skills, grouped by category:", ""}
	for _, cat := range p.Skills {
		names := cat.Names()
		if len(names) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", cat.Category, strings.Join(names, ", ")))
	}
	return lines
}

func answerProjects(p *profile.Profile, query string) []string {
	if len(p.Projects) == 0 {
		return []string{"I don’t have project data loaded yet."}
	}

	tokens := Tokenize(query)
	candidates := p.Projects
	if !allGeneric(tokens) {
		candidates = filterProjects(p.Projects, tokens)
	}
	if len(candidates) == 0 {
		candidates = p.Projects[:min(len(p.Projects), projectFallbackSize)]
	}
	candidates = candidates[:min(len(candidates), maxProjectResults)]

	lines := []string{"Here are some of my projects:", ""}
	for i, proj := range candidates {
		line := fmt.Sprintf("%d. %s — %s", i+1, proj.Title, proj.Description)
		if len(proj.TechStack) > 0 {
			line += " (Tech: " + strings.Join(proj.TechStack, ", ") + ")"
		}
		lines = append(lines, line)
		if proj.Demo != "" {
			lines = append(lines, "   Demo: "+proj.Demo)
		}
		if proj.GitHub != "" {
			lines = append(lines, "   GitHub: "+proj.GitHub)
		}
		lines = append(lines, "")
	}
	return lines
}

func allGeneric(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := genericProjectWords[t]; !ok {
			return false
		}
	}
	return true
}

// filterProjects keeps projects whose text contains any token as a substring.
func filterProjects(projects []profile.Project, tokens []string) []profile.Project {
	var out []profile.Project
	for _, proj := range projects {
		blob := strings.ToLower(strings.Join(projectFields(proj), " "))
		for _, t := range tokens {
			if strings.Contains(blob, t) {
				out = append(out, proj)
				break
			}
		}
	}
	return out
}

func projectFields(proj profile.Project) []string {
	fields := make([]string, 0, 2+len(proj.TechStack)+len(proj.Tags))
	fields = append(fields, proj.Title, proj.Description)
	fields = append(fields, proj.TechStack...)
	return append(fields, proj.Tags...)
}

func answerExperience(p *profile.Profile) []string {
	if len(p.Experience) == 0 {
		return []string{"I don’t have experience data loaded yet."}
	}

	lines := []string{"Here is a summary of my experience:", ""}
	for _, exp := range p.Experience {
		lines = append(lines, fmt.Sprintf("• %s at %s (%s)", exp.Role, exp.Company, exp.Duration))
		for _, d := range exp.Details {
			lines = append(lines, "   - "+d)
		}
		lines = append(lines, "")
	}
	return lines
}

func answerEducation(p *profile.Profile) []string {
	lines := []string{"My education journey:", ""}
	for _, edu := range p.About.Education {
		lines = append(lines, fmt.Sprintf("• %s — %s (%s)", edu.Degree, edu.Institution, edu.Year))
	}
	return lines
}

func answerContact(p *profile.Profile) []string {
	lines := []string{"Here’s how you can contact me:", ""}

	c := p.Contact
	if c.Email != "" {
		lines = append(lines, "• Email: "+c.Email)
	}
	if c.Phone != "" {
		lines = append(lines, "• Phone: "+c.Phone)
	}
	if c.Blog != "" {
		lines = append(lines, "• Blog: "+c.Blog)
	}
	if gh := p.Hero.SocialLink("github"); gh != nil {
		lines = append(lines, "• GitHub: "+gh.URL)
	}
	if li := p.Hero.SocialLink("linkedin"); li != nil {
		lines = append(lines, "• LinkedIn: "+li.URL)
	}

	if c.Message != "" {
		lines = append(lines, "", c.Message)
	}
	return lines
}

func answerLocation(p *profile.Profile) []string {
	if loc := strings.TrimSpace(p.Hero.Location); loc != "" {
		return []string{fmt.Sprintf("I’m currently based in %s.", loc)}
	}
	return []string{"My location information is not available right now."}
}
