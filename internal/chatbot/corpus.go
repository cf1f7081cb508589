package chatbot

import (
	"fmt"
	"strings"

	"github.com/manasranjandas/portfolio-go/internal/profile"
)

// Document is one searchable rendering of a profile record.
type Document struct {
	Label     string `json:"label"`
	Text      string `json:"text"`
	TextLower string `json:"-"`
}

// Document labels.
const (
	LabelAbout          = "About"
	LabelEducation      = "Education"
	LabelPersonalDetail = "Personal Detail"
	LabelAchievement    = "Achievement"
	LabelPost           = "Role / Post"
	LabelExperience     = "Experience"
	LabelProject        = "Project"
	LabelSkillsPrefix   = "Skills - "
	LabelTagline        = "Hero Tagline"
	LabelName           = "Name"
	LabelContact        = "Contact"
)

// BuildCorpus flattens p into documents. Order is fixed (about, education,
// personal details, achievements, posts, experience, projects, skills,
// hero, contact) because search ties fall back to it. Absent fields emit
// nothing. Calling it twice on the same profile yields equal slices.
func BuildCorpus(p *profile.Profile) []Document {
	if p == nil {
		return nil
	}

	var b corpusBuilder

	b.add(LabelAbout, p.About.About)
	for _, edu := range p.About.Education {
		b.add(LabelEducation, fmt.Sprintf("%s at %s (%s)", edu.Degree, edu.Institution, edu.Year))
	}
	for _, e := range profile.Entries(p.About.PersonalDetails) {
		b.add(LabelPersonalDetail, e.Key+": "+e.Value)
	}
	for _, e := range profile.Entries(p.About.Achievements) {
		b.add(LabelAchievement, e.Key+": "+e.Value)
	}
	for _, e := range profile.Entries(p.About.Posts) {
		b.add(LabelPost, e.Key+": "+e.Value)
	}

	for _, exp := range p.Experience {
		b.add(LabelExperience, fmt.Sprintf("%s at %s (%s) — %s",
			exp.Role, exp.Company, exp.Duration, strings.Join(exp.Details, " ")))
	}

	for _, proj := range p.Projects {
		b.add(LabelProject, fmt.Sprintf("%s: %s (Tech: %s; Tags: %s)",
			proj.Title, proj.Description,
			strings.Join(proj.TechStack, ", "), strings.Join(proj.Tags, ", ")))
	}

	for _, cat := range p.Skills {
		names := cat.Names()
		if len(names) == 0 {
			continue
		}
		b.add(LabelSkillsPrefix+cat.Category, strings.Join(names, ", "))
	}

	b.add(LabelTagline, p.Hero.Tagline)
	b.add(LabelName, p.Hero.Name)

	if p.Contact.Email != "" {
		b.add(LabelContact, "Email: "+p.Contact.Email)
	}
	if p.Contact.Phone != "" {
		b.add(LabelContact, "Phone: "+p.Contact.Phone)
	}
	if p.Contact.Blog != "" {
		b.add(LabelContact, "Blog: "+p.Contact.Blog)
	}

	return b.docs
}

type corpusBuilder struct {
	docs []Document
}

// add appends a document unless text is blank.
func (b *corpusBuilder) add(label, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	b.docs = append(b.docs, NewDocument(label, text))
}

// NewDocument builds a Document with its lowercased search text.
func NewDocument(label, text string) Document {
	return Document{
		Label:     label,
		Text:      text,
		TextLower: strings.ToLower(text),
	}
}
