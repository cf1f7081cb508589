package chatbot

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasranjandas/portfolio-go/internal/profile"
)

func fixtureProfile() *profile.Profile {
	projects := make([]profile.Project, 0, 7)
	for i := 1; i <= 7; i++ {
		projects = append(projects, profile.Project{
			Title:       fmt.Sprintf("Project %d", i),
			Description: fmt.Sprintf("Description %d", i),
		})
	}
	projects[0] = profile.Project{
		Title:       "Chat Server",
		Description: "Realtime rooms",
		TechStack:   []string{"Go", "Redis"},
		Tags:        []string{"backend"},
		GitHub:      "https://github.com/jane/chat",
		Demo:        "https://chat.example.com",
	}
	projects[1] = profile.Project{
		Title:       "Photo Gallery",
		Description: "Static gallery",
		TechStack:   []string{"React"},
		Tags:        []string{"frontend"},
	}

	return &profile.Profile{
		Hero: profile.Hero{
			Name:     "Jane Doe",
			Roles:    []string{"Developer", "Designer"},
			Location: "Berlin",
			Tagline:  "Building small useful things",
			SocialLinks: []profile.SocialLink{
				{Platform: "GitHub", URL: "https://github.com/jane"},
				{Platform: "LINKEDIN", URL: "https://linkedin.com/in/jane"},
			},
		},
		About: profile.About{
			About: "  I write software.  ",
			Education: []profile.Education{
				{Institution: "TU Berlin", Degree: "B.Sc. Informatics", Year: "2020"},
			},
			PersonalDetails: profile.NewOrderedMap("Hobbies", "Climbing"),
			Achievements: profile.NewOrderedMap(
				"A5", "fifth", "A1", "first", "A3", "third", "A2", "second", "A4", "fourth",
			),
			Posts: profile.NewOrderedMap("Club Lead", "Runs the coding club"),
		},
		Experience: []profile.Experience{
			{Role: "Intern", Company: "Acme", Duration: "2023", Details: []string{"Wrote tests", "Fixed bugs"}},
		},
		Projects: projects,
		Skills: []profile.SkillCategory{
			{Category: "Languages", Items: []profile.SkillItem{{Name: "Go"}, {Name: "TypeScript"}}},
			{Category: "Empty", Items: nil},
			{Category: "Databases", Items: []profile.SkillItem{{Name: "Postgres"}}},
		},
		Contact: profile.Contact{
			Email:   "jane@example.com",
			Phone:   "+49 1234",
			Message: "Happy to chat.",
		},
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"empty string", "", IntentEmpty},
		{"whitespace only", "   \t\n", IntentEmpty},
		{"greeting", "Hello there", IntentGreeting},
		{"greeting uppercase", "HEY", IntentGreeting},
		{"greeting beats skills", "hello, what are your skills", IntentGreeting},
		{"greeting needs whole word", "history", IntentSearch},
		{"thanks", "thanks a lot", IntentThanks},
		{"thanks beats ack", "great, thank you", IntentThanks},
		{"ack", "ok", IntentAck},
		{"ack phrase", "sounds good", IntentAck},
		{"negative", "nope", IntentNegative},
		{"negative phrase", "not now", IntentNegative},
		{"skills", "what are your skills", IntentSkills},
		{"skills tech stack", "which tech stack do you use", IntentSkills},
		{"projects", "show me your projects", IntentProjects},
		{"github goes to projects first", "github", IntentProjects},
		{"experience", "any internship experience", IntentExperience},
		{"education", "where did you study", IntentEducation},
		{"education btech", "b.tech details", IntentEducation},
		{"about", "who are you", IntentAbout},
		{"contact", "contact", IntentContact},
		{"contact reach", "how can I reach you", IntentContact},
		{"location", "where are you from", IntentLocation},
		{"location based", "based in?", IntentLocation},
		{"fallback", "tell me about rust", IntentSearch},
		{"gibberish", "asdkjhasdkjh", IntentSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.query))
		})
	}
}

func TestClassify_Total(t *testing.T) {
	t.Parallel()

	known := make(map[Intent]bool)
	for _, i := range AllIntents() {
		known[i] = true
	}
	inputs := []string{"", "?", "!!!", "🙂", "héllo", "ñ", "\x00", strings.Repeat("a", 5000), "1 2 3"}
	for _, in := range inputs {
		got := Classify(in)
		assert.True(t, known[got], "unknown intent %q for %q", got, in)
		assert.Equal(t, got, Classify(in), "classification must be stable")
	}
}

func TestBuildCorpus(t *testing.T) {
	t.Parallel()

	docs := BuildCorpus(fixtureProfile())

	labels := make([]string, 0, len(docs))
	for _, d := range docs {
		labels = append(labels, d.Label)
		assert.Equal(t, strings.ToLower(d.Text), d.TextLower)
		assert.NotEmpty(t, d.Text)
	}

	assert.Equal(t, LabelAbout, docs[0].Label)
	assert.Equal(t, "I write software.", docs[0].Text)
	assert.Equal(t, "B.Sc. Informatics at TU Berlin (2020)", docs[1].Text)
	assert.Equal(t, "Hobbies: Climbing", docs[2].Text)
	assert.Equal(t, "A5: fifth", docs[3].Text)

	assert.Contains(t, labels, "Skills - Languages")
	assert.Contains(t, labels, "Skills - Databases")
	assert.NotContains(t, labels, "Skills - Empty")

	var expText, projText string
	for _, d := range docs {
		if d.Label == LabelExperience {
			expText = d.Text
		}
		if d.Label == LabelProject && projText == "" {
			projText = d.Text
		}
	}
	assert.Equal(t, "Intern at Acme (2023) — Wrote tests Fixed bugs", expText)
	assert.Equal(t, "Chat Server: Realtime rooms (Tech: Go, Redis; Tags: backend)", projText)

	last := docs[len(docs)-2:]
	assert.Equal(t, NewDocument(LabelContact, "Email: jane@example.com"), last[0])
	assert.Equal(t, NewDocument(LabelContact, "Phone: +49 1234"), last[1])
}

func TestBuildCorpus_Idempotent(t *testing.T) {
	t.Parallel()

	p := fixtureProfile()
	assert.Equal(t, BuildCorpus(p), BuildCorpus(p))
}

func TestBuildCorpus_EmptyProfile(t *testing.T) {
	t.Parallel()

	assert.Empty(t, BuildCorpus(&profile.Profile{}))
	assert.Nil(t, BuildCorpus(nil))
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"hello", "go", "world"}, Tokenize(" Hello,  GO!world?? "))
	assert.Equal(t, []string{"a", "b", "c"}, Tokenize("a;b.c"))
	assert.Empty(t, Tokenize(" ,.;!? "))
}

func TestSearch_TieBreakByLength(t *testing.T) {
	t.Parallel()

	docs := []Document{
		NewDocument("A", "go programming"),
		NewDocument("B", "go"),
	}

	lines := Search("go", docs, DefaultTopK)
	require.Len(t, lines, 6)
	assert.Equal(t, "Here’s what I found:", lines[0])
	assert.Equal(t, "1. (B) go", lines[2])
	assert.Equal(t, "2. (A) go programming", lines[4])
}

func TestSearch_SubstringMatch(t *testing.T) {
	t.Parallel()

	docs := []Document{
		NewDocument("Skills - Databases", "MongoDB, Postgres"),
		NewDocument("Skills - Design", "Figma"),
	}

	hits := Rank([]string{"go"}, docs)
	require.Len(t, hits, 1)
	assert.Equal(t, "Skills - Databases", hits[0].Doc.Label)
}

func TestRank(t *testing.T) {
	t.Parallel()

	docs := []Document{
		NewDocument("first", "mongo database"),
		NewDocument("second", "rust"),
		NewDocument("third", "go and rust"),
		NewDocument("fourth", "mongo database"),
	}

	hits := Rank([]string{"go", "rust"}, docs)
	require.Len(t, hits, 4)
	assert.Equal(t, "third", hits[0].Doc.Label)
	assert.Equal(t, 2, hits[0].Score)
	assert.Equal(t, "second", hits[1].Doc.Label)
	// Substring matching: "go" hits "mongo". Equal length keeps corpus order.
	assert.Equal(t, "first", hits[2].Doc.Label)
	assert.Equal(t, "fourth", hits[3].Doc.Label)

	hits = Rank([]string{"go", "go"}, docs[:1])
	require.Len(t, hits, 1)
	assert.Equal(t, 2, hits[0].Score, "duplicate query tokens count twice")
}

func TestSearch_TopK(t *testing.T) {
	t.Parallel()

	var docs []Document
	for i := range 10 {
		docs = append(docs, NewDocument("L", fmt.Sprintf("item %d", i)))
	}

	assert.Len(t, Search("item", docs, 0), 2+2*DefaultTopK)
	assert.Len(t, Search("item", docs, 3), 2+2*3)
	assert.Len(t, Search("item", docs, 50), 2+2*10)
}

func TestSearch_Fallbacks(t *testing.T) {
	t.Parallel()

	docs := BuildCorpus(fixtureProfile())

	assert.Equal(t, []string{"Please type something to search."}, Search(" ?! ", docs, 5))

	lines := Search("asdkjhasdkjh", docs, 5)
	require.Len(t, lines, 6)
	assert.Equal(t, "I’m not sure about that yet 🤔", lines[0])
	assert.Equal(t, "Try asking things like:", lines[1])
	for _, l := range lines[2:] {
		assert.True(t, strings.HasPrefix(l, "• "), l)
	}
}

func TestResponder_NoMatch(t *testing.T) {
	t.Parallel()

	r := New(fixtureProfile())
	reply := r.Answer("asdkjhasdkjh")
	assert.Equal(t, IntentSearch, reply.Intent)
	assert.Equal(t, noMatchReply, reply.Lines)
}

func TestResponder_SearchHit(t *testing.T) {
	t.Parallel()

	r := New(fixtureProfile(), WithTopK(1))
	lines := r.Respond("climbing")
	assert.Equal(t, []string{"Here’s what I found:", "", "1. (Personal Detail) Hobbies: Climbing", ""}, lines)
}

func TestResponder_Contact(t *testing.T) {
	t.Parallel()

	lines := New(fixtureProfile()).Respond("contact")
	assert.Equal(t, []string{
		"Here’s how you can contact me:",
		"",
		"• Email: jane@example.com",
		"• Phone: +49 1234",
		"• GitHub: https://github.com/jane",
		"• LinkedIn: https://linkedin.com/in/jane",
		"",
		"Happy to chat.",
	}, lines)
}

func TestResponder_About(t *testing.T) {
	t.Parallel()

	lines := New(fixtureProfile()).Respond("introduce yourself")
	assert.Equal(t, []string{
		"I’m Jane Doe, Developer, Designer based in Berlin.",
		"",
		"I write software.",
		"",
		"Some of my positions and roles:",
		"• Club Lead: Runs the coding club",
		"",
		"Highlighted achievements:",
		"• A5: fifth",
		"• A1: first",
		"• A3: third",
		"• A2: second",
	}, lines)
}

func TestResponder_AboutPartial(t *testing.T) {
	t.Parallel()

	p := &profile.Profile{Hero: profile.Hero{Name: "Solo"}}
	assert.Equal(t, []string{"I’m Solo."}, New(p).Respond("who are you"))

	p = &profile.Profile{Hero: profile.Hero{Roles: []string{"Engineer"}, Location: "Oslo"}}
	assert.Equal(t, []string{"I’m Engineer based in Oslo."}, New(p).Respond("who are you"))

	assert.Equal(t, []string{"I don’t have profile details loaded yet."}, New(nil).Respond("who are you"))
}

func TestResponder_Skills(t *testing.T) {
	t.Parallel()

	lines := New(fixtureProfile()).Respond("your skills?")
	assert.Equal(t, []string{
		"Here are my core skills, grouped by category:",
		"",
		"• Languages: Go, TypeScript",
		"• Databases: Postgres",
	}, lines)
}

func TestAnswerProjects(t *testing.T) {
	t.Parallel()

	p := fixtureProfile()

	t.Run("generic query lists up to six", func(t *testing.T) {
		t.Parallel()
		lines := answerProjects(p, "projects")
		assert.Equal(t, "Here are some of my projects:", lines[0])
		assert.Equal(t, "1. Chat Server — Realtime rooms (Tech: Go, Redis)", lines[2])
		assert.Equal(t, "   Demo: https://chat.example.com", lines[3])
		assert.Equal(t, "   GitHub: https://github.com/jane/chat", lines[4])
		assert.Equal(t, 6, countNumbered(lines))
	})

	t.Run("token filter", func(t *testing.T) {
		t.Parallel()
		lines := answerProjects(p, "react gallery")
		assert.Equal(t, 1, countNumbered(lines))
		assert.Equal(t, "1. Photo Gallery — Static gallery (Tech: React)", lines[2])
	})

	t.Run("substring match inside words", func(t *testing.T) {
		t.Parallel()
		lines := answerProjects(p, "end")
		// "end" is inside both "backend" and "frontend".
		assert.Equal(t, 2, countNumbered(lines))
	})

	t.Run("no match falls back to first five", func(t *testing.T) {
		t.Parallel()
		lines := answerProjects(p, "xyznotfound")
		assert.Equal(t, 5, countNumbered(lines))
		assert.Equal(t, "1. Chat Server — Realtime rooms (Tech: Go, Redis)", lines[2])
	})

	t.Run("no projects", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"I don’t have project data loaded yet."}, answerProjects(&profile.Profile{}, "projects"))
	})
}

func TestResponder_ProjectsFallback(t *testing.T) {
	t.Parallel()

	reply := New(fixtureProfile()).Answer("portfolio xyznotfound")
	assert.Equal(t, IntentProjects, reply.Intent)
	assert.Equal(t, 5, countNumbered(reply.Lines))
}

func TestResponder_Experience(t *testing.T) {
	t.Parallel()

	lines := New(fixtureProfile()).Respond("work history")
	assert.Equal(t, []string{
		"Here is a summary of my experience:",
		"",
		"• Intern at Acme (2023)",
		"   - Wrote tests",
		"   - Fixed bugs",
		"",
	}, lines)

	assert.Equal(t, []string{"I don’t have experience data loaded yet."},
		New(&profile.Profile{}).Respond("experience"))
}

func TestResponder_Education(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"My education journey:",
		"",
		"• B.Sc. Informatics — TU Berlin (2020)",
	}, New(fixtureProfile()).Respond("education"))

	assert.Equal(t, []string{"My education journey:", ""}, New(nil).Respond("degree"))
}

func TestResponder_Location(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"I’m currently based in Berlin."}, New(fixtureProfile()).Respond("location"))
	assert.Equal(t, []string{"My location information is not available right now."}, New(nil).Respond("location"))
}

func TestResponder_Canned(t *testing.T) {
	t.Parallel()

	r := New(fixtureProfile())
	tests := []struct {
		query string
		want  []string
	}{
		{"", emptyReply},
		{"hi", greetingReply},
		{"thank you", thanksReply},
		{"cool", ackReply},
		{"nothing", negativeReply},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Respond(tt.query), tt.query)
	}

	// Mutating a reply must not leak into later replies.
	lines := r.Respond("hi")
	lines[0] = "changed"
	assert.Equal(t, greetingReply, r.Respond("hi"))
}

func TestResponder_NeverEmpty(t *testing.T) {
	t.Parallel()

	queries := []string{"", "hi", "thanks", "ok", "no", "skills", "projects", "experience",
		"education", "who are you", "contact", "location", "zzz", "?"}
	for _, r := range []*Responder{New(nil), New(fixtureProfile())} {
		for _, q := range queries {
			assert.NotEmpty(t, r.Respond(q), q)
		}
	}
}

func TestResponder_Documents(t *testing.T) {
	t.Parallel()

	r := New(fixtureProfile())
	docs := r.Documents()
	require.NotEmpty(t, docs)
	docs[0].Text = "changed"
	assert.NotEqual(t, "changed", r.Documents()[0].Text)
	assert.NotNil(t, r.Profile())
}

func TestReply_Text(t *testing.T) {
	t.Parallel()

	reply := New(fixtureProfile()).Answer("location")
	assert.Equal(t, IntentLocation, reply.Intent)
	assert.Equal(t, "I’m currently based in Berlin.", reply.Text())
	assert.Equal(t, "a\n\nb", Reply{Lines: []string{"a", "", "b"}}.Text())
}

func countNumbered(lines []string) int {
	n := 0
	for _, l := range lines {
		if len(l) > 2 && l[0] >= '1' && l[0] <= '9' && strings.HasPrefix(l[1:], ". ") {
			n++
		}
	}
	return n
}
