package profile

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFS_JSON(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"hero.json": {Data: []byte(`{
			"name": "Jane Doe",
			"roles": ["Developer", "Designer"],
			"location": "Berlin",
			"heroTagline": "Hello",
			"socialLinks": [{"platform": "GitHub", "url": "https://github.com/jane"}]
		}`)},
		"about.json": {Data: []byte(`{
			"about": "Bio",
			"achievements": {"Second": "b", "First": "a", "Third": "c"}
		}`)},
		"experience.json": {Data: []byte(`[{"role": "Intern", "company": "Acme", "duration": "2024", "details": ["one"]}]`)},
		"projects.json":   {Data: []byte(`[{"title": "P1", "description": "d", "techStack": ["Go"], "tags": ["cli"]}]`)},
		"skills.json":     {Data: []byte(`[{"category": "Lang", "items": [{"name": "Go"}]}]`)},
		"contact.json":    {Data: []byte(`{"email": "jane@example.com"}`)},
	}

	p, err := LoadFS(context.Background(), fsys)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.Hero.Name)
	assert.Equal(t, []string{"Developer", "Designer"}, p.Hero.Roles)
	assert.Equal(t, "Hello", p.Hero.Tagline)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "Acme", p.Experience[0].Company)
	assert.Equal(t, []string{"Go"}, p.Projects[0].TechStack)
	assert.Equal(t, "jane@example.com", p.Contact.Email)
	assert.Empty(t, p.MissingSections())

	// JSON object order is preserved, not sorted.
	entries := Entries(p.About.Achievements)
	require.Len(t, entries, 3)
	assert.Equal(t, "Second", entries[0].Key)
	assert.Equal(t, "First", entries[1].Key)
	assert.Equal(t, "Third", entries[2].Key)
}

func TestLoadFS_MissingSections(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"hero.json":    {Data: []byte(`{"name": "Only Hero"}`)},
		"contact.json": {Data: []byte("  \n")},
	}

	p, err := LoadFS(context.Background(), fsys)
	require.NoError(t, err)

	assert.Equal(t, "Only Hero", p.Hero.Name)
	assert.ElementsMatch(t,
		[]string{SectionAbout, SectionExperience, SectionProjects, SectionSkills},
		p.MissingSections())
	assert.Nil(t, p.About.Achievements)
	assert.Empty(t, p.Contact.Email)
}

func TestLoadFS_MalformedFile(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"projects.json": {Data: []byte(`[{"title": `)},
	}

	_, err := LoadFS(context.Background(), fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section projects")
}

func TestLoadFS_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFS(ctx, fstest.MapFS{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_YAML(t *testing.T) {
	t.Parallel()

	p, err := Load(context.Background(), filepath.Join("testdata", "yaml"))
	require.NoError(t, err)

	assert.Equal(t, "Test Person", p.Hero.Name)
	assert.Equal(t, "Pune, India", p.Hero.Location)
	require.NotNil(t, p.Hero.SocialLink("GitHub"))
	assert.Equal(t, "https://github.com/test-person", p.Hero.SocialLink("GITHUB").URL)
	assert.Nil(t, p.Hero.SocialLink("linkedin"))

	require.Len(t, p.About.Education, 1)
	assert.Equal(t, "2020", p.About.Education[0].Year)

	entries := Entries(p.About.Achievements)
	require.Len(t, entries, 2)
	assert.Equal(t, "Zeta", entries[0].Key)
	assert.Equal(t, "Alpha", entries[1].Key)

	assert.Equal(t, "test@example.com", p.Contact.Email)
	assert.ElementsMatch(t,
		[]string{SectionExperience, SectionProjects, SectionSkills},
		p.MissingSections())
}

func TestLoad_NotADirectory(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join("testdata", "yaml", "hero.yaml"))
	require.Error(t, err)

	_, err = Load(context.Background(), filepath.Join("testdata", "does-not-exist"))
	require.Error(t, err)
}

func TestLoad_SampleData(t *testing.T) {
	t.Parallel()

	p, err := Load(context.Background(), filepath.Join("..", "..", "data", "profile"))
	require.NoError(t, err)
	assert.Empty(t, p.MissingSections())
	assert.NotEmpty(t, p.Hero.Name)
	assert.NotEmpty(t, p.Projects)

	stats := p.Stats()
	assert.Equal(t, len(p.Projects), stats.Projects)
	assert.Equal(t, len(p.Experience), stats.Experience)
}

func TestSkillCategory_Names(t *testing.T) {
	t.Parallel()

	c := SkillCategory{Category: "x", Items: []SkillItem{{Name: "Go"}, {Name: ""}, {Name: "Rust"}}}
	assert.Equal(t, []string{"Go", "Rust"}, c.Names())
	assert.Empty(t, SkillCategory{}.Names())
}

func TestNewOrderedMap(t *testing.T) {
	t.Parallel()

	m := NewOrderedMap("b", "2", "a", "1", "dangling")
	assert.Equal(t, []Entry{{"b", "2"}, {"a", "1"}}, Entries(m))
	assert.Nil(t, Entries(nil))
}

func TestProfile_StatsNil(t *testing.T) {
	t.Parallel()

	var p *Profile
	assert.Equal(t, Stats{}, p.Stats())
	assert.Nil(t, p.MissingSections())
}
