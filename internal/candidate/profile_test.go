package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromMapAliases(t *testing.T) {
	p := FromMap(map[string]any{
		"candidate_name":     "  Jordan  Diaz ",
		"email_address":      "jordan@example.com",
		"mobile":             "+1 555 0100",
		"city":               "Austin",
		"target_roles":       "Backend Engineer, Platform Engineer",
		"tech_stack":         []any{"Go", "go", "PostgreSQL"},
		"experience_years":   "6",
		"visa_status":        "citizen",
		"preferred_location": "Austin, Remote",
		"remote_preference":  "yes",
		"needs_sponsorship":  false,
		"resume":             "Shipped Go services on Kubernetes.",
	})

	assert.Equal(t, "Jordan Diaz", p.FullName)
	assert.Equal(t, "jordan@example.com", p.Email)
	assert.Equal(t, "+1 555 0100", p.Phone)
	assert.Equal(t, "Austin", p.Location)
	assert.Equal(t, []string{"Backend Engineer", "Platform Engineer"}, p.DesiredTitles)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, p.Skills)
	require.NotNil(t, p.YearsExperience)
	assert.Equal(t, 6.0, *p.YearsExperience)
	assert.Equal(t, "citizen", p.WorkAuthorization)
	assert.Equal(t, []string{"Austin", "Remote"}, p.PreferredLocations)
	require.NotNil(t, p.RemoteOK)
	assert.True(t, *p.RemoteOK)
	require.NotNil(t, p.SponsorshipNeeded)
	assert.False(t, *p.SponsorshipNeeded)
	assert.Equal(t, "Shipped Go services on Kubernetes.", p.ResumeText)
}

func TestFromMapDefaults(t *testing.T) {
	p := FromMap(nil)

	assert.Empty(t, p.FullName)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.DesiredTitles)
	assert.Nil(t, p.YearsExperience)
	assert.Nil(t, p.RemoteOK)
	assert.Nil(t, p.SponsorshipNeeded)
}

func TestFromMapSkillsFallBackToSkillsYears(t *testing.T) {
	p := FromMap(map[string]any{
		"skills_years": map[string]any{"sql": float64(7), "python": float64(4)},
	})

	assert.Equal(t, []string{"python", "sql"}, p.Skills)
	assert.Equal(t, map[string]float64{"python": 4, "sql": 7}, p.SkillsYears)
}

func TestFromMapSkillsFallbackOrderIsStable(t *testing.T) {
	raw := map[string]any{
		"skills_years": map[string]any{
			"go": float64(6), "python": float64(4), "aws": float64(3),
			"docker": float64(3), "kafka": float64(2), "terraform": float64(1),
		},
	}

	want := []string{"aws", "docker", "go", "kafka", "python", "terraform"}
	for i := 0; i < 100; i++ {
		assert.Equal(t, want, FromMap(raw).Skills)
	}
}

func TestFromMapExplicitSkillsWinOverSkillsYears(t *testing.T) {
	p := FromMap(map[string]any{
		"skills":       []any{"Go"},
		"skills_years": map[string]any{"python": float64(4)},
	})

	assert.Equal(t, []string{"Go"}, p.Skills)
}

func TestToMap(t *testing.T) {
	years := 6.0
	remote := true
	p := &Profile{
		FullName:        "Jordan Diaz",
		Email:           "jordan@example.com",
		DesiredTitles:   []string{"Backend Engineer"},
		Skills:          []string{"Go", "PostgreSQL"},
		SkillsYears:     map[string]float64{"go": 6},
		YearsExperience: &years,
		RemoteOK:        &remote,
	}

	m := p.ToMap()

	assert.Equal(t, "jordan@example.com", m["email"])
	assert.Equal(t, []string{"Go", "PostgreSQL"}, m["skills"])
	assert.Equal(t, 6.0, m["years_experience"])
	assert.Equal(t, true, m["remote_ok"])
	assert.Equal(t, map[string]any{"go": 6.0}, m["skills_years"])
	assert.NotContains(t, m, "sponsorship_needed")
}

func TestToMapOmitsUnknownOptionals(t *testing.T) {
	m := (&Profile{}).ToMap()

	assert.NotContains(t, m, "years_experience")
	assert.NotContains(t, m, "remote_ok")
	assert.NotContains(t, m, "skills_years")
}
