package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalScenario = `
name: minimal
description: "One map, one assertion"
maps:
  music:
    base: http://example.org/music/
    topics:
      - id: puccini
        subject_identifiers: [puccini]
assertions:
  - type: topic_count
    map: music
    count: 1
`

func writeScenario(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "minimal.yaml", minimalScenario)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "minimal", scenario.Name)
	assert.Equal(t, "One map, one assertion", scenario.Description)
	require.Contains(t, scenario.Maps, "music")
	assert.Equal(t, "http://example.org/music/", scenario.Maps["music"].Base)
	assert.Equal(t, []string{"puccini"}, scenario.Maps["music"].Topics[0].SubjectIdentifiers)
	require.Len(t, scenario.Assertions, 1)
	require.NotNil(t, scenario.Assertions[0].Count)
	assert.Equal(t, 1, *scenario.Assertions[0].Count)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "assertion: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_UnknownDocumentField(t *testing.T) {
	content := `
name: typo
description: "Typo inside a document"
maps:
  music:
    topics:
      - id: puccini
        subject_identifier: [puccini]
assertions:
  - type: topic_count
    map: music
    count: 1
`
	_, err := ParseScenario([]byte(content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateScenario(t *testing.T) {
	count := 1
	base := func() Scenario {
		s, err := ParseScenario([]byte(minimalScenario))
		require.NoError(t, err)
		return *s
	}

	tests := []struct {
		name   string
		mutate func(*Scenario)
		want   string
	}{
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"missing description", func(s *Scenario) { s.Description = "" }, "description is required"},
		{"no maps", func(s *Scenario) { s.Maps = nil }, "maps is required"},
		{"no assertions", func(s *Scenario) { s.Assertions = nil }, "assertions list is required"},
		{"step without op", func(s *Scenario) {
			s.Steps = []Step{{Map: "music"}}
		}, "steps[0]: op is required"},
		{"step on unknown map", func(s *Scenario) {
			s.Steps = []Step{{Op: OpRemoveDuplicates, Map: "opera"}}
		}, `steps[0]: unknown map "opera"`},
		{"unknown op", func(s *Scenario) {
			s.Steps = []Step{{Op: "explode", Map: "music"}}
		}, `steps[0]: unknown op "explode"`},
		{"merge map into itself", func(s *Scenario) {
			s.Steps = []Step{{Op: OpMergeMaps, Map: "music", From: "music"}}
		}, "cannot merge map"},
		{"bad identity kind", func(s *Scenario) {
			s.Steps = []Step{{Op: OpAddIdentity, Map: "music", Topic: "sid:puccini", Kind: "psi", IRI: "x"}}
		}, "kind must be iid, sid or slo"},
		{"variant without scope", func(s *Scenario) {
			s.Steps = []Step{{Op: OpCreateVariant, Map: "music", Construct: "iid:n"}}
		}, "construct and scope are required"},
		{"unknown error class", func(s *Scenario) {
			s.Steps = []Step{{Op: OpRemoveDuplicates, Map: "music", ExpectError: "boom"}}
		}, `unknown error class "boom"`},
		{"count missing", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertTopicCount, Map: "music"}}
		}, "non-negative count is required"},
		{"topic missing", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertNameCount, Map: "music", Count: &count}}
		}, "topic is required"},
		{"event kind missing", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: AssertEventCount, Map: "music", Count: &count}}
		}, "kind is required"},
		{"unknown assertion", func(s *Scenario) {
			s.Assertions = []Assertion{{Type: "trace_order", Map: "music"}}
		}, `unknown assertion type "trace_order"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			err := validateScenario(&s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDir_SortsAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", minimalScenario)
	writeScenario(t, dir, "a.yml", `
name: another
description: "Second scenario"
maps:
  opera: {}
assertions:
  - type: topic_count
    map: opera
    count: 0
`)
	writeScenario(t, dir, "notes.txt", "not a scenario")

	all, err := LoadDir(dir, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "another", all[0].Name)
	assert.Equal(t, "minimal", all[1].Name)

	filtered, err := LoadDir(dir, "mini")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "minimal", filtered[0].Name)
}

func TestLoadDir_ReportsBrokenScenario(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "broken.yaml", "name: [")

	_, err := LoadDir(dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
