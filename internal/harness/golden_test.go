package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Golden files live in testdata/golden. To regenerate them, run:
//
//	go test ./internal/harness -run TestGolden -update
func TestGolden_Scenarios(t *testing.T) {
	scenarios, err := LoadDir(filepath.Join("testdata", "scenarios"), "")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestGolden_SummaryIsDeterministic(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "map-merge.yaml"))
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	for range 5 {
		again, err := Run(s)
		require.NoError(t, err)
		assert.Equal(t, first.Summary, again.Summary)
		assert.Equal(t, first.Trace, again.Trace)
	}
}
