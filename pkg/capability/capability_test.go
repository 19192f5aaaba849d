package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndResolve(t *testing.T) {
	assert.False(t, Resolvable("cap-test-backend"))

	Register("cap-test-backend")
	assert.True(t, Resolvable("cap-test-backend"))

	// Re-registration is a no-op.
	Register("cap-test-backend")
	assert.True(t, Resolvable("cap-test-backend"))
}

func TestNamesSorted(t *testing.T) {
	Register("cap-test-zeta")
	Register("cap-test-alpha")

	names := Names()
	assert.Contains(t, names, "cap-test-alpha")
	assert.Contains(t, names, "cap-test-zeta")
	assert.IsIncreasing(t, names)
}

func TestDefaultProbe(t *testing.T) {
	Register("cap-test-probe")
	probe := DefaultProbe()
	assert.True(t, probe("cap-test-probe"))
	assert.False(t, probe("cap-test-missing"))
}
