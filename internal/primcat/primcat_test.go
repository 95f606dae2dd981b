package primcat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStringBuildsLookupableCatalog(t *testing.T) {
	const doc = `
[component.fifo_32x8]
area_um2 = 1024.5
power_mw = 3.2

[component.mux_4to1]
area_um2 = 12.0
power_mw = 0.1
`
	cat, err := LoadString(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())

	info, ok := cat.Lookup("fifo_32x8")
	require.True(t, ok)
	assert.Equal(t, 1024.5, info.AreaUM2)
	assert.Equal(t, 3.2, info.PowerMW)

	_, ok = cat.Lookup("does_not_exist")
	assert.False(t, ok)
}

func TestLoadStringEmptyDocumentYieldsEmptyCatalog(t *testing.T) {
	cat, err := LoadString("")
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestLoadStringRejectsMalformedToml(t *testing.T) {
	_, err := LoadString("not = [valid toml")
	assert.Error(t, err)
}
