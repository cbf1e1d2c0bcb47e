package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/storage/category"
)

func TestMigrationsArePaired(t *testing.T) {
	names, err := fs.Glob(files, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file %s", name)
		}
	}
	assert.Equal(t, ups, downs)
}

func TestDefaultCategorySeedMatchesDefaults(t *testing.T) {
	raw, err := fs.ReadFile(files, "000002_default_categories.up.sql")
	require.NoError(t, err)
	seed := string(raw)

	for _, c := range category.Defaults {
		row := "('" + c.Name + "', '" + string(c.Type) + "', '" + c.Icon + "', '" + c.Color + "', TRUE)"
		assert.Contains(t, seed, row, "seed missing default %s", c.Name)
	}
	assert.Equal(t, len(category.Defaults), strings.Count(seed, "TRUE)"))
}
