package tools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestDefaultCatalogHasFallbackTool(t *testing.T) {
	catalog := Default()

	fallback, ok := catalog.DefaultTool()
	require.True(t, ok)
	require.Equal(t, "design", fallback.ID)
	require.Len(t, catalog.Tools(), 4)

	for _, tool := range catalog.Tools() {
		require.NotEmpty(t, tool.ID)
		require.NotEmpty(t, tool.Name)
		require.NotEmpty(t, tool.Keywords)
	}
}

func TestLoadValidCatalog(t *testing.T) {
	path := writeCatalogFile(t, `{
		"default_tool": "notes",
		"tools": [
			{"id": "notes", "name": "Notebook", "keywords": ["write", "journal"]},
			{"id": "lab", "name": "Science Lab", "keywords": ["experiment"]}
		]
	}`)

	catalog, err := Load(path)
	require.NoError(t, err)
	require.Len(t, catalog.Tools(), 2)

	fallback, ok := catalog.DefaultTool()
	require.True(t, ok)
	require.Equal(t, "notes", fallback.ID)

	tool, ok := catalog.Lookup("lab")
	require.True(t, ok)
	require.Equal(t, "Science Lab", tool.Name)
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing default":  `{"tools": [{"id": "a", "name": "A", "keywords": ["x"]}]}`,
		"empty tools":      `{"default_tool": "a", "tools": []}`,
		"tool no keywords": `{"default_tool": "a", "tools": [{"id": "a", "name": "A", "keywords": []}]}`,
		"not json":         `default_tool: a`,
	}

	for name, contents := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeCatalogFile(t, contents))
			require.Error(t, err)
		})
	}
}

func TestLoadRejectsUnknownDefault(t *testing.T) {
	path := writeCatalogFile(t, `{
		"default_tool": "missing",
		"tools": [{"id": "notes", "name": "Notebook", "keywords": ["write"]}]
	}`)

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
