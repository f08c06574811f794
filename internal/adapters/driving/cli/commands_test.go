package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/connectors/filesystem"
	"github.com/custodia-labs/semdoc/internal/logger"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"ingest", "search", "document", "serve", "mcp", "watch", "tui", "settings", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer logger.SetVerbose(false)
	defer func() { verbose = false }()

	_, err := execute("--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestServeCmd_ServicesNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	stagingService = nil

	_, err := execute("serve")
	assert.EqualError(t, err, "services not configured")
}

func TestServeCmd_AddrFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Empty(t, flag.DefValue)
}

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	assert.NotNil(t, mcpServeCmd.Flags().Lookup("read-only"))
}

func TestMCPServeCmd_MissingServices(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	_, err := execute("mcp", "serve")
	assert.Error(t, err)
}

func TestWatchCmd_Flags(t *testing.T) {
	ext := watchCmd.Flags().Lookup("ext")
	require.NotNil(t, ext)
	assert.Equal(t, "[.txt,.md]", ext.DefValue)

	debounce := watchCmd.Flags().Lookup("debounce")
	require.NotNil(t, debounce)
	assert.Equal(t, filesystem.DefaultDebounce.String(), debounce.DefValue)
}

func TestWatchCmd_RequiresDir(t *testing.T) {
	_, err := execute("watch")
	assert.Error(t, err)
}

func TestWatchCmd_MissingRoot(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("watch", "/nonexistent/semdoc-inbox")
	assert.Error(t, err)
}

func TestWatchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := ingestService
	ingestService = nil
	defer func() { ingestService = oldService }()

	_, err := execute("watch", t.TempDir())
	assert.EqualError(t, err, "ingest service not configured")
}

func TestTUICmd_AcceptsOptionalFile(t *testing.T) {
	assert.Equal(t, "tui [file]", tuiCmd.Use)
	assert.NoError(t, tuiCmd.Args(tuiCmd, nil))
	assert.NoError(t, tuiCmd.Args(tuiCmd, []string{"notes.txt"}))
	assert.Error(t, tuiCmd.Args(tuiCmd, []string{"a", "b"}))
}
