package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/semdoc/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/semdoc/internal/core/domain"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API used by the web front end.

Uploads are staged per client until stored or cancelled. A client is
identified by the X-Session-Key header or the semdoc_session cookie,
which is issued on the first upload.

Endpoints:
  POST /api/v1/extract-text   stage an uploaded .txt or .md file
  GET  /api/v1/get-text       return the staged text
  POST /api/v1/store-text     ingest the staged text
  POST /api/v1/cancel         discard the staged text
  POST /api/v1/search         {"filename", "query", "k"}
  GET  /api/v1/documents      list stored documents
  GET  /api/v1/documents/:filename`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if stagingService == nil || searchService == nil || documentService == nil {
		return errors.New("services not configured")
	}

	settings := domain.DefaultAppSettings()
	if settingsService != nil {
		s, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings = *s
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Staging:  stagingService,
		Search:   searchService,
		Document: documentService,
	}, httpapi.Config{
		CORSOrigins:    settings.Server.CORSOrigins,
		MaxUploadBytes: settings.Server.MaxUploadBytes,
		SessionTTL:     settings.Pending.TTL,
	})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}
