package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/AKteen/Clear-Bill/internal/extract"
	"github.com/AKteen/Clear-Bill/internal/server"
	"github.com/AKteen/Clear-Bill/internal/store"
)

var (
	serveAddr      string
	serveRules     string
	serveDB        string
	serveJournal   string
	serveAPIURL    string
	serveMaxUpload int64
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveRules, "rules", "", "Path to rules YAML (defaults to built-in seed)")
	serveCmd.Flags().StringVar(&serveDB, "db", "clearbill.db", "Path to SQLite database")
	serveCmd.Flags().StringVar(&serveJournal, "journal", "", "Path to decision journal JSONL file")
	serveCmd.Flags().StringVar(&serveAPIURL, "api-url", "", "Override extraction API endpoint")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", server.DefaultMaxUploadBytes, "Maximum upload size in bytes")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document audit HTTP server",
	Long: "Runs the upload API: extraction, duplicate gate, compliance audit.\n" +
		"Reads the extraction API key from GROQ_API_KEY.\n" +
		"Supports hot-reload of the rules file.",
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GROQ_API_KEY is not set; the extraction service needs it")
	}
	extractor := extract.NewGroqExtractor(apiKey)
	if serveAPIURL != "" {
		extractor.APIURL = serveAPIURL
	}

	db, err := store.Open(serveDB)
	if err != nil {
		return err
	}
	defer db.Close()

	cfg := server.Config{
		Addr:           serveAddr,
		RulesPath:      serveRules,
		JournalPath:    serveJournal,
		MaxUploadBytes: serveMaxUpload,
	}

	srv, err := server.New(cfg, extractor, db, db)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	// Start hot-reload watcher for the rules file
	reloader, err := server.NewReloader(srv, []string{serveRules})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: hot-reload disabled: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if reloader != nil {
		go reloader.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nShutting down audit server...")
		cancel()
		srv.Shutdown(context.Background())
	}()

	fmt.Fprintf(os.Stderr, "clearbill audit server listening on %s\n", serveAddr)
	fmt.Fprintf(os.Stderr, "Database: %s\n", serveDB)
	if serveRules != "" {
		fmt.Fprintf(os.Stderr, "Rules: %s (hot-reload enabled)\n", serveRules)
	}
	fmt.Fprintf(os.Stderr, "Max upload: %s\n", humanize.Bytes(uint64(serveMaxUpload)))
	fmt.Fprintln(os.Stderr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
