package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/gemini"
	kpiqslog "github.com/mkowalski/kpiq/slog"
	"github.com/mkowalski/kpiq/sqlite"
	"github.com/mkowalski/kpiq/tfidf"
	"google.golang.org/genai"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and index artifact paths. Set before calling Run().
	DBPath    string
	IndexPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	FragmentService kpiq.FragmentService
	KPIService      kpiq.KPIService

	// Gateway overrides the Gemini gateway when set, for testing.
	Gateway kpiq.Gateway
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:    defaultDBPath(),
		IndexPath: defaultIndexPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		IndexPath: m.IndexPath,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("kpiq"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'kpiq --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Dispatch on the parsed command so leading flags like -v don't hide
	// it. Command() includes argument placeholders; the first token is the
	// command name.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set KPIQ_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.FragmentService = sqlite.NewFragmentService(m.DB)
	m.KPIService = sqlite.NewKPIService(m.DB)
	deps.DB = m.DB
	deps.Fragments = m.FragmentService
	deps.KPIs = m.KPIService

	// Retrieval commands need the persisted index re-aligned to the store.
	if cmd == "ask" || cmd == "extract" {
		index, err := tfidf.Load(ctx, m.IndexPath, m.FragmentService)
		if err != nil {
			if kpiq.ErrorCode(err) == kpiq.ENOTFOUND || kpiq.ErrorCode(err) == kpiq.ECONFLICT {
				fmt.Fprintln(stderr, "Hint: Run 'kpiq ingest' or 'kpiq index' to rebuild the similarity index")
			}
			return err
		}
		deps.Retriever = kpiqslog.NewLoggingRetriever(index, deps.Logger)
	}

	// LLM commands require a configured credential before any network
	// attempt is made.
	if cmd == "ask" || cmd == "extract" {
		deps.Gateway = m.Gateway
		if deps.Gateway == nil {
			apiKey := os.Getenv("GEMINI_API_KEY")
			if apiKey == "" {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
				return fmt.Errorf("GEMINI_API_KEY not set")
			}

			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  apiKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}
			deps.Gateway = gemini.NewGateway(client, "")
		}
		deps.Gateway = kpiqslog.NewLoggingGateway(deps.Gateway, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("KPIQ_DB"); path != "" {
		return path
	}
	return filepath.Join(defaultDir(), "kpiq.db")
}

func defaultIndexPath() string {
	if dir := os.Getenv("KPIQ_MODELS_DIR"); dir != "" {
		return filepath.Join(dir, "tfidf.gob")
	}
	return filepath.Join(defaultDir(), "tfidf.gob")
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".kpiq")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
