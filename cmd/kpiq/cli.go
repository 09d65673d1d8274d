package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	IndexPath string
	Fragments kpiq.FragmentService
	KPIs      kpiq.KPIService
	Retriever kpiq.Retriever
	Gateway   kpiq.Gateway
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Ingest  IngestCmd  `cmd:"" help:"Normalize a raw fragment table and rebuild the store and index"`
	Index   IndexCmd   `cmd:"" help:"Rebuild the similarity index from the stored fragments"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about the document corpus"`
	Extract ExtractCmd `cmd:"" help:"Run the KPI catalog batch extraction"`
	Patch   PatchCmd   `cmd:"" help:"Apply manual overrides to the KPI dataset"`
	Kpis    KpisCmd    `cmd:"" help:"List the extracted KPI dataset"`
	Check   CheckCmd   `cmd:"" help:"Run the emissions consistency check on the stored dataset"`
}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Path string `arg:"" help:"Path to the raw fragment CSV"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct{}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question   string   `arg:"" help:"Question to ask about the corpus"`
	K          int      `short:"k" default:"6" help:"Number of fragments to retrieve"`
	Types      []string `short:"t" name:"types" help:"Restrict retrieval to these doc types (repeatable)"`
	ShowPrompt bool     `help:"Print the full prompt that was sent"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Out string `short:"o" help:"Also export the dataset as CSV to this path"`
	RPS float64 `name:"rps" default:"1" help:"Maximum model calls per second"`
}

// PatchCmd is the "patch" subcommand.
type PatchCmd struct{}

// KpisCmd is the "kpis" subcommand.
type KpisCmd struct {
	Category string `short:"c" help:"Filter by category (financial, esg, other)"`
}

// CheckCmd is the "check" subcommand.
type CheckCmd struct{}
