package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/cbodonnell/tavernkeep/pkg/ledger"
	"github.com/cbodonnell/tavernkeep/pkg/log"
	"github.com/cbodonnell/tavernkeep/pkg/repositories"
	"github.com/cbodonnell/tavernkeep/pkg/snapshot"
	"github.com/joho/godotenv"
)

const usage = `usage: backup <export|import> [flags]

export -community <id> -out <file.json[.zst]>
import -community <id> -in <file.json[.zst]>

The database is taken from -database-url or TAVERNKEEP_DATABASE_URL.
Files ending in .zst are zstd-compressed archives.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "export":
		runExport(os.Args[2:])
	case "import":
		runImport(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func commonFlags(fs *flag.FlagSet) (community, databaseURL, logLevel *string) {
	community = fs.String("community", "", "community to operate on")
	databaseURL = fs.String("database-url", "", "database connection string")
	logLevel = fs.String("log-level", "info", "Log level")
	return community, databaseURL, logLevel
}

func setup(fs *flag.FlagSet, args []string, community, databaseURL, logLevel *string) (context.Context, *ledger.Ledger, repositories.Repository) {
	if err := fs.Parse(args); err != nil {
		os.Exit(2)
	}

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel))

	if *community == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded: %v", err)
	}

	connStr := *databaseURL
	if connStr == "" {
		connStr = os.Getenv("TAVERNKEEP_DATABASE_URL")
	}
	if connStr == "" {
		connStr = "sqlite://tavernkeep.db"
	}

	ctx := context.Background()
	repository := openRepository(ctx, connStr)
	gameLedger := ledger.NewLedger(ledger.NewLedgerOptions{
		Repository: repository,
	})
	return ctx, gameLedger, repository
}

func openRepository(ctx context.Context, connStr string) repositories.Repository {
	u, err := url.Parse(connStr)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse connection string: %v", err))
	}

	var repository repositories.Repository
	switch u.Scheme {
	case "sqlite":
		repository, err = repositories.NewSQLiteRepository(ctx, u.Host)
		if err != nil {
			panic(fmt.Sprintf("Failed to create SQLite repository: %v", err))
		}
	case "postgresql":
		repository, err = repositories.NewPostgresRepository(ctx, u.String())
		if err != nil {
			panic(fmt.Sprintf("Failed to create Postgres repository: %v", err))
		}
	default:
		panic(fmt.Sprintf("Unknown database type %s", u.Scheme))
	}
	return repository
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	community, databaseURL, logLevel := commonFlags(fs)
	out := fs.String("out", "", "file to write the snapshot to")

	ctx, gameLedger, repository := setup(fs, args, community, databaseURL, logLevel)
	defer repository.Close(ctx)

	if *out == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	s, err := gameLedger.ExportCommunity(ctx, *community)
	if err != nil {
		panic(fmt.Sprintf("Failed to export community: %v", err))
	}

	f, err := os.Create(*out)
	if err != nil {
		panic(fmt.Sprintf("Failed to create output file: %v", err))
	}
	defer f.Close()

	if strings.HasSuffix(*out, ".zst") {
		err = snapshot.WriteArchive(f, s)
	} else {
		var data []byte
		data, err = snapshot.Encode(s)
		if err == nil {
			_, err = f.Write(data)
		}
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to write snapshot: %v", err))
	}

	log.Info("Exported community %s to %s: %d characters, %d skill rows, %d inventory rows",
		*community, *out, len(s.Characters), len(s.Skills), len(s.Inventory))
}

func runImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	community, databaseURL, logLevel := commonFlags(fs)
	in := fs.String("in", "", "file to read the snapshot from")

	ctx, gameLedger, repository := setup(fs, args, community, databaseURL, logLevel)
	defer repository.Close(ctx)

	if *in == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		panic(fmt.Sprintf("Failed to open input file: %v", err))
	}
	defer f.Close()

	var s *snapshot.Snapshot
	if strings.HasSuffix(*in, ".zst") {
		s, err = snapshot.ReadArchive(f)
	} else {
		var data []byte
		data, err = io.ReadAll(f)
		if err == nil {
			s, err = snapshot.Decode(data)
		}
	}
	if err != nil {
		panic(fmt.Sprintf("Failed to read snapshot: %v", err))
	}

	result, err := gameLedger.ImportCommunity(ctx, *community, s)
	if err != nil {
		panic(fmt.Sprintf("Failed to import community: %v", err))
	}

	log.Info("Imported community %s from %s: %d characters, %d skill rows, %d inventory rows, %d rows skipped",
		*community, *in, result.Characters, result.Skills, result.Inventory, result.Skipped)
}
