package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"bookmarksapi/pkg/adapters/repository/sqlite"
	"bookmarksapi/pkg/config"
	"bookmarksapi/pkg/core/domain"
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(repo)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

// exportRecord carries the owner id, which the API representation hides.
type exportRecord struct {
	domain.Bookmark
	UserID int64 `json:"user_id"`
}

func doExport(repo *sqlite.SQLiteRepository) {
	bookmarks, err := repo.Dump(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	records := make([]exportRecord, 0, len(bookmarks))
	for _, b := range bookmarks {
		records = append(records, exportRecord{Bookmark: b, UserID: b.UserID})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo *sqlite.SQLiteRepository, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var records []exportRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	// Short codes are unique, so rows whose code is already present are
	// skipped rather than re-inserted.
	ctx := context.Background()
	count := 0
	for _, rec := range records {
		existing, _ := repo.GetByShortCode(ctx, rec.ShortURL)
		if existing != nil {
			log.Printf("Skipping existing code: %s", rec.ShortURL)
			continue
		}

		b := rec.Bookmark
		b.UserID = rec.UserID
		if err := repo.Create(ctx, &b); err != nil {
			log.Printf("Failed to import %s: %v", rec.ShortURL, err)
		} else {
			count++
		}
	}
	log.Printf("Imported %d bookmarks", count)
}
