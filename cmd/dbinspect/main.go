// Package main dumps the records of a Badger database without modifying it.
//
// Usage:
//
//	DB_PATH=~/Nightstand/data/db go run ./cmd/dbinspect
//	DB_PATH=~/Nightstand/data/db go run ./cmd/dbinspect --raw
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/nightstandapp/nightstand-server/internal/domain"
	"github.com/nightstandapp/nightstand-server/internal/store"
)

var raw = flag.Bool("raw", false, "Print the stored JSON records as-is")

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Nightstand/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var rawBooks, rawProfile []byte
	err = db.View(func(txn *badger.Txn) error {
		var err error
		if rawBooks, err = read(txn, store.KeyBooks); err != nil {
			return err
		}
		rawProfile, err = read(txn, store.KeyProfile)
		return err
	})
	if err != nil {
		log.Fatalf("Error reading database: %v", err)
	}

	if *raw {
		printRaw(store.KeyBooks, rawBooks)
		printRaw(store.KeyProfile, rawProfile)
		return
	}

	snap, err := store.DecodeSnapshot(rawBooks, rawProfile)
	if err != nil {
		log.Fatalf("Error decoding records: %v", err)
	}

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	counts := make(map[domain.Status]int)
	hidden := 0
	for _, b := range snap.Books {
		counts[b.Status]++
		if b.Hidden {
			hidden++
		}
	}

	fmt.Printf("Books: %d (%d hidden)\n", len(snap.Books), hidden)
	for _, s := range domain.Statuses {
		fmt.Printf("  %-10s %d\n", s, counts[s])
	}
	fmt.Println()

	if snap.Profile == nil {
		fmt.Println("Profile: none")
		return
	}

	p := snap.Profile
	recomputed := domain.RecomputeTotalPagesRead(snap.Books)

	fmt.Printf("Profile: %s\n", p.Username)
	fmt.Printf("  Level: %d (%d XP)\n", p.Level(), p.ExperiencePoints)
	fmt.Printf("  Books read: %d\n", p.TotalBooksRead)
	fmt.Printf("  Pages read: %d\n", p.TotalPagesRead)
	if recomputed != p.TotalPagesRead {
		fmt.Printf("  WARNING: books account for %d pages; run stats reconcile\n", recomputed)
	}
	fmt.Printf("  Nightstand skin: %s\n", p.SelectedNightStandSkinID)
	fmt.Printf("  Owned nightstand skins: %v\n", p.OwnedSkins.NightStandSkins)
}

func read(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func printRaw(key string, data []byte) {
	fmt.Printf("=== %s ===\n", key)
	if data == nil {
		fmt.Println("(missing)")
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Println(buf.String())
}
