// Command litepager is a read-only query tool over a SQLite v3 database
// file: a small SQL subset plus two dot-commands for inspecting the
// schema.
//
// Usage: litepager sample.db ".dbinfo"
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ondrovic/litepager/internal/dbfile"
)

const columnSeparator = "|"

func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s <database-file> <command>", os.Args[0])
	}
	databaseFilePath := os.Args[1]
	command := os.Args[2]

	db, err := dbfile.Open(databaseFilePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	switch command {
	case ".dbinfo":
		fmt.Printf("database page size: %v\n", db.PageSize())
		fmt.Printf("number of tables: %v\n", db.TableCount())

	case ".tables":
		fmt.Println(strings.Join(db.TableNames(), " "))

	default:
		result, err := db.Query(command)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if result.IsCount {
			fmt.Println(result.Count)
			return
		}
		for _, row := range result.Rows {
			fmt.Println(strings.Join(row, columnSeparator))
		}
	}
}
