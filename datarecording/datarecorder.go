// Package datarecording stores simulation traces in a SQLite database.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store trace rows.
type DataRecorder interface {
	// CreateTable creates a new table with the given column definitions.
	CreateTable(tableName string, columns []string)

	// InsertData buffers one row for a table that already exists.
	InsertData(tableName string, values ...any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered rows into the database.
	Flush()
}

// New creates a DataRecorder backed by a SQLite file at path (without the
// .sqlite3 suffix). An empty path picks a generated name. The recorder
// flushes on process exit.
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	columns []string
	rows    [][]any
}

type sqliteWriter struct {
	*sql.DB

	dbName     string
	tables     map[string]*table
	entryCount int
	batchSize  int
}

func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "uartloop_trace_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

// CreateTable creates a table. Each column definition is a name optionally
// followed by a SQLite type, e.g. "time REAL".
func (t *sqliteWriter) CreateTable(tableName string, columns []string) {
	if _, exists := t.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + strings.Join(columns, ", \n\t") + "\n" + `);`
	t.mustExecute(createTableSQL)

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = strings.Fields(c)[0]
	}

	t.tables[tableName] = &table{columns: names}
}

func (t *sqliteWriter) InsertData(tableName string, values ...any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if len(values) != len(table.columns) {
		panic(fmt.Sprintf("table %s takes %d values, got %d",
			tableName, len(table.columns), len(values)))
	}

	table.rows = append(table.rows, values)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(t.tables))
	for name := range t.tables {
		tables = append(tables, name)
	}

	return tables
}

// Flush writes all buffered rows in one transaction.
func (t *sqliteWriter) Flush() {
	if t.entryCount == 0 {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for tableName, table := range t.tables {
		if len(table.rows) == 0 {
			continue
		}

		stmt := t.prepareStatement(tableName, len(table.columns))

		for _, row := range table.rows {
			_, err := stmt.Exec(row...)
			if err != nil {
				panic(err)
			}
		}

		table.rows = nil

		stmt.Close()
	}

	t.entryCount = 0
}

func (t *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *sqliteWriter) prepareStatement(tableName string, numCols int) *sql.Stmt {
	placeholders := make([]string, numCols)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	return stmt
}
