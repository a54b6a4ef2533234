package recording

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// ClickHouseRecorder streams firing rows into a ClickHouse database over
// the native protocol. Rows are buffered in typed per-table batches and
// bulk-inserted, which suits long runs that would outgrow a local SQLite
// file.
type ClickHouseRecorder struct {
	conn      clickhouse.Conn
	mu        sync.Mutex
	batchSize int

	// One typed batch per table, appended without reflection. A table
	// exists iff its name is a key here.
	batches map[string][]firingTableEntry

	entryCount int
}

// NewClickHouse connects to a ClickHouse server and returns a recorder
// that writes firing tables into the given database. It panics when the
// server cannot be reached. A batchSize of 0 selects the default.
func NewClickHouse(
	host string,
	port int,
	database string,
	username string,
	password string,
	batchSize int,
) DataRecorder {
	if batchSize == 0 {
		batchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	recorder := &ClickHouseRecorder{
		conn:      conn,
		batchSize: batchSize,
		batches:   make(map[string][]firingTableEntry),
	}

	atexit.Register(func() {
		recorder.Flush()
	})

	return recorder
}

// CreateTable creates a MergeTree table for firing rows. Only the firing
// row shape is supported; other sample types panic.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch sampleEntry.(type) {
	case firingTableEntry:
	default:
		panic(fmt.Sprintf("unknown table type: %T", sampleEntry))
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ID String,
			Name String,
			Time Int64,
			Wall Int64
		) ENGINE = MergeTree()
		ORDER BY (Time, ID)
	`, tableName)

	err := r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	if _, exists := r.batches[tableName]; !exists {
		r.batches[tableName] = nil
	}
}

// InsertData appends a firing row to the table's batch. The batch is
// flushed once the recorder holds batchSize rows across all tables.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	batch, exists := r.batches[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	e, ok := entry.(firingTableEntry)
	if !ok {
		r.mu.Unlock()
		panic(fmt.Sprintf("invalid entry type for firing table: %T", entry))
	}

	r.batches[tableName] = append(batch, e)
	r.entryCount++

	if r.entryCount >= r.batchSize {
		r.mu.Unlock()
		r.Flush()
		return
	}

	r.mu.Unlock()
}

// ListTables returns the names of the tables created so far.
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.batches))
	for name := range r.batches {
		tables = append(tables, name)
	}

	return tables
}

// Flush bulk-inserts all batched rows.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, rows := range r.batches {
		if len(rows) == 0 {
			continue
		}

		r.flushTable(ctx, tableName, rows)
		r.batches[tableName] = rows[:0] // Reset slice, keep capacity
	}

	r.entryCount = 0
}

func (r *ClickHouseRecorder) flushTable(
	ctx context.Context,
	tableName string,
	rows []firingTableEntry,
) {
	batch, err := r.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", tableName))
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w", tableName, err))
	}

	for _, entry := range rows {
		err = batch.Append(entry.ID, entry.Name, entry.Time, entry.Wall)
		if err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	err = batch.Send()
	if err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}
}

// Close flushes remaining rows and closes the connection.
func (r *ClickHouseRecorder) Close() error {
	r.Flush()

	err := r.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}
