// Package source reads raw SMS dumps from device exports: the CSV files
// produced by an ADB content query, or an iPhone backup's message database.
package source

import "time"

// RawMessage is one message record as supplied by a device dump.
// Timestamp is normalized to UTC; it is the zero time when the device's
// native representation could not be parsed. Body may be empty.
type RawMessage struct {
	ID        string
	Address   string
	Timestamp time.Time
	Body      string
}

// dump CSV column names as written by the export tools; thread_id and type
// are carried in the dump but not consumed by the pipeline.
const (
	colID      = "_id"
	colAddress = "address"
	colDate    = "date"
	colBody    = "body"
)
