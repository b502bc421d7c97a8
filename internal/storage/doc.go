// Package storage provides the durable key-value backends that hold the
// subscribed feed list.
//
// A Store maps string keys to string values. FileStore keeps a JSON object on
// disk, serializing writers across processes with a lock file and replacing
// the document atomically. SQLiteStore keeps the same data in a single kv
// table and retries writes when the database is busy. MemoryStore backs tests
// and ephemeral sessions. Open selects a backend from configuration.
package storage
