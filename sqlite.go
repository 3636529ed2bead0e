package main

import (
	"database/sql"
	_ "embed"
	"fmt"

	"tomgalvin.uk/ptgoprint/internal/history"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed resources/sql/schema.sql
var schema string

func NewRepository(path string) (*history.JobRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}

	return &history.JobRepository{Db: db}, nil
}
