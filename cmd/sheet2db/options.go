package main

import (
	"github.com/JonMunkholm/sheet2db/internal/config"
	"github.com/JonMunkholm/sheet2db/internal/database"
)

func poolOptions(db config.DatabaseConfig) database.Options {
	return database.Options{
		ConnectTimeout:  db.ConnectTimeout,
		MaxConns:        db.MaxConns,
		MinConns:        db.MinConns,
		MaxConnLifetime: db.MaxConnLifetime,
		MaxConnIdleTime: db.MaxConnIdleTime,
	}
}
