package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"tomgalvin.uk/ptgoprint/internal/bluetooth"
	"tomgalvin.uk/ptgoprint/internal/ptouch"
	"tomgalvin.uk/ptgoprint/internal/server"
)

func main() {
	config := LoadConfiguration()

	fmt.Println("Scanning for devices...")
	connection, err := bluetooth.FromName(config.DeviceName)
	if err != nil {
		slog.Error("Couldn't find printer", "err", err)
		os.Exit(1)
	}

	if err := connection.Connect(); err != nil {
		slog.Error("Couldn't connect to printer", "err", err)
		os.Exit(1)
	}
	defer connection.Disconnect()

	session := ptouch.NewSession(connection)
	session.SetMaxStatusPolls(config.MaxStatusPolls)
	session.OnStatus(func(s *ptouch.Status) {
		slog.Debug("Printer status",
			"statusType", s.Type,
			"mediaWidth", s.MediaWidth,
			"phaseType", s.PhaseType,
		)
	})

	if err := session.Connect(); err != nil {
		slog.Error("Couldn't initialise printer session", "err", err)
		os.Exit(1)
	}

	repository, err := NewRepository(config.DatabasePath)
	if err != nil {
		slog.Error("Couldn't open job history", "err", err)
		os.Exit(1)
	}
	defer repository.Close()

	s := &server.Server{
		Session:    session,
		Repository: repository,
	}
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)

	fmt.Printf("Starting server on port %s...\n", config.Port)
	if err := http.ListenAndServe(":"+config.Port, mux); err != nil {
		fmt.Printf("Error starting server: %v\n", err)
		os.Exit(1)
	}
}
