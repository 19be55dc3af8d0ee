package app

import (
	"io"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/pcadvisor/advisor"
)

const fyneAppID = "studio.yashubu.pcadvisor"

// Run initializes required resources and starts the desktop UI.
func Run() error {
	cfg, err := advisor.LoadConfig("")
	if err != nil {
		return err
	}

	a := fyneapp.NewWithID(fyneAppID)
	u := newUIState(cfg)
	logger := log.New(io.MultiWriter(os.Stdout, u.logCapture), "", log.LstdFlags)
	u.service = advisor.NewService(cfg, nil, logger)
	u.buildUI(a)

	// Pre-select and analyze the table used last time.
	if path, ok := advisor.LastUsedPath(""); ok {
		u.loadCSV(path)
	}

	defer u.saveConfig()
	u.w.ShowAndRun()
	return nil
}
