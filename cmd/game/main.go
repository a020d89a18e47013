package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"

	"golang.org/x/term"

	"github.com/tomz197/bubblepop/internal/audio"
	"github.com/tomz197/bubblepop/internal/config"
	"github.com/tomz197/bubblepop/internal/logging"
	"github.com/tomz197/bubblepop/internal/loop"
	"github.com/tomz197/bubblepop/internal/loop/client"
)

// EnvAudio turns on pop sounds for the local game.
const EnvAudio = "BUBBLEPOP_AUDIO"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// The terminal belongs to the game, so logs only go to a file if asked.
	logger, closeLog, err := logging.FromEnv(io.Discard, "game")
	if err != nil {
		return err
	}
	defer closeLog()

	tuning, err := config.LoadTuning()
	if err != nil {
		return err
	}

	opts := client.ClientOptions{
		Tuning: &tuning,
		Logger: logger,
	}
	if u, err := user.Current(); err == nil {
		opts.Username = u.Username
	}

	withAudio, err := config.GetEnvBool(EnvAudio, false)
	if err != nil {
		return err
	}
	if withAudio {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer sm.Cleanup()
			opts.Sound = sm
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	return loop.Run(bufio.NewReader(os.Stdin), os.Stdout, opts)
}
