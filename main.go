package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/Uzaaft/heimdall/config"
	"github.com/Uzaaft/heimdall/daemon"
	"github.com/Uzaaft/heimdall/doctor"
	"github.com/Uzaaft/heimdall/lock"
	"github.com/Uzaaft/heimdall/log"
	"github.com/Uzaaft/heimdall/login"
	"github.com/Uzaaft/heimdall/shutdown"
)

var version = "dev"

const (
	exitError   = 1
	exitRunning = 2
)

func run() {
	configFlag := flag.String("config", "", "config file (default: $HEIMDALL_CONFIG, then $XDG_CONFIG_HOME/heimdall/config.toml)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	lockFlag := flag.String("lock", "", "instance lock file (default: heimdall.lock in the temp dir)")
	watchFlag := flag.Bool("watch", true, "Reload bindings when the config file changes")
	backgroundFlag := flag.Bool("background", false, "Detach from the terminal and run in the background")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	selfTestFlag := flag.Bool("selftest", false, "With -doctor, type one binding with a virtual keyboard")
	startService := flag.Bool("start-service", false, "Start heimdall automatically at login")
	stopService := flag.Bool("stop-service", false, "Stop starting heimdall at login")
	restartService := flag.Bool("restart-service", false, "Re-create the login entry for this executable")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("heimdall %s\n", version)
		os.Exit(0)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(exitError)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog()

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	cfgPath, err := config.Resolve(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}

	if *startService || *stopService || *restartService {
		os.Exit(service(*startService, *stopService, *restartService, *configFlag, cfgPath))
	}

	if *doctorFlag {
		os.Exit(doctor.Run(doctor.Options{
			ConfigPath: cfgPath,
			LockPath:   *lockFlag,
			SelfTest:   *selfTestFlag,
		}))
	}

	// Re-exec in background, return shell prompt
	if *backgroundFlag && os.Getenv("_HEIMDALL_BG") == "" {
		pid, err := detach()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		fmt.Printf("heimdall running in background (pid %d)\n", pid)
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	ctx, stop := shutdown.Context(context.Background())
	err = daemon.Run(ctx, daemon.Options{
		LockPath:   *lockFlag,
		ConfigPath: cfgPath,
		Watch:      *watchFlag,
		Version:    version,
	})
	stop()

	if err != nil {
		log.Errorf("exit: %v", err)
	}
	log.Close()

	switch {
	case err == nil:
	case errors.Is(err, lock.ErrAlreadyRunning):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitRunning)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

func service(start, stop, restart bool, configFlag, cfgPath string) int {
	var args []string
	if configFlag != "" {
		args = []string{"-config", cfgPath}
	}

	var err error
	switch {
	case restart:
		err = login.Restart(args...)
	case stop:
		err = login.Disable()
	case start:
		err = login.Enable(args...)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}

	if login.Enabled() {
		fmt.Println("heimdall will start at login")
	} else {
		fmt.Println("heimdall will not start at login")
	}
	return 0
}

func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

// detach starts a copy of this process with the same arguments and no
// terminal attached.
func detach() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("locate executable: %w", err)
	}
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Env = append(os.Environ(), "_HEIMDALL_BG=1")
	cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start background process: %w", err)
	}
	return cmd.Process.Pid, nil
}
