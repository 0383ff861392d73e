package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/vidgrab/internal/config"
	"github.com/ytget/vidgrab/internal/engine"
	"github.com/ytget/vidgrab/internal/logger"
	"github.com/ytget/vidgrab/internal/platform"
	"github.com/ytget/vidgrab/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.vidgrab"
	AppName = "VidGrab"

	WindowWidth  = 720
	WindowHeight = 420
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		logger.Warn("Failed to load .env", "error", err)
	}
	logger.SetLevel(env.LogLevel)
	logger.Info("VidGrab starting", "version", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())
	if icon, err := ui.LoadAppIcon(); err == nil {
		myApp.SetIcon(icon)
	}

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	instance, err := platform.AcquireInstance(myApp.Storage().RootURI().Path(), func() {
		fyne.Do(func() {
			myWindow.Show()
			myWindow.RequestFocus()
		})
	})
	switch {
	case errors.Is(err, platform.ErrAlreadyRunning):
		logger.Info("VidGrab is already running, focusing the existing window")
		return
	case err != nil:
		logger.Warn("Failed to acquire single instance lock", "error", err)
	default:
		defer instance.Release()
	}

	settings := config.NewSettings(myApp, env)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		logger.Warn("Failed to ensure downloads dir", "error", err)
	}

	binary, err := settings.ResolveYTDLP()
	if err != nil {
		// downloads report the missing tool when attempted
		logger.Warn("yt-dlp not found", "error", err)
		binary = platform.YTDLPBinaryName
	}
	logger.Info("Using yt-dlp", "path", binary)

	eng := engine.New(engine.Options{
		Binary:         binary,
		OutputTemplate: settings.GetFilenameTemplate(),
	})

	var once sync.Once
	shutdown := func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), ui.ShutdownTimeout)
			defer cancel()
			if err := eng.Shutdown(ctx); err != nil {
				logger.Error("Engine shutdown failed", "error", err)
			}
		})
	}
	myApp.Lifecycle().SetOnStopped(shutdown)
	myWindow.SetCloseIntercept(func() {
		shutdown()
		myWindow.Close()
	})

	ui.NewRootUI(myWindow, myApp, eng, settings)

	myWindow.ShowAndRun()
	shutdown()
}
