package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"tagedge/internal/config"
	"tagedge/internal/gui"
	"tagedge/internal/gui/widgets"
	"tagedge/internal/logger"
	"tagedge/internal/opencv/bridge"
	"tagedge/internal/opencv/memory"
	"tagedge/internal/pipeline"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	AppName    = "TagEdge Viewer"
	AppID      = "com.imageprocessing.tagedge"
	AppVersion = "1.0.0"
)

type shutdownHandler interface {
	Shutdown()
}

// Options configure a viewer session.
type Options struct {
	Config config.Config
	// ImagePath is loaded before the window opens when set.
	ImagePath string
}

type Application struct {
	fyneApp       fyne.App
	window        fyne.Window
	guiManager    *gui.Manager
	coordinator   *pipeline.Coordinator
	tracker       *memory.Tracker
	logger        logger.Logger
	imagePath     string
	shutdownables []shutdownHandler
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	shutdown      chan struct{}
}

func NewApplication(opts Options) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
		Build:   1,
	})

	logLevel := logger.LevelFromEnv()
	log := logger.NewConsoleLogger(logLevel)

	tracker := memory.NewTracker(log)
	codec := bridge.NewCodec(tracker, log)

	coordinator, err := pipeline.NewCoordinator(opts.Config, log,
		pipeline.WithDecoder(codec),
		pipeline.WithResizer(codec),
		pipeline.WithEdgeEncoder(codec),
		pipeline.WithMemoryReporter(tracker),
	)
	if err != nil {
		return nil, fmt.Errorf("create coordinator: %w", err)
	}

	fyneApp := app.NewWithID(AppID)
	fyneApp.Settings().SetTheme(gui.NewTheme())
	window := fyneApp.NewWindow(AppName)

	windowSize := calculateMinimumWindowSize()
	window.Resize(windowSize)
	window.SetFixedSize(false)
	window.SetPadded(false)
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  windowSize.Width,
		"window_height": windowSize.Height,
		"log_level":     logLevel.String(),
	})

	guiManager := gui.NewManager(window, coordinator, log)

	ctx, cancel := context.WithCancel(context.Background())
	application := &Application{
		fyneApp:     fyneApp,
		window:      window,
		guiManager:  guiManager,
		coordinator: coordinator,
		tracker:     tracker,
		logger:      log,
		imagePath:   opts.ImagePath,
		ctx:         ctx,
		cancel:      cancel,
		shutdown:    make(chan struct{}),
		shutdownables: []shutdownHandler{
			coordinator,
			guiManager,
		},
	}

	application.setupMenu()
	application.setupSignalHandling()
	log.Info("Application", "initialization complete", nil)
	return application, nil
}

func (a *Application) setupMenu() {
	aboutAction := func() {
		fyne.Do(func() {
			a.showAbout()
		})
	}

	memoryAction := func() {
		fyne.Do(func() {
			a.showMemory()
		})
	}

	fileMenu := fyne.NewMenu("File")
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Native Memory", memoryAction),
		fyne.NewMenuItem("About", aboutAction),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *Application) showAbout() {
	metadata := a.fyneApp.Metadata()

	name := metadata.Name
	if name == "" {
		name = AppName
	}
	version := metadata.Version
	if version == "" {
		version = AppVersion
	}

	aboutContent := container.NewVBox(
		widget.NewLabel(name),
		widget.NewLabel(fmt.Sprintf("Version: %s", version)),
		widget.NewLabel(fmt.Sprintf("Build: %d", max(metadata.Build, 1))),
		widget.NewLabel(""),
		widget.NewLabel("Adaptive mean thresholding with edge extraction"),
		widget.NewLabel(""),
		widget.NewLabel("Runtime Info:"),
		widget.NewLabel(fmt.Sprintf("Go: %s", runtime.Version())),
		widget.NewLabel(fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)),
		widget.NewLabel("OpenCV: 4.11.0+"),
	)

	dialog.ShowCustom("About", "Close", aboutContent, a.window)
}

func (a *Application) showMemory() {
	stats := a.tracker.Stats()
	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("Live Mats: %d", stats.Active)),
		widget.NewLabel(fmt.Sprintf("Live bytes: %d", stats.UsedBytes)),
		widget.NewLabel(fmt.Sprintf("Allocations: %d", stats.Allocations)),
		widget.NewLabel(fmt.Sprintf("Releases: %d", stats.Deallocations)),
	)
	dialog.ShowCustom("Native Memory", "Close", content, a.window)
}

func calculateMinimumWindowSize() fyne.Size {
	imageDisplayWidth := widgets.ImageAreaWidth * 2
	toolbarHeight := float32(50)
	parametersHeight := float32(150)

	return fyne.Size{
		Width:  float32(imageDisplayWidth + 100),
		Height: float32(widgets.ImageAreaHeight + toolbarHeight + parametersHeight + 100),
	}
}

func (a *Application) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			a.logger.Info("Application", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			a.initiateShutdown()
		case <-a.ctx.Done():
		}
	}()
}

func (a *Application) loadInitialImage() {
	if a.imagePath == "" {
		return
	}

	data, err := a.coordinator.LoadFile(a.imagePath)
	if err != nil {
		a.guiManager.ShowError("Image load error", err)
		return
	}
	a.guiManager.ShowLoaded(data)
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested via window close", nil)
		a.initiateShutdown()
		a.window.Close()
	})

	fyne.Do(func() {
		a.guiManager.Show()
	})
	go a.loadInitialImage()

	go func() {
		<-a.shutdown
		fyne.Do(func() {
			a.fyneApp.Quit()
		})
	}()

	a.fyneApp.Run()
	a.initiateShutdown()
	a.wg.Wait()
	return nil
}

func (a *Application) initiateShutdown() {
	select {
	case <-a.shutdown:
		return
	default:
		close(a.shutdown)
	}

	a.logger.Info("Application", "shutdown sequence initiated", map[string]interface{}{
		"components": len(a.shutdownables),
	})

	a.cancel()

	for i := len(a.shutdownables) - 1; i >= 0; i-- {
		component := a.shutdownables[i]

		done := make(chan struct{})
		go func() {
			defer close(done)
			component.Shutdown()
		}()

		select {
		case <-done:
		case <-time.After(10 * time.Second):
			a.logger.Warning("Application", "component shutdown timeout", map[string]interface{}{
				"component_index": i,
			})
		}
	}

	a.logger.Info("Application", "shutdown sequence completed", nil)
}
