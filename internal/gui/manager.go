package gui

import (
	"tagedge/internal/logger"
	"tagedge/internal/pipeline"

	"fyne.io/fyne/v2"
)

// Manager owns the window content and wires the view to a coordinator.
type Manager struct {
	window     fyne.Window
	controller *Controller
	view       *View
	logger     logger.Logger
	isShutdown bool
}

func NewManager(window fyne.Window, coordinator *pipeline.Coordinator, log logger.Logger) *Manager {
	manager := &Manager{
		window: window,
		logger: log,
	}

	manager.view = NewView(window)
	manager.controller = NewController(coordinator, log)
	manager.view.SetController(manager.controller)
	manager.controller.SetView(manager.view)

	log.Info("GUIManager", "initialized with MVC pattern", map[string]interface{}{
		"window_title": window.Title(),
	})

	return manager
}

func (m *Manager) GetMainContainer() *fyne.Container {
	return m.view.GetMainContainer()
}

func (m *Manager) Show() {
	m.view.Show()
	m.logger.Info("GUIManager", "GUI displayed", nil)
}

// ShowLoaded displays a source that was loaded outside the file dialog, such
// as a path given on the command line.
func (m *Manager) ShowLoaded(data *pipeline.ImageData) {
	fyne.Do(func() {
		m.view.SetSourceImage(data.Image())
		m.view.SetStatus("Image loaded")
	})
}

func (m *Manager) ShowError(title string, err error) {
	fyne.Do(func() {
		m.view.ShowError(title, err)
	})
}

func (m *Manager) Shutdown() {
	if m.isShutdown {
		return
	}

	m.isShutdown = true
	m.logger.Info("GUIManager", "shutdown initiated", nil)

	m.controller.Shutdown()
	fyne.Do(m.view.Shutdown)

	m.logger.Info("GUIManager", "shutdown completed", nil)
}
