package widgets

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Result views offered by the toolbar selector.
const (
	ViewEdges          = "Edges"
	ViewOverlay        = "Overlay"
	ViewDebug          = "Debug"
	ViewClassification = "Classification"
)

var resultViews = []string{ViewEdges, ViewOverlay, ViewDebug, ViewClassification}

type Toolbar struct {
	container     *fyne.Container
	loadButton    *widget.Button
	saveButton    *widget.Button
	processButton *widget.Button
	viewSelect    *widget.Select
	statusLabel   *widget.Label
	statsLabel    *widget.Label

	loadHandler    func()
	saveHandler    func()
	processHandler func()
	viewHandler    func(string)
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButton("Load", t.onLoadClicked)
	t.loadButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButton("Save", t.onSaveClicked)
	t.saveButton.Importance = widget.HighImportance

	t.processButton = widget.NewButton("Process", t.onProcessClicked)
	t.processButton.Importance = widget.HighImportance

	t.viewSelect = widget.NewSelect(resultViews, t.onViewChanged)
	t.viewSelect.SetSelected(ViewEdges)

	t.statusLabel = widget.NewLabel("Ready")
	t.statsLabel = widget.NewLabel("Edges: -- | Grid: --")
}

func (t *Toolbar) buildLayout() {
	background := canvas.NewRectangle(color.RGBA{R: 250, G: 249, B: 245, A: 255})
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 1.0
	border.StrokeColor = color.RGBA{R: 231, G: 231, B: 231, A: 255}

	leftSection := container.NewHBox(t.loadButton, t.saveButton)
	centerSection := container.NewHBox(t.processButton, t.viewSelect)
	statusSection := container.NewHBox(t.statusLabel)
	rightSection := container.NewHBox(t.statsLabel)

	content := container.NewBorder(
		nil, nil,
		leftSection,
		rightSection,
		container.NewHBox(centerSection, widget.NewSeparator(), statusSection),
	)

	t.container = container.NewStack(
		border,
		container.NewPadded(
			container.NewStack(background, container.NewPadded(content)),
		),
	)
}

func (t *Toolbar) onLoadClicked() {
	if t.loadHandler != nil {
		t.loadHandler()
	}
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}

func (t *Toolbar) onProcessClicked() {
	if t.processHandler != nil {
		t.processHandler()
	}
}

func (t *Toolbar) onViewChanged(view string) {
	if t.viewHandler != nil {
		t.viewHandler(view)
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetProcessHandler(handler func()) {
	t.processHandler = handler
}

func (t *Toolbar) SetViewChangeHandler(handler func(string)) {
	t.viewHandler = handler
}

func (t *Toolbar) SelectedView() string {
	return t.viewSelect.Selected
}

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

func (t *Toolbar) SetProcessing(active bool) {
	if active {
		t.processButton.Disable()
		t.loadButton.Disable()
		return
	}
	t.processButton.Enable()
	t.loadButton.Enable()
}

// SetStats shows the edge count and grid of the last run. A zero width
// resets the label.
func (t *Toolbar) SetStats(edges, width, height int, scale float64, elapsed time.Duration) {
	if width == 0 {
		t.statsLabel.SetText("Edges: -- | Grid: --")
		return
	}
	t.statsLabel.SetText(fmt.Sprintf("Edges: %d | Grid: %dx%d @ %.2f | %s",
		edges, width, height, scale, elapsed.Round(time.Millisecond)))
}
