package widgets

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var scaleTypes = []string{"fast", "averaging", "native"}

type ParameterPanel struct {
	container              *fyne.Container
	parameterChangeHandler func(string, interface{})

	// syncing suppresses change events while values are pushed from the model.
	syncing bool

	windowSizeSlider *widget.Slider
	windowSizeLabel  *widget.Label
	offsetSlider     *widget.Slider
	offsetLabel      *widget.Label
	scaleSizeSlider  *widget.Slider
	scaleSizeLabel   *widget.Label
	scaleTypeSelect  *widget.Select

	workersCheck        *widget.Check
	visualDebugCheck    *widget.Check
	classificationCheck *widget.Check
}

func NewParameterPanel() *ParameterPanel {
	panel := &ParameterPanel{}
	panel.createWidgets()
	panel.buildLayout()
	return panel
}

func (pp *ParameterPanel) createWidgets() {
	pp.windowSizeSlider = widget.NewSlider(2, 128)
	pp.windowSizeSlider.Step = 1
	pp.windowSizeLabel = widget.NewLabel("Window Size: 48")

	pp.offsetSlider = widget.NewSlider(-32, 64)
	pp.offsetSlider.Step = 1
	pp.offsetLabel = widget.NewLabel("Offset: 10")

	pp.scaleSizeSlider = widget.NewSlider(0, 1024)
	pp.scaleSizeSlider.Step = 32
	pp.scaleSizeLabel = widget.NewLabel("Scale Size: 320")

	pp.scaleTypeSelect = widget.NewSelect(scaleTypes, nil)

	pp.workersCheck = widget.NewCheck("Two Workers", nil)
	pp.visualDebugCheck = widget.NewCheck("Visual Debug", nil)
	pp.classificationCheck = widget.NewCheck("Keep Classification", nil)
}

func (pp *ParameterPanel) buildLayout() {
	pp.container = container.NewVBox(
		widget.NewLabel("Parameters:"),
		container.NewHBox(
			container.NewVBox(pp.windowSizeLabel, pp.windowSizeSlider),
			container.NewVBox(pp.offsetLabel, pp.offsetSlider),
			container.NewVBox(pp.scaleSizeLabel, pp.scaleSizeSlider),
			container.NewVBox(widget.NewLabel("Scale Type"), pp.scaleTypeSelect),
		),
		container.NewHBox(pp.workersCheck, pp.visualDebugCheck, pp.classificationCheck),
	)
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

func (pp *ParameterPanel) SetParameterChangeHandler(handler func(string, interface{})) {
	pp.parameterChangeHandler = handler
	pp.setupEventHandlers()
}

func (pp *ParameterPanel) emit(name string, value interface{}) {
	if pp.syncing || pp.parameterChangeHandler == nil {
		return
	}
	pp.parameterChangeHandler(name, value)
}

func (pp *ParameterPanel) setupEventHandlers() {
	pp.windowSizeSlider.OnChanged = func(value float64) {
		pp.windowSizeLabel.SetText("Window Size: " + strconv.Itoa(int(value)))
		pp.emit("window_size", int(value))
	}

	pp.offsetSlider.OnChanged = func(value float64) {
		pp.offsetLabel.SetText("Offset: " + strconv.Itoa(int(value)))
		pp.emit("offset", int(value))
	}

	pp.scaleSizeSlider.OnChanged = func(value float64) {
		pp.scaleSizeLabel.SetText(scaleSizeText(int(value)))
		pp.emit("scale_size", int(value))
	}

	pp.scaleTypeSelect.OnChanged = func(value string) {
		pp.emit("scale_type", value)
	}

	pp.workersCheck.OnChanged = func(checked bool) {
		workers := 1
		if checked {
			workers = 2
		}
		pp.emit("workers", workers)
	}

	pp.visualDebugCheck.OnChanged = func(checked bool) {
		pp.emit("visual_debug", checked)
	}

	pp.classificationCheck.OnChanged = func(checked bool) {
		pp.emit("keep_classification", checked)
	}
}

func scaleSizeText(size int) string {
	if size == 0 {
		return "Scale Size: Off"
	}
	return "Scale Size: " + strconv.Itoa(size)
}

// UpdateParameters pushes model values into the widgets without raising
// change events.
func (pp *ParameterPanel) UpdateParameters(params map[string]interface{}) {
	pp.syncing = true
	defer func() { pp.syncing = false }()

	windowSize := getIntParam(params, "window_size", 48)
	pp.windowSizeSlider.SetValue(float64(windowSize))
	pp.windowSizeLabel.SetText("Window Size: " + strconv.Itoa(windowSize))

	offset := getIntParam(params, "offset", 10)
	pp.offsetSlider.SetValue(float64(offset))
	pp.offsetLabel.SetText("Offset: " + strconv.Itoa(offset))

	scaleSize := getIntParam(params, "scale_size", 320)
	pp.scaleSizeSlider.SetValue(float64(scaleSize))
	pp.scaleSizeLabel.SetText(scaleSizeText(scaleSize))

	if scaleType, ok := params["scale_type"].(string); ok {
		pp.scaleTypeSelect.SetSelected(scaleType)
	}

	pp.workersCheck.SetChecked(getIntParam(params, "workers", 1) == 2)
	pp.visualDebugCheck.SetChecked(getBoolParam(params, "visual_debug", false))
	pp.classificationCheck.SetChecked(getBoolParam(params, "keep_classification", false))
}

func getIntParam(params map[string]interface{}, key string, defaultValue int) int {
	if value, ok := params[key].(int); ok {
		return value
	}
	return defaultValue
}

func getBoolParam(params map[string]interface{}, key string, defaultValue bool) bool {
	if value, ok := params[key].(bool); ok {
		return value
	}
	return defaultValue
}
