package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 500
	ImageAreaHeight = 400
)

// ImageDisplay shows the loaded source next to the selected result view.
type ImageDisplay struct {
	container   fyne.CanvasObject
	sourceImage *canvas.Image
	resultImage *canvas.Image
	resultTitle *widget.RichText
	splitView   *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func newImageCanvas(scale canvas.ImageScale) *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = scale
	img.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return img
}

func (id *ImageDisplay) createComponents() {
	id.sourceImage = newImageCanvas(canvas.ImageScaleSmooth)
	// Edge pixels are one pixel wide; smoothing would wash them out.
	id.resultImage = newImageCanvas(canvas.ImageScalePixels)
	id.resultTitle = widget.NewRichTextFromMarkdown("**Edges**")
}

func (id *ImageDisplay) setupLayout() {
	sourceContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Source**"),
		nil, nil, nil,
		id.sourceImage,
	)

	resultContainer := container.NewBorder(
		id.resultTitle,
		nil, nil, nil,
		id.resultImage,
	)

	id.splitView = container.NewHSplit(sourceContainer, resultContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

func (id *ImageDisplay) SetSourceImage(img image.Image) {
	id.sourceImage.Image = img
	id.sourceImage.Refresh()
	id.container.Refresh()
}

// SetResultImage replaces the right pane and its heading.
func (id *ImageDisplay) SetResultImage(title string, img image.Image) {
	id.resultTitle.ParseMarkdown("**" + title + "**")
	id.resultImage.Image = img
	id.resultImage.Refresh()
}
