package modal

import (
	"go.uber.org/zap"

	"github.com/temirov/sitetree/internal/contentindex"
	"github.com/temirov/sitetree/internal/filetree"
	"github.com/temirov/sitetree/internal/output"
	"github.com/temirov/sitetree/internal/types"
)

// State is the modal visibility state.
type State string

const (
	StateClosed State = "closed"
	StateOpen   State = "open"
)

// Trigger names an input of the modal state machine.
type Trigger string

const (
	TriggerOpen         Trigger = "open"
	TriggerClose        Trigger = "close"
	TriggerOutsideClick Trigger = "outside-click"
	TriggerTeardown     Trigger = "teardown"
)

const (
	logMessageTransition     = "modal transition"
	logMessageMissingRoot    = "file tree root missing, skipping mount"
	logMessageMissingElement = "file tree element missing, skipping mount"
	logMessageMounted        = "file tree modal mounted"
	logMessageRebuilt        = "file tree rebuilt"
	logFieldTrigger          = "trigger"
	logFieldFrom             = "from"
	logFieldTo               = "to"
	logFieldClass            = "class"
	logFieldFolders          = "folders"
	logFieldFiles            = "files"
)

// IndexProvider returns the content index current at call time.
type IndexProvider func() contentindex.Source

// Sanitizer rewrites markup before it is injected into the content element.
type Sanitizer func(markup string) string

// Options configures a Controller.
type Options struct {
	Pipeline  filetree.Pipeline
	Index     IndexProvider
	Labels    types.StatsLabels
	Sanitizer Sanitizer
	Logger    *zap.Logger
}

type surface struct {
	outer        *Element
	openButton   *Element
	closeButton  *Element
	content      *Element
	statsFolders *Element
	statsFiles   *Element
}

// Controller owns the open/closed state of the file-tree modal of the current document.
// It is driven from a single goroutine at a time.
type Controller struct {
	options    Options
	logger     *zap.Logger
	surface    *surface
	state      State
	lastResult *filetree.Result
}

// NewController returns a closed, unmounted Controller.
func NewController(options Options) *Controller {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		options: options,
		logger:  logger,
		state:   StateClosed,
	}
}

// Mount attaches the controller to every navigation of lifecycle.
func (controller *Controller) Mount(lifecycle *Lifecycle) {
	lifecycle.OnNavigate(func(document *Document) {
		controller.attach(document, lifecycle)
	})
}

// attach binds the controller to document and registers listener teardown with lifecycle.
// A document without the file-tree root leaves the controller unmounted.
func (controller *Controller) attach(document *Document, lifecycle *Lifecycle) {
	fileTreeRoot := document.QuerySelector(ClassFileTree)
	if fileTreeRoot == nil {
		controller.logger.Debug(logMessageMissingRoot)
		return
	}

	bound, missingClass := bindSurface(fileTreeRoot)
	if bound == nil {
		controller.logger.Debug(logMessageMissingElement, zap.String(logFieldClass, missingClass))
		return
	}

	controller.surface = bound
	controller.state = StateClosed
	controller.lastResult = nil

	openHandle := bound.openButton.AddEventListener(EventTypeClick, func(Event) {
		controller.Open()
	})
	closeHandle := bound.closeButton.AddEventListener(EventTypeClick, func(Event) {
		controller.Close()
	})
	outsideHandle := bound.outer.AddEventListener(EventTypeClick, controller.HandleOutsideClick)

	lifecycle.AddCleanup(func() { bound.openButton.RemoveEventListener(openHandle) })
	lifecycle.AddCleanup(func() { bound.closeButton.RemoveEventListener(closeHandle) })
	lifecycle.AddCleanup(func() { bound.outer.RemoveEventListener(outsideHandle) })
	lifecycle.AddCleanup(func() {
		if controller.surface == bound {
			controller.Teardown()
		}
	})
	controller.logger.Debug(logMessageMounted)
}

// bindSurface resolves the modal elements below fileTreeRoot, or reports the first missing class.
func bindSurface(fileTreeRoot *Element) (*surface, string) {
	bound := &surface{}
	targets := []struct {
		className string
		element   **Element
	}{
		{ClassOuter, &bound.outer},
		{ClassOpenButton, &bound.openButton},
		{ClassCloseButton, &bound.closeButton},
		{ClassContent, &bound.content},
		{ClassStatsFolders, &bound.statsFolders},
		{ClassStatsFiles, &bound.statsFiles},
	}
	for _, target := range targets {
		element := fileTreeRoot.QuerySelector(target.className)
		if element == nil {
			return nil, target.className
		}
		*target.element = element
	}
	return bound, ""
}

// Open shows the modal and rebuilds the tree from the current content index.
func (controller *Controller) Open() {
	controller.transition(TriggerOpen)
}

// Close hides the modal.
func (controller *Controller) Close() {
	controller.transition(TriggerClose)
}

// HandleOutsideClick closes the modal when the event originated on the backdrop itself.
func (controller *Controller) HandleOutsideClick(event Event) {
	if controller.surface == nil || event.Target != controller.surface.outer {
		return
	}
	controller.transition(TriggerOutsideClick)
}

// Teardown unbinds the controller from its document.
func (controller *Controller) Teardown() {
	controller.transition(TriggerTeardown)
}

// State returns the current state.
func (controller *Controller) State() State {
	return controller.state
}

// Mounted reports whether the controller is bound to a document.
func (controller *Controller) Mounted() bool {
	return controller.surface != nil
}

// LastResult returns the tree built by the most recent open, or nil.
func (controller *Controller) LastResult() *filetree.Result {
	return controller.lastResult
}

func (controller *Controller) transition(trigger Trigger) {
	if controller.surface == nil {
		return
	}
	previousState := controller.state
	switch trigger {
	case TriggerOpen:
		controller.show()
		controller.refresh()
		controller.state = StateOpen
	case TriggerClose, TriggerOutsideClick:
		controller.hide()
		controller.state = StateClosed
	case TriggerTeardown:
		controller.surface = nil
		controller.lastResult = nil
		controller.state = StateClosed
	}
	controller.logger.Debug(
		logMessageTransition,
		zap.String(logFieldTrigger, string(trigger)),
		zap.String(logFieldFrom, string(previousState)),
		zap.String(logFieldTo, string(controller.state)),
	)
}

func (controller *Controller) show() {
	controller.surface.outer.SetAttribute(AttributeAriaHidden, "false")
	controller.surface.outer.AddClass(ClassActive)
}

func (controller *Controller) hide() {
	controller.surface.outer.SetAttribute(AttributeAriaHidden, "true")
	controller.surface.outer.RemoveClass(ClassActive)
}

// refresh rebuilds the tree, writes the stats labels and injects the rendered view.
func (controller *Controller) refresh() {
	var source contentindex.Source
	if controller.options.Index != nil {
		source = controller.options.Index()
	}
	result := controller.options.Pipeline.Run(source)
	controller.lastResult = &result

	folderLabel, fileLabel := output.FormatStatsLabels(result.Stats, controller.options.Labels)
	controller.surface.statsFolders.SetTextContent(folderLabel)
	controller.surface.statsFiles.SetTextContent(fileLabel)

	markup := output.RenderTreeView(result.Root)
	if controller.options.Sanitizer != nil {
		markup = controller.options.Sanitizer(markup)
	}
	controller.surface.content.SetInnerHTML(markup)
	controller.logger.Debug(
		logMessageRebuilt,
		zap.Int(logFieldFolders, result.Stats.DisplayFolders()),
		zap.Int(logFieldFiles, result.Stats.Files),
	)
}
