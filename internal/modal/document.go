package modal

// Class names the controller looks up in a document.
const (
	ClassFileTree     = "file-tree"
	ClassOuter        = "file-tree-modal-outer"
	ClassDialog       = "file-tree-modal"
	ClassHeader       = "file-tree-header"
	ClassOpenButton   = "file-tree-button"
	ClassCloseButton  = "file-tree-close"
	ClassContent      = "file-tree-content"
	ClassStatsFolders = "stats-folders"
	ClassStatsFiles   = "stats-files"

	// ClassActive marks the visible modal.
	ClassActive = "active"
	// AttributeAriaHidden carries the accessibility visibility state.
	AttributeAriaHidden = "aria-hidden"

	openButtonLabel  = "File tree"
	closeButtonLabel = "×"
)

// Document is the page a navigation cycle operates on.
type Document struct {
	body *Element
}

// NewDocument wraps body as a document.
func NewDocument(body *Element) *Document {
	if body == nil {
		body = NewElement("body")
	}
	return &Document{body: body}
}

// NewFileTreeDocument returns a page carrying the standard file-tree modal markup, hidden.
func NewFileTreeDocument() *Document {
	openButton := NewElement("button", ClassOpenButton)
	openButton.SetTextContent(openButtonLabel)

	closeButton := NewElement("button", ClassCloseButton)
	closeButton.SetTextContent(closeButtonLabel)

	header := NewElement("div", ClassHeader).AppendChild(
		NewElement("span", ClassStatsFolders),
		NewElement("span", ClassStatsFiles),
		closeButton,
	)
	dialog := NewElement("div", ClassDialog).AppendChild(
		header,
		NewElement("div", ClassContent),
	)
	outer := NewElement("div", ClassOuter).AppendChild(dialog)
	outer.SetAttribute(AttributeAriaHidden, "true")

	fileTree := NewElement("div", ClassFileTree).AppendChild(openButton, outer)
	return NewDocument(NewElement("body").AppendChild(fileTree))
}

// Body returns the document's root element.
func (document *Document) Body() *Element {
	return document.body
}

// QuerySelector returns the first element carrying className, including the body.
func (document *Document) QuerySelector(className string) *Element {
	if document.body.HasClass(className) {
		return document.body
	}
	return document.body.QuerySelector(className)
}

// RenderHTML serialises the document body.
func (document *Document) RenderHTML() string {
	return document.body.RenderHTML()
}
