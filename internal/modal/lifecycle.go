package modal

// NavigationHandler runs once per navigation against the new document.
type NavigationHandler func(document *Document)

// Lifecycle dispatches navigation events and runs the cleanups registered during the previous cycle.
type Lifecycle struct {
	navigationHandlers []NavigationHandler
	cleanups           []func()
	navigations        int
}

// NewLifecycle returns an empty Lifecycle.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// OnNavigate registers handler for every future navigation.
func (lifecycle *Lifecycle) OnNavigate(handler NavigationHandler) {
	lifecycle.navigationHandlers = append(lifecycle.navigationHandlers, handler)
}

// AddCleanup registers cleanup to run before the next navigation.
func (lifecycle *Lifecycle) AddCleanup(cleanup func()) {
	lifecycle.cleanups = append(lifecycle.cleanups, cleanup)
}

// Navigate tears down the previous cycle and then dispatches the navigation event.
func (lifecycle *Lifecycle) Navigate(document *Document) {
	lifecycle.Teardown()
	lifecycle.navigations++
	for _, handler := range lifecycle.navigationHandlers {
		handler(document)
	}
}

// Teardown runs pending cleanups in registration order and forgets them.
func (lifecycle *Lifecycle) Teardown() {
	pendingCleanups := lifecycle.cleanups
	lifecycle.cleanups = nil
	for _, cleanup := range pendingCleanups {
		cleanup()
	}
}

// PendingCleanups reports how many cleanups await the next navigation.
func (lifecycle *Lifecycle) PendingCleanups() int {
	return len(lifecycle.cleanups)
}

// Navigations reports how many navigations have been dispatched.
func (lifecycle *Lifecycle) Navigations() int {
	return lifecycle.navigations
}
