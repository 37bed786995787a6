package widget

// Layout is an ordered container. Layouts nest.
type Layout struct {
	base
	children []Widget
}

func NewLayout(children ...Widget) *Layout {
	return &Layout{children: children}
}

func (l *Layout) Add(w Widget) { l.children = append(l.children, w) }

func (l *Layout) Count() int { return len(l.children) }

func (l *Layout) Children() []Widget { return l.children }

// TakeAt detaches and returns the child at i without disposing it.
func (l *Layout) TakeAt(i int) Widget {
	if i < 0 || i >= len(l.children) {
		return nil
	}
	w := l.children[i]
	l.children = append(l.children[:i], l.children[i+1:]...)
	return w
}

// Dispose marks the layout disposed. Children are left to the owner; see
// window.ClearLayout.
func (l *Layout) Dispose() { l.disposed = true }
