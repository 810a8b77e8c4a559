package viewmodel

// User is the signed-in operator as exposed to templates.
type User struct {
	ID       int64
	FullName string
	Email    string
	Role     string
}

// Toast is a queued notification rendered by the layout.
type Toast struct {
	ID         string
	Kind       string
	Message    string
	DurationMS int64
}

// Layout captures shared chrome metadata (titles, navigation state, session flags).
type Layout struct {
	Title           string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Toasts          []Toast
}
