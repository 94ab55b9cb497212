// Package nav models the navigation shell: which page is active, the links it
// offers, the collapsible menu and the logout action.
package nav

import (
	"strings"
	"sync"
)

// Page is one of the client's destinations.
type Page int

const (
	Login Page = iota
	Register
	Tasks
)

// FromPath derives the page for a route. Unknown routes, including "/", show Login.
func FromPath(path string) Page {
	switch {
	case strings.Contains(path, "register"):
		return Register
	case strings.Contains(path, "tasks"):
		return Tasks
	default:
		return Login
	}
}

// Path returns the canonical route of the page.
func (p Page) Path() string {
	switch p {
	case Register:
		return "/register"
	case Tasks:
		return "/tasks"
	default:
		return "/login"
	}
}

// Label returns the link text of the page.
func (p Page) Label() string {
	switch p {
	case Register:
		return "Register"
	case Tasks:
		return "Tasks"
	default:
		return "Login"
	}
}

func (p Page) String() string { return strings.ToLower(p.Label()) }

// MenuState is the collapsible menu state.
type MenuState int

const (
	Collapsed MenuState = iota
	Expanded
)

func (m MenuState) String() string {
	if m == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Link is one entry of the navigation bar.
type Link struct {
	Label  string
	Page   Page
	Logout bool // the entry logs out instead of navigating
	Active bool
}

// SessionClearer is the part of the session store the shell needs.
type SessionClearer interface {
	Clear() error
}

// Shell holds the active page and menu state. It is safe for concurrent use.
type Shell struct {
	mu      sync.Mutex
	page    Page
	menu    MenuState
	session SessionClearer
}

// NewShell starts on the page derived from path with the menu collapsed.
func NewShell(path string, session SessionClearer) *Shell {
	return &Shell{page: FromPath(path), menu: Collapsed, session: session}
}

// Page returns the active page.
func (s *Shell) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Menu returns the menu state.
func (s *Shell) Menu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// ToggleMenu flips the menu state and returns the new state.
func (s *Shell) ToggleMenu() MenuState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menu == Collapsed {
		s.menu = Expanded
	} else {
		s.menu = Collapsed
	}
	return s.menu
}

// Navigate switches to p and collapses the menu.
func (s *Shell) Navigate(p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
	s.menu = Collapsed
}

// NavigatePath switches to the page derived from path.
func (s *Shell) NavigatePath(path string) Page {
	p := FromPath(path)
	s.Navigate(p)
	return p
}

// Logout clears the session token and redirects to Login. The redirect happens
// even when clearing fails; the error is returned for the caller to surface.
func (s *Shell) Logout() error {
	var err error
	if s.session != nil {
		err = s.session.Clear()
	}
	s.Navigate(Login)
	return err
}

// Links returns the navigation entries for the active page: Tasks and Logout on
// the tasks page, Login and Register elsewhere.
func (s *Shell) Links() []Link {
	page := s.Page()
	if page == Tasks {
		return []Link{
			{Label: Tasks.Label(), Page: Tasks, Active: true},
			{Label: "Logout", Page: Login, Logout: true},
		}
	}
	return []Link{
		{Label: Login.Label(), Page: Login, Active: page == Login},
		{Label: Register.Label(), Page: Register, Active: page == Register},
	}
}
