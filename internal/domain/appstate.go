// Package domain defines the workspace data model: papers (tabs), highlights,
// and the persisted application state snapshot.
package domain

// AppState is the persisted workspace snapshot: the ordered tab list and the
// active tab. This is the serialization boundary: document bytes are stored
// separately, keyed by paper ID, and never appear here.
//
// Field names match the snapshot schema of the browser frontend ("tabs",
// "activeTabId") rather than this codebase's usual snake_case; changing them
// would orphan existing workspaces.
type AppState struct {
	Tabs        []*Paper `json:"tabs"`
	ActiveTabID string   `json:"activeTabId,omitempty"`
}

// NewAppState returns an empty workspace snapshot.
func NewAppState() *AppState {
	return &AppState{Tabs: []*Paper{}}
}

// Find returns the paper with the given ID and its position in tab order, or
// (nil, -1) when absent.
func (s *AppState) Find(id string) (*Paper, int) {
	for i, p := range s.Tabs {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// Active returns the active paper, or nil when none is active.
func (s *AppState) Active() *Paper {
	if s.ActiveTabID == "" {
		return nil
	}
	p, _ := s.Find(s.ActiveTabID)
	return p
}

// Append adds a paper at the end of the tab order and makes it active.
func (s *AppState) Append(p *Paper) {
	s.Tabs = append(s.Tabs, p)
	s.ActiveTabID = p.ID
}

// Remove deletes the paper at the given position, keeping tab order intact.
func (s *AppState) Remove(index int) {
	s.Tabs = append(s.Tabs[:index], s.Tabs[index+1:]...)
}
