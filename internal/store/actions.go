package store

import "github.com/vonshlovens/fretlog/internal/model"

// Action is the closed set of state mutations. Every mutation the
// application can perform is one of the seven variants below, applied by
// the pure reduce function.
type Action interface {
	isAction()
}

// AddGuitar appends a guitar to the collection
type AddGuitar struct {
	Guitar model.Guitar
}

// UpdateGuitar replaces the guitar with a matching id
type UpdateGuitar struct {
	Guitar model.Guitar
}

// DeleteGuitar removes a guitar and every log referencing it
type DeleteGuitar struct {
	ID string
}

// AddLog appends a maintenance log
type AddLog struct {
	Log model.MaintenanceLog
}

// UpdateLog replaces the log with a matching id
type UpdateLog struct {
	Log model.MaintenanceLog
}

// DeleteLog removes a single maintenance log
type DeleteLog struct {
	ID string
}

// LoadState replaces the entire state wholesale. Used for initial load,
// import, seeding and clear-all.
type LoadState struct {
	State model.AppState
}

func (AddGuitar) isAction()    {}
func (UpdateGuitar) isAction() {}
func (DeleteGuitar) isAction() {}
func (AddLog) isAction()       {}
func (UpdateLog) isAction()    {}
func (DeleteLog) isAction()    {}
func (LoadState) isAction()    {}

// reduce produces the next state from the current one. It is pure: no
// I/O, no clock, no mutation of the input slices.
func reduce(state model.AppState, action Action) model.AppState {
	switch a := action.(type) {
	case AddGuitar:
		next := state
		next.Guitars = append(append([]model.Guitar{}, state.Guitars...), a.Guitar)
		return next

	case UpdateGuitar:
		next := state
		next.Guitars = make([]model.Guitar, len(state.Guitars))
		for i, g := range state.Guitars {
			if g.ID == a.Guitar.ID {
				next.Guitars[i] = a.Guitar
			} else {
				next.Guitars[i] = g
			}
		}
		return next

	case DeleteGuitar:
		next := state
		next.Guitars = make([]model.Guitar, 0, len(state.Guitars))
		for _, g := range state.Guitars {
			if g.ID != a.ID {
				next.Guitars = append(next.Guitars, g)
			}
		}
		next.MaintenanceLogs = make([]model.MaintenanceLog, 0, len(state.MaintenanceLogs))
		for _, l := range state.MaintenanceLogs {
			if l.GuitarID != a.ID {
				next.MaintenanceLogs = append(next.MaintenanceLogs, l)
			}
		}
		return next

	case AddLog:
		next := state
		next.MaintenanceLogs = append(append([]model.MaintenanceLog{}, state.MaintenanceLogs...), a.Log)
		return next

	case UpdateLog:
		next := state
		next.MaintenanceLogs = make([]model.MaintenanceLog, len(state.MaintenanceLogs))
		for i, l := range state.MaintenanceLogs {
			if l.ID == a.Log.ID {
				next.MaintenanceLogs[i] = a.Log
			} else {
				next.MaintenanceLogs[i] = l
			}
		}
		return next

	case DeleteLog:
		next := state
		next.MaintenanceLogs = make([]model.MaintenanceLog, 0, len(state.MaintenanceLogs))
		for _, l := range state.MaintenanceLogs {
			if l.ID != a.ID {
				next.MaintenanceLogs = append(next.MaintenanceLogs, l)
			}
		}
		return next

	case LoadState:
		next := a.State
		if next.Guitars == nil {
			next.Guitars = []model.Guitar{}
		}
		if next.MaintenanceLogs == nil {
			next.MaintenanceLogs = []model.MaintenanceLog{}
		}
		return next

	default:
		return state
	}
}
