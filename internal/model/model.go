package model

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Guitar represents a tracked instrument in the collection
type Guitar struct {
	ID          string    `json:"id"`
	Maker       string    `json:"maker" validate:"required"`
	Model       string    `json:"model" validate:"required"`
	StringSpecs string    `json:"stringSpecs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MaintenanceLog represents a single dated service record for a guitar.
// CreatedAt is the record creation time, not the maintenance date.
type MaintenanceLog struct {
	ID              string    `json:"id"`
	GuitarID        string    `json:"guitarId"`
	MaintenanceDate time.Time `json:"maintenanceDate"`
	TypeOfWork      string    `json:"typeOfWork" validate:"required"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// AppState is the full persisted snapshot: every guitar and every log,
// in insertion order.
type AppState struct {
	Guitars         []Guitar         `json:"guitars"`
	MaintenanceLogs []MaintenanceLog `json:"maintenanceLogs"`
}

// MaintenanceStatus is the derived urgency classification
type MaintenanceStatus string

const (
	StatusUrgent  MaintenanceStatus = "urgent"
	StatusWarning MaintenanceStatus = "warning"
	StatusGood    MaintenanceStatus = "good"
)

// GuitarWithStatus is a derived view of a guitar plus its maintenance
// urgency. It is recomputed on every read and never persisted.
type GuitarWithStatus struct {
	Guitar
	LastMaintenanceDate  *time.Time        `json:"lastMaintenanceDate,omitempty"`
	Status               MaintenanceStatus `json:"status"`
	DaysSinceMaintenance int               `json:"daysSinceMaintenance"`
}

// NewID generates an identifier for a new record
func NewID() string {
	return uuid.NewString()
}

// NewGuitar builds a guitar with a fresh id and both timestamps set to now
func NewGuitar(maker, model, stringSpecs string) Guitar {
	now := time.Now()
	return Guitar{
		ID:          NewID(),
		Maker:       maker,
		Model:       model,
		StringSpecs: stringSpecs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewMaintenanceLog builds a log record with a fresh id and createdAt now
func NewMaintenanceLog(guitarID string, maintenanceDate time.Time, typeOfWork, notes string) MaintenanceLog {
	return MaintenanceLog{
		ID:              NewID(),
		GuitarID:        guitarID,
		MaintenanceDate: maintenanceDate,
		TypeOfWork:      typeOfWork,
		Notes:           notes,
		CreatedAt:       time.Now(),
	}
}

var validate = validator.New()

// Validate checks the required fields of a guitar before it is dispatched
func (g Guitar) Validate() error {
	return validate.Struct(g)
}

// Validate checks the required fields of a maintenance log before it is dispatched
func (m MaintenanceLog) Validate() error {
	return validate.Struct(m)
}
