package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table names used by the action history to address records
const (
	TablePeople        = "people"
	TableEvents        = "events"
	TableRegistrations = "registrations"
)

// PackageType defines what a registration covers
type PackageType string

const (
	// PackageSiteOnly covers the event site only
	PackageSiteOnly PackageType = "SITE_ONLY"
	// PackageSiteAndBus covers the event site plus bus transport
	PackageSiteAndBus PackageType = "SITE_AND_BUS"
)

// Person represents an attendee in the people registry
type Person struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	Name      string    `gorm:"not null" json:"name"`
	Document  string    `json:"document"`
	Phone     string    `json:"phone"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"isDeleted"`
}

// Event represents one edition of the Gira da Mata event
type Event struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	Name          string         `gorm:"not null" json:"name"`
	Date          time.Time      `json:"date"`
	Location      string         `json:"location"`
	SitePrice     float64        `json:"sitePrice"`
	BusPrice      float64        `json:"busPrice"`
	PixKey        string         `json:"pixKey"`
	Deadline      *time.Time     `json:"deadline,omitempty"`
	IsArchived    bool           `gorm:"not null;default:false" json:"isArchived"`
	IsDeleted     bool           `gorm:"not null;default:false;index" json:"isDeleted"`
	Registrations []Registration `gorm:"foreignKey:EventID" json:"-"`
}

// PackageAmount returns the standard amount charged for a package type
func (e *Event) PackageAmount(pkg PackageType) float64 {
	if pkg == PackageSiteAndBus {
		return e.SitePrice + e.BusPrice
	}
	return e.SitePrice
}

// Registration links a person to an event and carries the payment value
type Registration struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
	EventID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"eventId"`
	Event         *Event      `gorm:"foreignKey:EventID" json:"-"`
	PersonID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"personId"`
	Person        *Person     `gorm:"foreignKey:PersonID" json:"person,omitempty"`
	PackageType   PackageType `gorm:"not null" json:"packageType"`
	Payment       Payment     `gorm:"type:jsonb" json:"payment"`
	BusAssignment *string     `json:"busAssignment,omitempty"`
	Notes         string      `json:"notes"`
	IsDeleted     bool        `gorm:"not null;default:false;index" json:"isDeleted"`
}

// Action types recorded in the history log
const (
	ActionCreatePerson       = "CREATE_PERSON"
	ActionUpdatePerson       = "UPDATE_PERSON"
	ActionDeletePerson       = "DELETE_PERSON"
	ActionCreateEvent        = "CREATE_EVENT"
	ActionUpdateEvent        = "UPDATE_EVENT"
	ActionDeleteEvent        = "DELETE_EVENT"
	ActionCreateRegistration = "CREATE_REGISTRATION"
	ActionUpdateRegistration = "UPDATE_REGISTRATION"
	ActionDeleteRegistration = "DELETE_REGISTRATION"

	// UndoActionPrefix marks entries produced by an undo. Such entries are
	// terminal: they are never themselves a valid undo target.
	UndoActionPrefix = "UNDO_"
)

// UndoActionType returns the action type recorded for the undo of an action
func UndoActionType(actionType string) string {
	return UndoActionPrefix + actionType
}

// IsUndoAction reports whether an action type was produced by an undo
func IsUndoAction(actionType string) bool {
	return strings.HasPrefix(actionType, UndoActionPrefix)
}

// ActionHistoryEntry is the immutable record of one domain mutation.
// It is append-only: after creation the only permitted change is flipping
// IsUndone when an undo of this entry is committed.
type ActionHistoryEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	ActionType   string    `gorm:"not null;index" json:"actionType"`
	TableName    string    `gorm:"not null" json:"tableName"`
	RecordID     uuid.UUID `gorm:"type:uuid;not null;index" json:"recordId"`
	PreviousData []byte    `gorm:"type:jsonb" json:"previousData,omitempty"`
	NewData      []byte    `gorm:"type:jsonb" json:"newData,omitempty"`
	Description  string    `json:"description"`
	Actor        string    `json:"actor"`
	IPAddress    string    `json:"ipAddress"`
	LocationInfo string    `json:"locationInfo"`
	IsUndone     bool      `gorm:"not null;default:false" json:"isUndone"`
}

// Undoable reports whether the entry is still a valid undo target
func (e *ActionHistoryEntry) Undoable() bool {
	return !e.IsUndone && !IsUndoAction(e.ActionType)
}

// SetupModels runs the schema migrations for all models
func SetupModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&Person{},
		&Event{},
		&Registration{},
		&ActionHistoryEntry{},
	)
}

// AllModels returns the model set the schema diagnostic checks against
func AllModels() []interface{} {
	return []interface{}{
		&Person{},
		&Event{},
		&Registration{},
		&ActionHistoryEntry{},
	}
}
