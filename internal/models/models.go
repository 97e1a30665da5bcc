package models

import (
	"time"
)

// Model is a record persisted in the history database.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error // reports data that must not be stored
}

// Repository is the data access contract for one kind of [Model].
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error // soft delete; deleted rows disappear from Get and List
	List(criteria map[string]any) ([]T, error)
}
