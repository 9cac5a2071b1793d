// Package catalog holds the reference entities ledger rows are matched
// against: drivers, routes, load types, truck types, account types and trucks.
package catalog

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("reference not found")

// StrikeName is the load type meaning "no cargo on this leg".
const StrikeName = "Strike"

type Driver struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Route struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type LoadType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TruckType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type AccountType struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Truck struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	PlateNumber string     `gorm:"uniqueIndex;not null" json:"plate_number"`
	TruckTypeID *int64     `json:"truck_type_id,omitempty"`
	TruckType   *TruckType `gorm:"foreignKey:TruckTypeID" json:"truck_type,omitempty"`
	Company     string     `json:"company,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TypeName returns the truck's type name or "" when untyped.
func (t *Truck) TypeName() string {
	if t == nil || t.TruckType == nil {
		return ""
	}

	return t.TruckType.Name
}

var plateReplacer = strings.NewReplacer(" ", "", "-", "", "_", "")

// NormalizePlate is the canonical key for plate comparisons: upper case with
// spaces, hyphens and underscores removed.
func NormalizePlate(plate string) string {
	return plateReplacer.Replace(strings.ToUpper(strings.TrimSpace(plate)))
}

// Snapshot is the full reference data set at a point in time.
type Snapshot struct {
	Drivers      []Driver
	Routes       []Route
	LoadTypes    []LoadType
	TruckTypes   []TruckType
	AccountTypes []AccountType
	Trucks       []Truck
}
