// Package store defines the storage interfaces for the code jam
// management API. Implementations live in the gorm subpackage.
package store
