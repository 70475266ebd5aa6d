// Package model contains the database models for the code jam
// management API.
package model
