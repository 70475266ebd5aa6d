package store

// HealthStore abstracts backend connectivity checks.
type HealthStore interface {
	// CheckConnectivity verifies the database is reachable.
	CheckConnectivity() error
}
