package repository

// Repository groups the stores the storefront reads and writes. Each field is
// backed by PostgreSQL, Redis or memory depending on configuration.
type Repository struct {
	Event   EventRepository
	User    UserRepository
	Session SessionRepository
}
