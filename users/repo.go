package users

type UserRepo interface {
	Upsert(account *Account) error
	Delete(id string) error
	GetByEmail(email string) (*Account, error)
	GetByID(id string) (*Account, error)
	// List returns accounts ordered by creation; an empty role lists everyone.
	List(role Role) ([]*Account, error)
}
