package users_test

import (
	"fmt"

	"github.com/infas01/Bookfair-Reservation-Management-System/users"
)

// An administrator may enter employee areas but not the reverse.
func ExampleRole_Satisfies() {
	fmt.Println(users.RoleAdmin.Satisfies(users.RoleEmployee))
	fmt.Println(users.RoleEmployee.Satisfies(users.RoleAdmin))
	// Output:
	// true
	// false
}
