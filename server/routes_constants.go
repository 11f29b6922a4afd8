package server

import "github.com/infas01/Bookfair-Reservation-Management-System/access"

// Route path constants
// Page routes are owned by the access package so the guard and the mux agree
const (
	// Page Routes
	RouteLogin                 = access.RouteLogin
	RouteRegister              = access.RouteRegister
	RouteHome                  = access.RouteHome
	RouteProfile               = access.RouteProfile
	RouteAdminDashboard        = access.RouteAdminDashboard
	RouteAdminUsers            = access.RouteAdminUsers
	RouteAdminRegisterEmployee = access.RouteAdminRegisterEmployee

	// Profile Routes
	RouteProfileChangePassword = RouteProfile + "/change-password"

	// Admin Routes - User Management
	RouteAdminUser     = RouteAdminUsers + "/{id}"
	RouteAdminUserRole = RouteAdminUsers + "/{id}/role"

	// Auth Routes - Form Submissions
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"

	// API Routes
	RouteAPISession      = "/api/session"
	RouteAPINotice       = "/api/notice"
	RouteAPIStalls       = "/api/stalls"
	RouteAPIStall        = "/api/stalls/{id}"
	RouteAPIReservations = "/api/reservations"
)
