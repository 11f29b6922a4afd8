package server

import "github.com/infas01/Bookfair-Reservation-Management-System/access"

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))

	// LOGIN & REGISTRATION
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Staff pages
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.HomeHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("PUT "+RouteProfile, ChainMiddleware(s.ProfileUpdateHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("POST "+RouteProfileChangePassword, ChainMiddleware(s.ChangePasswordHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))

	// Admin routes
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersListHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("DELETE "+RouteAdminUser, ChainMiddleware(s.AdminDeleteUserHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("PUT "+RouteAdminUserRole, ChainMiddleware(s.AdminUpdateRoleHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))
	s.RegisterRouteHandler("POST "+RouteAdminRegisterEmployee, ChainMiddleware(s.AdminRegisterEmployeeHandler(), s.HTMLMiddleWare(s.RequirePageAccess)...))

	// API routes
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPINotice, ChainMiddleware(s.NoticeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteAPINotice, ChainMiddleware(s.DismissNoticeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIStalls, ChainMiddleware(s.StallsHandler(), s.APIMiddleware(s.RequireAPIAccess(access.Authenticated()))...))
	s.RegisterRouteHandler("GET "+RouteAPIStall, ChainMiddleware(s.StallHandler(), s.APIMiddleware(s.RequireAPIAccess(access.Authenticated()))...))
	s.RegisterRouteHandler("GET "+RouteAPIReservations, ChainMiddleware(s.ReservationsHandler(), s.APIMiddleware(s.RequireAPIAccess(access.Authenticated()))...))
}
