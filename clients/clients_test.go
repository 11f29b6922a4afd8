package clients_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/infas01/Bookfair-Reservation-Management-System/apiclient"
	"github.com/infas01/Bookfair-Reservation-Management-System/clients"
	"github.com/infas01/Bookfair-Reservation-Management-System/internal/utils"
	"github.com/infas01/Bookfair-Reservation-Management-System/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	server *httptest.Server
	api    *apiclient.Client

	mu       sync.Mutex
	lastAuth string
	lastBody map[string]any
	lastURL  string
}

func (f *testFixture) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAuth = r.Header.Get("Authorization")
	f.lastURL = r.URL.RequestURI()
	f.lastBody = nil
	_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
}

func (f *testFixture) seen() (string, string, map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth, f.lastURL, f.lastBody
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setupTestFixture(t *testing.T, mount func(r chi.Router)) *testFixture {
	t.Helper()

	f := &testFixture{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.record(req)
			next.ServeHTTP(w, req)
		})
	})
	mount(r)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	f.api = apiclient.New(f.server.URL, apiclient.TokenFunc(func() string { return "admin-token" }))
	return f
}

func TestAdminClient(t *testing.T) {
	f := setupTestFixture(t, func(r chi.Router) {
		r.Get("/api/admin/users", func(w http.ResponseWriter, req *http.Request) {
			list := []users.User{
				{ID: "1", Email: "a@fair.lk", Role: users.RoleAdmin},
				{ID: "2", Email: "e@fair.lk", Role: users.RoleEmployee},
			}
			if role := req.URL.Query().Get("role"); role != "" {
				list = list[1:]
			}
			writeJSON(w, http.StatusOK, list)
		})
		r.Get("/api/admin/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			if chi.URLParam(req, "id") != "2" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
				return
			}
			writeJSON(w, http.StatusOK, users.User{ID: "2", Email: "e@fair.lk", Role: users.RoleEmployee})
		})
		r.Put("/api/admin/users/{id}/role", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, users.User{ID: chi.URLParam(req, "id"), Role: users.RoleAdmin})
		})
		r.Delete("/api/admin/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			w.Write([]byte("User deleted successfully"))
		})
		r.Get("/api/admin/stats", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, clients.UserStats{TotalUsers: 3, Admins: 1, Employees: 1, Users: 1})
		})
		r.Post("/api/auth/admin/register-employee", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]string{"message": "Employee registered successfully"})
		})
	})
	admin := clients.NewAdminClient(f.api)
	ctx := context.Background()

	all, err := admin.ListUsers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	auth, uri, _ := f.seen()
	require.Equal(t, "Bearer admin-token", auth)
	require.Equal(t, "/api/admin/users", uri)

	employees, err := admin.ListUsers(ctx, users.RoleEmployee)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	_, uri, _ = f.seen()
	require.Equal(t, "/api/admin/users?role=EMPLOYEE", uri)

	u, err := admin.GetUser(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, "e@fair.lk", u.Email)

	_, err = admin.GetUser(ctx, "99")
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, apiclient.StatusOf(err))
	require.Equal(t, "User not found", err.Error())

	updated, err := admin.UpdateRole(ctx, "2", users.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, users.RoleAdmin, updated.Role)
	_, _, body := f.seen()
	require.Equal(t, "ADMIN", body["role"])

	require.NoError(t, admin.DeleteUser(ctx, "2"))

	stats, err := admin.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, stats.TotalUsers)

	msg, err := admin.RegisterEmployee(ctx, clients.EmployeeRegistration{Name: "Emp", Email: "new@fair.lk", Password: "secret1"})
	require.NoError(t, err)
	require.Equal(t, "Employee registered successfully", msg)
	_, _, body = f.seen()
	require.Equal(t, "new@fair.lk", body["email"])
}

func TestProfileClient(t *testing.T) {
	f := setupTestFixture(t, func(r chi.Router) {
		r.Get("/api/profile", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": "7", "email": "me@fair.lk", "name": "Me", "role": "EMPLOYEE"})
		})
		r.Put("/api/profile", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": "7", "email": "me@fair.lk", "name": "Renamed", "role": "EMPLOYEE", "businessName": "Books Ltd"})
		})
		r.Put("/api/profile/change-password", func(w http.ResponseWriter, req *http.Request) {
			var change clients.PasswordChange
			_ = json.NewDecoder(req.Body).Decode(&change)
			w.Write([]byte("Password changed successfully"))
		})
	})
	profile := clients.NewProfileClient(f.api)
	ctx := context.Background()

	me, err := profile.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, users.RoleEmployee, me.Role)

	updated, err := profile.Update(ctx, clients.ProfileUpdate{Name: "Renamed", BusinessName: utils.Ptr("Books Ltd")})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "Books Ltd", utils.Value(updated.BusinessName))

	require.NoError(t, profile.ChangePassword(ctx, clients.PasswordChange{CurrentPassword: "old", NewPassword: "new-secret"}))
	_, _, body := f.seen()
	require.Equal(t, "old", body["currentPassword"])
	require.Equal(t, "new-secret", body["newPassword"])
}

func TestStallClient(t *testing.T) {
	stalls := []clients.Stall{
		{ID: 1, Name: "A1", Size: "SMALL", IsReserved: true},
		{ID: 2, Name: "B1", Size: "MEDIUM"},
		{ID: 3, Name: "C1", Size: "LARGE"},
	}
	f := setupTestFixture(t, func(r chi.Router) {
		r.Get("/stalls", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, stalls)
		})
		r.Get("/stalls/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, stalls[1])
		})
	})
	client := clients.NewStallClient(f.api)
	ctx := context.Background()

	list, err := client.List(ctx, clients.StallFilter{Reserved: utils.Ptr(false), Size: "MEDIUM"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	_, uri, _ := f.seen()
	require.Equal(t, "/stalls?reserved=false&size=MEDIUM", uri)

	_, err = client.List(ctx, clients.StallFilter{})
	require.NoError(t, err)
	_, uri, _ = f.seen()
	require.Equal(t, "/stalls", uri)

	stall, err := client.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "B1", stall.Name)

	stats := clients.SummarizeStalls(list)
	require.Equal(t, clients.StallStats{Total: 3, Available: 2, Reserved: 1, Small: 1, Medium: 1, Large: 1}, stats)
}

func TestReservationClient(t *testing.T) {
	f := setupTestFixture(t, func(r chi.Router) {
		r.Get("/reservations", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "stallId": 2, "userId": 7, "reservationDate": "2026-01-10T09:00:00"}})
		})
		r.Get("/reservations/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "stallId": 2, "userId": "7", "reservationDate": "2026-01-10T09:00:00Z"})
		})
		r.Get("/reservations/stall/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{})
		})
		r.Get("/reservations/user/{id}", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
		})
	})
	client := clients.NewReservationClient(f.api)
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, int64(2), list[0].StallID)
	require.Equal(t, "7", list[0].UserID)
	require.Equal(t, 10, list[0].ReservationDate.Day())

	one, err := client.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2026, one.ReservationDate.Year())

	byStall, err := client.ByStall(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, byStall)
	_, uri, _ := f.seen()
	require.Equal(t, "/reservations/stall/2", uri)

	_, err = client.ByUser(ctx, "7")
	require.Error(t, err)
	require.Equal(t, "database down", err.Error())
	require.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))
}
