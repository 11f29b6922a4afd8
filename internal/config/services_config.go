package config

import (
	"strings"
	"time"
)

const (
	iamServiceURLVar         = "IAM_SERVICE_URL"
	profileServiceURLVar     = "PROFILE_SERVICE_URL"
	stallServiceURLVar       = "STALL_SERVICE_URL"
	reservationServiceURLVar = "RESERVATION_SERVICE_URL"
	requestTimeoutVar        = "REQUEST_TIMEOUT"
)

// ServicesConfig locates the backend services. Each backend is addressed
// independently.
type ServicesConfig interface {
	GetIAMServiceURL() string
	GetProfileServiceURL() string
	GetStallServiceURL() string
	GetReservationServiceURL() string
	GetRequestTimeout() time.Duration
}

type Services struct {
	src source
}

var _ ServicesConfig = Services{}

func (s Services) GetIAMServiceURL() string {
	return trimURL(s.src.get(iamServiceURLVar, "http://localhost:8081"))
}

// GetProfileServiceURL defaults to the identity service, which hosts the
// profile endpoints.
func (s Services) GetProfileServiceURL() string {
	return trimURL(s.src.get(profileServiceURLVar, s.GetIAMServiceURL()))
}

func (s Services) GetStallServiceURL() string {
	return trimURL(s.src.get(stallServiceURLVar, "http://localhost:5001/api"))
}

func (s Services) GetReservationServiceURL() string {
	return trimURL(s.src.get(reservationServiceURLVar, "http://localhost:5000/api"))
}

func (s Services) GetRequestTimeout() time.Duration {
	return s.src.duration(requestTimeoutVar, 10*time.Second)
}

func trimURL(u string) string {
	return strings.TrimRight(u, "/")
}
