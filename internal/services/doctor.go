package services

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/hesabkit/hesabchat/internal/ports"
)

// HealthCheck is one diagnostic result.
type HealthCheck struct {
	Name    string
	Status  string // ok | warn | fail
	Details string
}

// DoctorService runs environment diagnostics for the client.
type DoctorService struct {
	Gateway    ports.Gateway
	Journal    ports.ConversationJournal
	ConfigPath string
}

// Run executes the checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) []HealthCheck {
	var checks []HealthCheck

	if s.ConfigPath != "" {
		if _, err := os.Stat(s.ConfigPath); err != nil {
			checks = append(checks, warn("Config file", fmt.Sprintf("not found at %s (defaults in effect)", s.ConfigPath)))
		} else {
			checks = append(checks, ok("Config file", s.ConfigPath))
		}
	}

	addr := s.Gateway.Address()
	if u, err := url.Parse(addr); err != nil || u.Scheme == "" || u.Host == "" {
		checks = append(checks, fail("Backend address", fmt.Sprintf("%q is not a valid URL", addr)))
		return checks
	}
	checks = append(checks, ok("Backend address", addr))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if entities, err := s.Gateway.FetchEntities(pingCtx); err != nil {
		checks = append(checks, fail("Backend reachable", err.Error()))
	} else {
		checks = append(checks, ok("Backend reachable", fmt.Sprintf("%d entities known", len(entities))))
	}

	if s.Journal != nil {
		if _, err := s.Journal.Records(1, ""); err != nil {
			checks = append(checks, warn("Journal", err.Error()))
		} else {
			checks = append(checks, ok("Journal", s.Journal.Path()))
		}
	}

	return checks
}

func ok(name, details string) HealthCheck   { return HealthCheck{Name: name, Status: "ok", Details: details} }
func warn(name, details string) HealthCheck { return HealthCheck{Name: name, Status: "warn", Details: details} }
func fail(name, details string) HealthCheck { return HealthCheck{Name: name, Status: "fail", Details: details} }
