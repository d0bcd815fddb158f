// Package connection holds the store endpoint address for the session and the
// periodic check that drives the connected indicator.
package connection

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/ethanbaker/hq-console/pkg/utils"
)

// DefaultHostSuffix is the host every Apps Script web endpoint lives under
const DefaultHostSuffix = "script.google.com"

// Source tells where the current address came from
type Source string

const (
	SourceNone    Source = ""
	SourceConfig  Source = "config"
	SourceSession Source = "session"
)

// Settings is the process-wide endpoint address. It implements sheet.EndpointSource
type Settings struct {
	mu         sync.RWMutex
	endpoint   string
	source     Source
	hostSuffix string
}

// NewSettings reads APPS_SCRIPT_URL and STORE_ENDPOINT_HOST_SUFFIX. An invalid
// configured address is dropped with a warning
func NewSettings(cfg *utils.Config) *Settings {
	s := &Settings{hostSuffix: cfg.GetWithDefault("STORE_ENDPOINT_HOST_SUFFIX", DefaultHostSuffix)}
	// "-" disables the host check
	if strings.TrimSpace(s.hostSuffix) == "-" {
		s.hostSuffix = ""
	}

	if raw := cfg.Get("APPS_SCRIPT_URL"); raw != "" {
		endpoint, err := Validate(raw, s.hostSuffix)
		if err != nil {
			log.Printf("[CONNECTION]: Warning, ignoring APPS_SCRIPT_URL: %v", err)
		} else {
			s.endpoint = endpoint
			s.source = SourceConfig
		}
	}

	return s
}

// NewStaticSettings creates settings around an already known address and host suffix
func NewStaticSettings(endpoint, hostSuffix string) *Settings {
	return &Settings{endpoint: endpoint, source: SourceConfig, hostSuffix: hostSuffix}
}

// Endpoint returns the current address, empty when none is set
func (s *Settings) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// Source returns where the current address came from
func (s *Settings) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Set validates raw and makes it the session address. An empty raw clears it
func (s *Settings) Set(raw string) error {
	if strings.TrimSpace(raw) == "" {
		s.mu.Lock()
		s.endpoint, s.source = "", SourceNone
		s.mu.Unlock()
		log.Println("[CONNECTION]: Store endpoint cleared")
		return nil
	}

	endpoint, err := Validate(raw, s.hostSuffix)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.endpoint, s.source = endpoint, SourceSession
	s.mu.Unlock()

	log.Printf("[CONNECTION]: Store endpoint set to %s", endpoint)
	return nil
}

// Validate checks that raw is an absolute http(s) address whose host ends in
// hostSuffix (when hostSuffix is not empty) and returns it trimmed
func Validate(raw, hostSuffix string) (string, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint address: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("endpoint address must use http or https")
	}
	if u.Host == "" {
		return "", fmt.Errorf("endpoint address has no host")
	}

	host := strings.ToLower(u.Hostname())
	suffix := strings.ToLower(hostSuffix)
	if suffix != "" && host != suffix && !strings.HasSuffix(host, "."+suffix) {
		return "", fmt.Errorf("endpoint host must be %s", hostSuffix)
	}

	return raw, nil
}
