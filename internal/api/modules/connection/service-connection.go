package connection_module

import (
	"context"
	"fmt"

	"github.com/ethanbaker/hq-console/internal/connection"
	"github.com/ethanbaker/hq-console/internal/workflow"
)

// Searcher re-runs the finder search after the endpoint changes
type Searcher interface {
	Search(ctx context.Context) *workflow.FinderView
}

// Service exposes the connection monitor
type Service struct {
	monitor *connection.Monitor
	finder  Searcher
}

var connectionService *Service

// NewService creates the connection service. finder is optional
func NewService(monitor *connection.Monitor, finder Searcher) (*Service, error) {
	if monitor == nil {
		return nil, fmt.Errorf("a connection monitor must be provided")
	}
	return &Service{monitor: monitor, finder: finder}, nil
}

// Init sets the service used by the connection routes
func Init(svc *Service) {
	connectionService = svc
}
