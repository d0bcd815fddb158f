package console

import (
	"fmt"

	"github.com/ethanbaker/hq-console/internal/stores/approval"
	"github.com/ethanbaker/hq-console/internal/workflow"
	"github.com/ethanbaker/hq-console/pkg/record"
)

// Service holds the workflow the console routes drive
type Service struct {
	workflow *workflow.Controller
	ledger   approval.StoreInterface
	catalog  *record.Catalog
}

var consoleService *Service

// NewService creates the console service. ledger and catalog are optional
func NewService(wf *workflow.Controller, ledger approval.StoreInterface, catalog *record.Catalog) (*Service, error) {
	if wf == nil {
		return nil, fmt.Errorf("a workflow controller must be provided")
	}
	if catalog == nil {
		catalog = record.DefaultCatalog()
	}

	return &Service{workflow: wf, ledger: ledger, catalog: catalog}, nil
}

// Init sets the service used by the console routes
func Init(svc *Service) {
	consoleService = svc
}
